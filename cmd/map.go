package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"nbkit/internal/cli"
	"nbkit/internal/virtdata"
)

func newMapCmd() *cobra.Command {
	var examples bool

	cmd := &cobra.Command{
		Use:   "map <expr> [values...]",
		Short: "Apply a binding function such as Max(42L) to values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if examples {
				for _, name := range virtdata.Functions() {
					for _, ex := range virtdata.Examples(name) {
						fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", ex.Expr, ex.Desc)
					}
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("map needs an expression, see --examples")
			}

			op, err := virtdata.Parse(args[0])
			if err != nil {
				return err
			}

			inputs := make([]int64, 0, len(args)-1)
			for _, raw := range args[1:] {
				v, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid input %q: %w", raw, err)
				}
				inputs = append(inputs, v)
			}

			cli.PrintMapped(cmd.OutOrStdout(), op, inputs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&examples, "examples", false, "list available functions with examples")
	return cmd
}
