package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"nbkit/internal/cli"
	"nbkit/internal/tui/browser"
	"nbkit/internal/workload"
)

func newWorkloadsCmd(a *app) *cobra.Command {
	var (
		interactive      bool
		includeTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "workloads [dir|file]",
		Short: "List workloads with their scenarios and template variables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.cfg.Workloads.Dir
			if len(args) == 1 {
				target = args[0]
			}

			descs, err := describe(a, target)
			if err != nil {
				return err
			}

			if interactive {
				p := tea.NewProgram(browser.NewModel(descs), tea.WithAltScreen())
				if _, err := p.Run(); err != nil {
					return fmt.Errorf("workload browser: %w", err)
				}
				return nil
			}

			cli.PrintWorkloads(cmd.OutOrStdout(), descs, includeTemplates)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse workloads in a terminal UI")
	cmd.Flags().BoolVar(&includeTemplates, "include-templates", true, "show template variables")
	return cmd
}

func describe(a *app, target string) ([]workload.Desc, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return workload.Discover(target, a.logger)
	}

	d, err := workload.Load(target)
	if err != nil {
		return nil, err
	}
	return []workload.Desc{d}, nil
}
