package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nbkit/internal/fixture"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port  int
		dir   string
		flaky int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fixture server that hosts workloads and canned failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Workloads.Dir
			}

			server, err := fixture.Start(fixture.ServerConfig{
				Port:          port,
				Dir:           dir,
				FlakyFailures: flaky,
			}, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fixture server running on http://%s\n", displayAddr(server.Addr))
			fmt.Fprintln(out, "   Endpoints: /workloads/, /status/{code}, /flaky, /slow, /metrics")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory served under /workloads/ (default workloads.dir)")
	cmd.Flags().Int64Var(&flaky, "flaky-failures", 2, "failures /flaky returns before it succeeds")
	return cmd
}

func displayAddr(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return net.JoinHostPort("localhost", port)
}
