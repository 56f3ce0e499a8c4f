package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nbkit/internal/cli"
	"nbkit/internal/content"
	"nbkit/internal/errhandling"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		outFile    string
		metricsOut string
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Open remote content over http(s) and copy it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := content.ParseURI(args[0])
			if err != nil {
				return fmt.Errorf("invalid url %q: %w", args[0], err)
			}

			rules, err := errhandling.ParseRules(a.cfg.Errors.Rules)
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			handler, err := errhandling.NewHandler(rules, reg, a.logger)
			if err != nil {
				return err
			}
			if metricsOut != "" {
				defer func() {
					if err := prometheus.WriteToTextfile(metricsOut, reg); err != nil {
						a.logger.Warn("Could not write metrics", zap.String("path", metricsOut), zap.Error(err))
					}
				}()
			}

			client := content.NewHTTPClient(content.ClientOptions{
				Timeout:  a.cfg.HTTP.Timeout,
				Insecure: a.cfg.HTTP.Insecure,
			})
			resolver := content.NewURLResolver(client, a.logger)

			var (
				c          *content.Content
				notHandled bool
			)
			start := time.Now()
			status, err := errhandling.Do(cmd.Context(), handler, a.cfg.RetryPolicy(), func(ctx context.Context) error {
				var rerr error
				c, rerr = resolver.Resolve(ctx, u)
				if errors.Is(rerr, content.ErrNotHandled) {
					notHandled = true
					return nil
				}
				return rerr
			})

			if notHandled {
				return fmt.Errorf("no resolver for %q: only http and https are supported", u.String())
			}
			if err != nil {
				// nothing was fetched, so an ignored error still fails the command
				if status.ResultCode() == errhandling.ExitOK {
					status = errhandling.Finalize(status, errhandling.ExitHandled)
				}
				cli.PrintFailure(cmd.ErrOrStderr(), status, err, handler.Stats())
				return &exitError{code: status.ResultCode(), err: err}
			}
			defer c.Close()

			var n int64
			if outFile != "" {
				f, cerr := os.Create(outFile)
				if cerr != nil {
					return &exitError{code: errhandling.ExitHandled, err: cerr}
				}
				n, err = copyTo(f, c)
			} else {
				n, err = io.Copy(cmd.OutOrStdout(), c)
			}
			if err != nil {
				return &exitError{code: errhandling.ExitHandled, err: fmt.Errorf("copy %s: %w", u, err)}
			}

			cli.PrintFetchSummary(cmd.ErrOrStderr(), c.URL.String(), n, time.Since(start))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write content to this file instead of stdout")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write error metrics in Prometheus text format to this file")
	return cmd
}

// copyTo copies r into w and closes w. A failed Close is reported, since
// buffered writes may only fail there.
func copyTo(w io.WriteCloser, r io.Reader) (int64, error) {
	n, err := io.Copy(w, r)
	if cerr := w.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close: %w", cerr))
	}
	return n, err
}
