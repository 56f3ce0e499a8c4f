package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"nbkit/internal/banner"
	"nbkit/internal/config"
	"nbkit/internal/errhandling"
	"nbkit/internal/logging"
	"nbkit/internal/tui/styles"
)

// app carries what every subcommand needs once flags and config are read.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
}

// exitError makes the process exit with code instead of the usage code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return errhandling.ExitUsage
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "nbkit",
		Short: "nbkit - workload and content tooling for benchmarks",
		Long: `
nbkit bundles the small pieces a benchmark run leans on:

1. workloads: discover and browse YAML workloads, their scenarios and templates
2. fetch:     open remote content over http(s) with configurable error handling
3. map:       apply binding functions such as Max(42L) to values
4. serve:     run a fixture server that hosts workloads and canned failures`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.nbkit.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console or json)")
	a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newWorkloadsCmd(a),
		newFetchCmd(a),
		newMapCmd(),
		newServeCmd(a),
	)

	return root
}

func (a *app) init() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
			a.v.SetConfigType("yaml")
			a.v.SetConfigName(".nbkit")
		}
	}
	a.v.SetEnvPrefix("NBKIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("Configuration loaded", zap.String("file", a.v.ConfigFileUsed()))
	return nil
}

func Execute() {
	rootCmd := newRootCmd()

	// Custom Help with Banner
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render(err.Error()))
		os.Exit(exitCode(err))
	}
}
