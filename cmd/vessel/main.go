package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/evantbyrne/vessel/config"
	"github.com/evantbyrne/vessel/internal/logr"
	"github.com/spf13/cobra"
)

func main() {
	// Configure ^C to terminate program
	ctx, cancel := context.WithCancel(context.Background())
	catchCtrlC(cancel)

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// options are shared by every subcommand.
type options struct {
	configPath string
	logger     logr.Config
	cfg        config.Config
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "vessel",
		Short:         "Container page element server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	cmd.SetOut(out)
	cmd.SetArgs(args)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a TOML config file")
	logr.RegisterFlags(cmd.PersistentFlags(), &opts.logger)

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newPickCommand())

	return cmd.ExecuteContext(ctx)
}

// load reads the config file and environment. Logging flags given on the
// command line win over the config.
func (opts *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("v") {
		cfg.Log.Verbosity = opts.logger.Verbosity
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = opts.logger.Format
	}
	opts.logger = logr.Config{Verbosity: cfg.Log.Verbosity, Format: cfg.Log.Format}
	opts.cfg = cfg
	return nil
}

func catchCtrlC(cancel context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals,
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	go func() {
		<-signals
		signal.Stop(signals)
		cancel()
	}()
}
