package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osse101/tombola/internal/bootstrap"
	"github.com/osse101/tombola/internal/config"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	EnvFile string
}

// NewServeCommand creates the serve command.
func NewServeCommand(_ *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the raffle service",
		Long: `Run the HTTP service: operator commands, status and history endpoints,
the display event stream and Prometheus metrics.

Configuration comes from the environment, optionally seeded from an env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "env file to load before reading the environment (default .env if present)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextConfig, err)
	}

	bootstrap.SetupLogger(cfg, cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	if err != nil {
		return err
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextRun, err)
	}
	return nil
}
