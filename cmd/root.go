// Package cmd defines and implements the runtimectl CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/quantum-runtime-client/internal/app"
	"github.com/JakeFAU/quantum-runtime-client/internal/archive"
	"github.com/JakeFAU/quantum-runtime-client/internal/config"
	"github.com/JakeFAU/quantum-runtime-client/internal/converters"
	"github.com/JakeFAU/quantum-runtime-client/internal/logging"
	"github.com/JakeFAU/quantum-runtime-client/internal/rest"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is the set of services commands use. Tests inject their own factory.
type App interface {
	Close()
	Logger() *zap.Logger
	Converter() *converters.Converter
	Archiver() *archive.Archiver
	Job(jobID string) *rest.ProgramJob
	Backend(name string) *rest.Backend
}

// appFactory builds the App from the --config flag value.
type appFactory func(ctx context.Context, cfgFile string) (App, error)

func defaultAppFactory(ctx context.Context, cfgFile string) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync() //nolint:errcheck // best-effort flush
		return nil, err
	}
	return a, nil
}

// newRootCmd creates the root command and its command groups.
func newRootCmd(newApp appFactory) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "runtimectl",
		Short: "Inspect and manage quantum runtime jobs.",
		Long: `runtimectl talks to a quantum runtime service: it fetches job status,
results and logs, cancels or deletes jobs, reports backend job limits and
converts timestamps between UTC and the configured local zone.`,
		SilenceUsage: true,

		// Runs before every subcommand's RunE and injects the App.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, JSON or TOML)")

	cmd.AddCommand(newJobCmd())
	cmd.AddCommand(newBackendCmd())
	cmd.AddCommand(newTimeCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// execute runs root and closes the App the command ran with, whether or not
// the command failed.
func execute(ctx context.Context, root *cobra.Command) error {
	executed, err := root.ExecuteContextC(ctx)
	if executed != nil && executed.Context() != nil {
		if appInstance, ok := executed.Context().Value(appKey).(App); ok && appInstance != nil {
			appInstance.Close()
		}
	}
	return err
}

// Execute is the main entry point.
func Execute() {
	if err := execute(context.Background(), newRootCmd(defaultAppFactory)); err != nil {
		os.Exit(1)
	}
}
