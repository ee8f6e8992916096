// Package cmd defines the CLI commands for the tgcrawl executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tgcrawl/tgcrawl/internal/app"
	"github.com/tgcrawl/tgcrawl/internal/storage"
	"github.com/tgcrawl/tgcrawl/pkg/config"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is the application interface commands depend on, so tests can
// inject a mock container.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetStorage() storage.Provider
}

// newApp is the application factory, replaceable in tests.
var newApp = func() (App, error) {
	return app.NewApp()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tgcrawl",
		Short: "Deterministic snapshotter for a tracked set of web pages.",
		Long: `tgcrawl fetches a fixed set of tracked URLs, strips the fragments
that change between otherwise-identical responses, and mirrors the
result into a diff-friendly directory tree. Running it twice against
unchanged upstream content produces byte-identical output.`,

		// Runs after config is loaded but before the subcommand's RunE:
		// the place to build and inject the service container.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp()
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(config.InitConfig)

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newDownloadCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
