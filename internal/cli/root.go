// Package cli implements agentctl, the offline companion of the dashboard
// server: it exports and imports collections directly against the
// configured store and can push files to a running server.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/okian/agentdesk/internal/adapters/kvstore"
	service "github.com/okian/agentdesk/internal/app"
	"github.com/okian/agentdesk/internal/config"
	"github.com/okian/agentdesk/pkg/logger"
	"github.com/okian/agentdesk/pkg/metrics"
)

// storeFlags override the store selected by configuration.
type storeFlags struct {
	backend string
	path    string
	verbose bool
}

// NewRootCommand builds the agentctl command tree.
func NewRootCommand() *cobra.Command {
	flags := &storeFlags{}
	root := &cobra.Command{
		Use:           "agentctl",
		Short:         "Manage agent dashboard records from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.backend, "store", "", "store backend (memory, file, sqlite, redis); defaults to configuration")
	root.PersistentFlags().StringVar(&flags.path, "path", "", "store directory or database file; defaults to configuration")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log store activity to stderr")

	root.AddCommand(newExportCommand(flags), newImportCommand(flags), newPushCommand())
	return root
}

// Execute runs agentctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// openService loads configuration, applies flag overrides and opens the
// store. Seeding is disabled so that an empty store stays empty.
func openService(ctx context.Context, flags *storeFlags, stderr io.Writer) (*service.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if flags.backend != "" {
		cfg.StoreBackend = flags.backend
	}
	if flags.path != "" {
		cfg.StorePath = flags.path
	}

	log := logger.Nop()
	if flags.verbose {
		if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
			return nil, err
		}
		_ = logger.SetLevelString("debug")
		log = logger.Get().Named("agentctl")
	}

	backend, err := kvstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return service.New(ctx,
		service.WithBackend(backend),
		service.WithLogger(log),
		service.WithSeedOnEmpty(false),
		service.WithMetrics(offlineMetrics(prometheus.NewRegistry())),
	), nil
}

// writeOutput writes text to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path, text string) error {
	if path == "" || path == "-" {
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		if text != "" && text[len(text)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	return os.WriteFile(path, []byte(text), 0o600)
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(r)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// offlineMetrics returns a manager that records nothing. agentctl exits
// before anything could scrape it.
func offlineMetrics(reg prometheus.Registerer) *metrics.Manager {
	return metrics.NewManager(metrics.WithPrometheusRegistry(reg), metrics.WithMetricsEnabled(false))
}
