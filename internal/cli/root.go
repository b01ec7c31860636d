// Package cli implements the credvault command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/accountingops/credvault/internal/adapter/driven/storage"
	"github.com/accountingops/credvault/internal/application"
	"github.com/accountingops/credvault/internal/config"
)

var (
	flagStore   string
	flagBackend string

	store  *application.CredentialStore
	tester *application.ConnectionTester
)

var rootCmd = &cobra.Command{
	Use:   "credvault",
	Short: "Store and inspect per-client accounting service credentials",
	Long: `credvault keeps OAuth-style credentials for external accounting
services (Deputy, Xero, QuickBooks, ...) grouped per client, in a local
SQLite database or a single JSON document.

The store is chosen with --store / CREDVAULT_STORE_PATH; the backend is
picked by file extension unless --backend / CREDVAULT_BACKEND says otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return openStore(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return store.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagStore, "store", "s", "", "path to the credential store (default from CREDVAULT_STORE_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend kind: auto, sqlite or json")

	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(testCmd)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func openStore(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	path := flagStore
	if path == "" {
		path = cfg.StorePath
	}
	kind := flagBackend
	if kind == "" {
		kind = cfg.Backend
	}

	opener, err := storage.ForKind(kind)
	if err != nil {
		return err
	}

	store = application.NewCredentialStore(application.BackendOpener(opener))
	store.Subscribe(func() {
		slog.Debug("credential store changed", "clients", len(store.Clients()))
	})

	if err := store.Open(ctx, path); err != nil {
		return fmt.Errorf("open credential store at %s: %w", path, err)
	}

	tester = application.NewConnectionTester(store)
	slog.Debug("credential store opened", "path", path, "backend", kind)
	return nil
}
