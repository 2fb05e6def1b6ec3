package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mstannard/houseledger/internal/jobs"
	"github.com/mstannard/houseledger/internal/ledger"
	"github.com/mstannard/houseledger/internal/server"
	"github.com/mstannard/houseledger/internal/storage"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the houseledger API. Migrations run on startup, and the
retention sweeper removes soft-deleted rows past their retention window in
the background.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dbPath, err := databasePath()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	srv, err := server.New(server.Config{
		Addr:        viper.GetString("server.addr"),
		AuthEnabled: viper.GetBool("auth.enabled"),
		AuthSecret:  viper.GetString("auth.secret"),
	}, store, ledger.New(store))
	if err != nil {
		return err
	}

	sweeper, err := jobs.NewSweeper(store, jobs.SweeperConfig{
		Retention: time.Duration(viper.GetInt("retention.days")) * 24 * time.Hour,
		Interval:  viper.GetDuration("retention.interval"),
	})
	if err != nil {
		return err
	}
	go sweeper.Run(ctx)

	slog.Info("starting houseledger", "version", version, "database", dbPath)

	if err := srv.Run(ctx); err != nil {
		return err
	}

	<-sweeper.Done()
	return nil
}
