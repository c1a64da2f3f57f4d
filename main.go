package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/db"
	"github.com/danielhkuo/quickly-ask/router"
)

const shutdownTimeout = 10 * time.Second

var (
	flags cliparse.Config

	rootCmd = &cobra.Command{
		Use:   "quickly-ask",
		Short: "A minimal question and answer forum",
		Long: `quickly-ask serves a small Q&A forum: ask questions, tag them,
answer and upvote. Running it without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Create the schema if needed and start the HTTP server",
		RunE:  runServe,
	}

	initDBCmd = &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema and exit",
		RunE:  runInitDB,
	}
)

func init() {
	cliparse.BindFlags(rootCmd.PersistentFlags(), &flags)
	rootCmd.AddCommand(serveCmd, initDBCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setup resolves configuration, installs the logger and opens a database
// with the schema in place.
func setup(ctx context.Context) (cliparse.Config, *sqlx.DB, error) {
	cfg, err := cliparse.Resolve(flags)
	if err != nil {
		return cliparse.Config{}, nil, err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return cliparse.Config{}, nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return cliparse.Config{}, nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		dbConn.Close()
		return cliparse.Config{}, nil, err
	}
	slog.Info("Database schema ready", "driver", dbConn.DriverName())

	return cfg, dbConn, nil
}

func runInitDB(cmd *cobra.Command, args []string) error {
	_, dbConn, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	return dbConn.Close()
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, dbConn, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create router
	handler, err := router.NewRouter(dbConn, cfg)
	if err != nil {
		return err
	}

	// Create server
	server := &http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Listening", "port", cfg.Port)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Wait for in-flight requests before closing the database
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("Server closed")
	return nil
}
