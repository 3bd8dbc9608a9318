package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/session"
)

const (
	sweepEvery   = 10 * time.Minute
	shutdownWait = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

// logOutput tees to LOG_FILE when one is configured.
func logOutput(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[warn] could not open log file %s: %v\n", path, err)
		return os.Stdout, func() {}
	}
	return io.MultiWriter(os.Stdout, f), func() { _ = f.Close() }
}

func openStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.SessionStore {
	case "redis":
		return session.OpenRedis(ctx, cfg.RedisURL)
	case "sqlite", "":
		return session.OpenSQLite(cfg.SessionDSN)
	}
	return nil, fmt.Errorf("unknown SESSION_STORE %q (want sqlite or redis)", cfg.SessionStore)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Port = p
	}

	out, closeLog := logOutput(cfg.LogFile)
	defer closeLog()
	applog.Setup(cfg.LogLevel, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	sessions := session.NewManager(store, cfg.SessionTTL, session.WithSweep(sweepEvery))

	client := api.New(cfg.APIBaseURL, cfg.APITimeout)
	deps := handlers.NewDeps(cfg, client, sessions)
	defer func() { _ = deps.Close() }()
	app := handlers.NewApp(deps)

	errc := make(chan error, 1)
	go func() {
		applog.Logger().WithField("port", cfg.Port).Info("server.start")
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	applog.Logger().Info("server.shutdown")
	return app.ShutdownWithTimeout(shutdownWait)
}
