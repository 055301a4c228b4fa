package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.HTTP.Addr = addr
		}
		gin.SetMode(e.cfg.HTTP.GinMode)

		reference, err := e.reference()
		if err != nil {
			return err
		}
		listener, err := e.listener()
		if err != nil {
			return err
		}

		registry := api.NewRegistry(nil)
		server := api.NewServer(api.Deps{
			Sampler:        e.sampler(),
			Results:        e.results,
			Entitlements:   e.cfg.Entitlements(),
			Analyzer:       advice.New(e.cfg.Advice.Multiplier),
			Reference:      reference,
			Registry:       registry,
			Listener:       listener,
			PerItemSeconds: e.cfg.Session.PerItemSeconds,
			TickInterval:   e.cfg.Session.TickInterval,
			AllowOrigins:   e.cfg.HTTP.AllowOrigins,
			Logger:         e.log,
		})

		janitor := api.NewJanitor(registry, e.memory, e.cfg.HTTP.IdleTimeout, e.log)
		if err := janitor.Start(e.cfg.HTTP.JanitorEvery); err != nil {
			return err
		}
		defer janitor.Stop()

		srv := &http.Server{
			Addr:              e.cfg.HTTP.Addr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			e.log.Info("http server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		e.log.Info("shutting down", "live_sessions", registry.Len())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		// Sessions still open are exited so their progress is saved.
		registry.Reap(shutdownCtx, 0)
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
}
