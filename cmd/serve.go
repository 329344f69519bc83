package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.HTTPAddr = addr
		}
		if e.cfg.LogMode == "prod" || e.cfg.LogMode == "production" {
			gin.SetMode(gin.ReleaseMode)
		}

		topics, err := e.topics(ctx)
		if err != nil {
			return err
		}
		orch, err := e.chat(ctx)
		if err != nil {
			return err
		}

		router := httpapi.NewRouter(httpapi.Deps{
			Store:       e.store,
			Topics:      topics,
			Grader:      e.grader(),
			Chat:        orch,
			Log:         e.log,
			CORSOrigins: e.cfg.CORSOrigins,
		})
		srv := &http.Server{
			Addr:              e.cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			e.log.Info("http server listening", "addr", e.cfg.HTTPAddr, "provider", e.cfg.LLM.Provider)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		e.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides BIILIM_HTTP_ADDR)")
}
