// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleutianAI/synthlab/services/synth/api"
	"github.com/AleutianAI/synthlab/services/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr      string
		rateLimit float64
		burst     int
		debug     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generators over HTTP",
		Long: `Starts the HTTP API:

  POST /v1/synth/composition   draw a composition table
  POST /v1/synth/counts        draw a signal count table
  GET  /v1/synth/elements      list element symbols
  GET  /v1/synth/elements/:name
  GET  /v1/synth/health
  GET  /metrics                Prometheus scrape endpoint`,
		Example: `  synthlab serve --addr :8090
  curl -X POST localhost:8090/v1/synth/counts -d '{"seed": 14}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Serve
			if cmd.Flags().Changed("addr") {
				sc.Addr = addr
			}
			if cmd.Flags().Changed("rate-limit") {
				sc.RateLimit = rateLimit
			}
			if cmd.Flags().Changed("burst") {
				sc.Burst = burst
			}

			if debug {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.startTelemetry(ctx, ""); err != nil {
				return err
			}
			return a.serve(ctx, sc.Addr, a.newRouter(sc.RateLimit, sc.Burst, debug))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 0, "requests per second across all clients, 0 disables (default from config)")
	cmd.Flags().IntVar(&burst, "burst", 0, "rate limiter burst (default from config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "gin debug mode with request logging")
	return cmd
}

// newRouter builds the gin engine for the API.
func (a *app) newRouter(rateLimit float64, burst int, debug bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if debug {
		router.Use(gin.Logger())
	}
	router.Use(otelgin.Middleware("synthlab"))

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	v1 := router.Group("/v1", api.RateLimit(rateLimit, burst))
	api.RegisterRoutes(v1, api.NewHandlers(a.logger, a.metrics))
	return router
}

// serve runs handler on addr until ctx is cancelled, then drains
// in-flight requests.
func (a *app) serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting synthlab server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down synthlab server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
