package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"ticketing-marketplace-backend/config"
	"ticketing-marketplace-backend/factory"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/metrics"
	"ticketing-marketplace-backend/router"
	"time"

	"github.com/codegangsta/negroni"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := factory.NewFactory()
	s, err := f.Store(ctx)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer s.Close()

	settler, err := f.Settler(ctx)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	engine, err := marketplace.New(ctx, s, metrics.New(reg))
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer engine.Close()

	muxRouter := router.Router(engine, router.Options{
		Secret:             viper.GetString(config.Secret),
		JWTOfflineInterval: time.Duration(viper.GetInt(config.JWTOfflineInterval)) * time.Second,
		Settler:            settler,
		Gatherer:           reg,
	})

	n := negroni.New()
	n.UseHandler(muxRouter)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", viper.GetString(config.Port)),
		Handler: n,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "serve: listening on %s", server.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-sigCtx.Done():
		logger.Info(ctx, "serve: shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "serve: error shutting down server: %+v", err)
		}
	}
	return nil
}
