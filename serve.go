package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"interview-assistant/internal/api"
	"interview-assistant/internal/dashboard"
	"interview-assistant/internal/extractor"
	"interview-assistant/internal/jobs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview and dashboard HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	controller := a.newController()
	defer controller.Close()

	uploads := extractor.NewUploads(extractor.New(extractor.PdfToText{}, logger.Named("extractor")))
	dash := dashboard.NewService(a.repo, logger.Named("dashboard"))

	exporter := jobs.NewArchiveExporterJob(dash, jobs.ExporterConfig{
		Enabled:   a.cfg.Export.Enabled,
		Schedule:  a.cfg.Export.Schedule,
		ExportDir: a.cfg.Export.Dir,
	}, logger.Named("exporter"))
	if err := exporter.Start(); err != nil {
		return err
	}
	defer exporter.Stop()

	srv := api.NewServer(controller, a.repo, uploads, dash, a.metrics, logger.Named("api"))
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      srv.Router(a.cfg.Server.AllowedOrigins),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("interview assistant starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-shutdownChan:
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("interview assistant shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
