// ABOUTME: Main entry point for the channel catalog updater
// ABOUTME: Runs one update headless with "scheduled_task", otherwise updates then serves the viewer

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

	"channel-catalog/api"
	"channel-catalog/api/handlers"
	"channel-catalog/core/progress"
	"channel-catalog/core/updater"
	"channel-catalog/infrastructure/logger/logruslog"
	"channel-catalog/pkg/config"
	"channel-catalog/pkg/featureflags"
	"channel-catalog/pkg/utils/duration"
	"github.com/spf13/pflag"
)

const scheduledTask = "scheduled_task"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "updater: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command line
type options struct {
	configPath string
	headless   bool
}

func parseArgs(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("updater", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file (default config/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch rest := fs.Args(); {
	case len(rest) == 0:
	case len(rest) == 1 && rest[0] == scheduledTask:
		opts.headless = true
	default:
		return opts, fmt.Errorf("unexpected arguments %v, only %q is accepted", rest, scheduledTask)
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyFlags(ctx, featureflags.NewEnvManager(""))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logruslog.New(logruslog.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer logger.Close()

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if opts.headless {
		return runHeadless(ctx, cfg, app)
	}
	return serve(ctx, cfg, app)
}

// runHeadless performs one update without a progress sink and exits
func runHeadless(ctx context.Context, cfg *config.Config, app *app) error {
	if !cfg.Update.OpenUpdate {
		app.logger.Info("Update disabled, nothing to do", nil)
		return nil
	}
	service := updater.NewService(app.factory, nil, app.deps)

	go func() {
		<-ctx.Done()
		service.Stop()
	}()

	result, err := service.RunOnce(ctx)
	if err != nil {
		return err
	}
	app.logger.Info("Scheduled update finished", map[string]interface{}{
		"run_id":     result.ID,
		"status":     string(result.Status),
		"channels":   result.Channels,
		"candidates": result.Candidates,
		"took":       duration.HumanReadable(result.Duration),
	})
	return nil
}

// serve runs one logged update (if enabled) in the background and serves the viewer until signalled
func serve(ctx context.Context, cfg *config.Config, app *app) error {
	service := updater.NewService(app.factory, progress.LogSink{Logger: app.logger}, app.deps)

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:     app.logger,
		RateLimit:  cfg.Server.RateLimit,
		RateWindow: time.Duration(cfg.Server.RateWindow) * time.Second,
	})
	api.Register(humaAPI, api.Services{
		Files: handlers.ViewerFiles{
			FinalFile: cfg.Output.FinalFile,
			LogFile:   cfg.Output.LogFile,
		},
		Snapshots: app.snapshots,
		Updates:   service,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cfg.Update.OpenUpdate {
		if _, err := service.Start(ctx); err != nil {
			app.logger.Error("Failed to start update", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		service.Report("Service started, results available at", 100, true, app.link)
	}

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	app.logger.Info("Shutting down server...", nil)
	service.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := service.Wait(shutdownCtx); err != nil {
		app.logger.Warn("Update did not stop in time", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	app.logger.Info("Server stopped", nil)
	return nil
}
