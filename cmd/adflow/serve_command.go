package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"adflow/internal/ideation"
	"adflow/internal/logging"
	"adflow/internal/server"
	"adflow/internal/services/llm"
	"adflow/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the AdFlow API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ctx, cmd)
		},
	}
}

func runServe(ctx *commandContext, cmd *cobra.Command) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "adflow.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another adflow server instance is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release server lock", logging.Error(err))
		}
	}()

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		return err
	}
	defer st.Close()

	var generator *ideation.Generator
	if llmCfg := cfg.GetLLM(); llmCfg.APIKey != "" {
		client := llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		})
		generator = ideation.NewGenerator(client, logger)
	} else {
		logger.Info("llm api key not set; ideation endpoints disabled")
	}

	srv := server.New(cfg, st, generator, logger)
	if err := srv.Start(signalCtx); err != nil {
		logger.Error("start api server", logging.Error(err))
		return err
	}

	<-signalCtx.Done()
	logger.Info("adflow server shutting down")
	srv.Stop()
	return nil
}
