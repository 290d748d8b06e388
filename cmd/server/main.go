// Trove marketing-site assistant backend.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trove-assistant/internal/analytics"
	"trove-assistant/internal/assistant"
	"trove-assistant/internal/config"
	"trove-assistant/internal/llm"
	"trove-assistant/internal/localize"
	"trove-assistant/internal/mailbox"
	"trove-assistant/internal/scheduler"
	"trove-assistant/internal/server"
	"trove-assistant/internal/speech"
	"trove-assistant/internal/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		zap.L().Info("no .env file found, using environment variables")
	}

	cfg := config.New()
	zap.L().Info("starting assistant server", zap.String("port", cfg.Port))

	var llmClient llm.Client
	if client, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider)); err != nil {
		zap.L().Warn("completion client disabled, ambiguous input gets the clarifying question", zap.Error(err))
	} else {
		llmClient = client
	}

	var localizer *localize.Localizer
	if cfg.LocalizeReplies && llmClient != nil {
		localizer = localize.New(llmClient, cfg.BaseLanguage)
	}

	var synth speech.Synthesizer
	if cfg.OpenAIAPIKey != "" {
		synth = speech.NewOpenAI(cfg.OpenAIAPIKey, cfg.TTSModel, cfg.TTSVoice, cfg.TTSInstructions)
	} else {
		zap.L().Warn("speech synthesis disabled, replies will be text-only")
	}

	var mail mailbox.Mailbox
	var memMail *mailbox.Memory
	if cfg.RedisAddr != "" {
		redisMail, err := mailbox.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zap.L().Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisMail.Close() }()
		mail = redisMail
		zap.L().Info("pending speech stored in redis", zap.String("addr", cfg.RedisAddr))
	} else {
		memMail = mailbox.NewMemory()
		mail = memMail
	}

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			zap.L().Warn("failed to init turn recorder", zap.Error(err))
		} else {
			rec = fr
		}
	}

	engine := assistant.New(assistant.Deps{
		Client:       llmClient,
		Localizer:    localizer,
		Synth:        synth,
		Mail:         mail,
		Recorder:     rec,
		SystemPrompt: readSystemPrompt(cfg.SystemPromptPath),
	})

	sched := scheduler.New()
	if rec != nil {
		sched.SetReportFunction(func(ctx context.Context) error {
			events, err := rec.LoadInteractions()
			if err != nil {
				return err
			}
			stats := analytics.AnalyzeDailyLogs(events, time.Now().UTC())
			zap.L().Info("daily traffic report", zap.String("summary", stats.Summary()))
			return nil
		})
	}
	if memMail != nil {
		sched.SetSweepFunction(memMail.Sweep)
	}
	if err := sched.Start(); err != nil {
		zap.L().Warn("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(engine, cfg.StaticDir).Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zap.L().Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	zap.L().Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}
	zap.L().Info("server stopped")
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("system prompt file not readable, using built-in persona",
			zap.String("path", path), zap.Error(err))
		return ""
	}
	return string(data)
}
