// Telegram channel for the Trove assistant.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trove-assistant/internal/assistant"
	"trove-assistant/internal/config"
	"trove-assistant/internal/llm"
	"trove-assistant/internal/localize"
	"trove-assistant/internal/speech"
	"trove-assistant/internal/storage"
	"trove-assistant/internal/telegram"
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
	if cfg.TelegramBotToken == "" {
		zap.L().Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	var llmClient llm.Client
	if client, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider)); err != nil {
		zap.L().Warn("completion client disabled", zap.Error(err))
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
		Recorder:     rec,
		SystemPrompt: readSystemPrompt(cfg.SystemPromptPath),
	})

	bot, err := telegram.New(cfg.TelegramBotToken, engine)
	if err != nil {
		zap.L().Fatal("failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.L().Info("telegram bot started")
	bot.Start(ctx)
	zap.L().Info("telegram bot stopped")
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
