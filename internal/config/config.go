package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Speech synthesis
	TTSModel        string `env:"TTS_MODEL" envDefault:"gpt-4o-mini-tts"`
	TTSVoice        string `env:"TTS_VOICE" envDefault:"marin"`
	TTSInstructions string `env:"TTS_INSTRUCTIONS" envDefault:"Speak in clear, professional English with a noticeably German accent. Keep the tone warm, confident, and concise."`

	// Localization
	LocalizeReplies bool   `env:"LOCALIZE_REPLIES" envDefault:"true"`
	BaseLanguage    string `env:"BASE_LANGUAGE" envDefault:"en"`

	// Pending speech mailbox; Redis is used when REDIS_ADDR is set.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Storage
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/turns.jsonl"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"web"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Telegram channel (cmd/bot only)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
