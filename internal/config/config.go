package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// LLM settings. The OpenAI client works against any OpenAI-compatible
	// endpoint, so OPENAI_BASE_URL can point at Groq or OpenRouter.
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	ExtractionModel  string      `env:"EXTRACTION_MODEL" envDefault:"llama-3.1-8b-instant"`
	ChatModel        string      `env:"CHAT_MODEL" envDefault:"llama-3.3-70b-versatile"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Storage
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/crm.db"`

	// HTTP API
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// Telegram surface (cmd/bot only)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Daily follow-up reminder job
	FollowupReminders bool `env:"FOLLOWUP_REMINDERS"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// ValidateCredentials checks that the configured provider has its credential
// set. A missing upstream credential is the one fatal startup condition.
func (c *Config) ValidateCredentials() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not found in environment variables")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return fmt.Errorf("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for the yandex provider")
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	return nil
}
