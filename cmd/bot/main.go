package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"crm-assistant/internal/actions"
	"crm-assistant/internal/config"
	"crm-assistant/internal/extraction"
	"crm-assistant/internal/llm"
	"crm-assistant/internal/router"
	"crm-assistant/internal/store"
	"crm-assistant/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if err := cfg.ValidateCredentials(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is required")
	}

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	factory := llm.NewFactory(cfg)
	extractClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.ExtractionModel)
	if err != nil {
		log.Fatalf("failed to init extraction client: %v", err)
	}
	chatClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.ChatModel)
	if err != nil {
		log.Fatalf("failed to init chat client: %v", err)
	}

	engine := extraction.NewEngine(extractClient)
	rt := router.New(actions.New(st, engine), chatClient)

	bot, err := telegram.New(cfg.TelegramBotToken, rt)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}

	log.Println("Telegram bot started")
	bot.Start(context.Background())
}
