package main

import (
	"log"

	"github.com/joho/godotenv"

	"crm-assistant/internal/actions"
	"crm-assistant/internal/config"
	"crm-assistant/internal/extraction"
	"crm-assistant/internal/llm"
	"crm-assistant/internal/router"
	"crm-assistant/internal/scheduler"
	"crm-assistant/internal/server"
	"crm-assistant/internal/store"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if err := cfg.ValidateCredentials(); err != nil {
		log.Fatalf("startup failed: %v", err)
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
	acts := actions.New(st, engine)
	rt := router.New(acts, chatClient)

	if cfg.FollowupReminders {
		sched := scheduler.New(st)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := server.New(rt, engine, cfg.HTTPPort)
	if err := srv.Start(); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}
