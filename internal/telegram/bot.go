// Package telegram is a chat surface over the intent router: field reps can
// log and query interactions from Telegram instead of the HTTP API.
package telegram

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"crm-assistant/internal/router"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	router *router.Router
}

func New(botToken string, r *router.Router) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		router: r,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		b.handleIncomingMessage(ctx, update.Message)
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	// Each chat is its own fallback conversation.
	sessionID := strconv.FormatInt(msg.Chat.ID, 10)

	if msg.Text == "/reset" {
		b.router.ResetSession(sessionID)
		b.sendMessage(msg.Chat.ID, "Conversation context cleared")
		return
	}

	result := b.router.Route(ctx, sessionID, msg.Text)

	b.sendMessage(msg.Chat.ID, renderResult(result))
}

// renderResult formats an action result for a chat reply: raw fallback text
// is sent verbatim, structured payloads as indented JSON.
func renderResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("failed to render result: %v", err)
		return "Sorry, something went wrong."
	}
	return string(raw)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
