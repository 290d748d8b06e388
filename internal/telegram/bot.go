// Package telegram runs the assistant as a Telegram bot. Same engine as the
// widget; navigation intents become links since there is no page to move.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"trove-assistant/internal/assistant"
	"trove-assistant/internal/intent"
)

const siteBaseURL = "https://trove-ai.com"

type Bot struct {
	api    *tgbotapi.BotAPI
	engine *assistant.Engine
}

func New(botToken string, engine *assistant.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	return &Bot{api: api, engine: engine}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleIncomingMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	session := fmt.Sprintf("tg:%d", msg.Chat.ID)
	zap.L().Info("incoming telegram message",
		zap.String("session", session), zap.String("text", msg.Text))

	turn, err := b.engine.Respond(ctx, "telegram", session, msg.Text)
	if err != nil {
		zap.L().Warn("telegram turn failed, using local fallback", zap.Error(err))
		b.sendText(msg.Chat.ID, assistant.OfflineNotice)
		turn = b.engine.FallbackReply(ctx, "telegram", session, msg.Text)
	}

	b.sendText(msg.Chat.ID, renderTurn(turn))

	if len(turn.Audio) > 0 {
		voice := tgbotapi.NewVoice(msg.Chat.ID, tgbotapi.FileBytes{Name: "reply.mp3", Bytes: turn.Audio})
		if _, err := b.api.Send(voice); err != nil {
			zap.L().Debug("failed to send voice note", zap.Error(err))
		}
	}
}

// renderTurn appends the page link for navigation turns.
func renderTurn(turn assistant.Turn) string {
	text := turn.Reply
	if turn.NavigateTo != "" {
		if route, ok := intent.Routes[turn.NavigateTo]; ok {
			text += "\n" + siteBaseURL + route
		}
	}
	return text
}

func (b *Bot) sendText(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(out); err != nil {
		zap.L().Warn("failed to send telegram message", zap.Error(err))
	}
}
