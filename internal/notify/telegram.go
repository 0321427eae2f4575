package notify

import (
	"context"
	"fmt"

	"loginbot/internal/components/assert"
	"loginbot/internal/components/telemetry"

	"github.com/go-telegram/bot"
)

const report_telegram_send = "telegram.send"

// Target is where telegram messages go.
type Target struct {
	BotToken string
	ChatID   string
}

func (t Target) Valid() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type Telegram struct {
	bot    *bot.Bot
	chatId string
	tel    telemetry.API
}

// NewTelegram checks the token against the bot api (getMe) before returning.
func NewTelegram(target Target, tel telemetry.API, opts ...bot.Option) (Telegram, error) {
	assert.NotNil(tel)
	if !target.Valid() {
		return Telegram{}, fmt.Errorf("telegram target is missing a bot token or chat id")
	}
	b, err := bot.New(target.BotToken, opts...)
	if err != nil {
		return Telegram{}, fmt.Errorf("create telegram bot: %w", err)
	}
	return Telegram{
		bot:    b,
		chatId: target.ChatID,
		tel:    telemetry.NewScopedAPI("notify", tel),
	}, nil
}

func (t Telegram) Notify(ctx context.Context, text string) {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatId,
		Text:   text,
	})
	if err != nil {
		t.tel.ReportWarning(report_telegram_send, err)
	}
}
