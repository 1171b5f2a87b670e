package delivery

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAnnouncer posts announce deliveries to a Telegram chat.
type TelegramAnnouncer struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramAnnouncer creates an announcer from a bot token.
func NewTelegramAnnouncer(token string) (*TelegramAnnouncer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramAnnouncer{bot: bot}, nil
}

func (t *TelegramAnnouncer) Name() string { return "telegram" }

// Announce sends text to the chat ID in to.
func (t *TelegramAnnouncer) Announce(_ context.Context, to, text string) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram: invalid chat id %q: %w", to, err)
	}
	_, err = t.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
