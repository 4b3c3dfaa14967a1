package notify

import (
	"context"
	"fmt"

	"skillswap/backend/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotSender is the part of *tgbotapi.BotAPI the notifier needs.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts request notifications into one Telegram chat.
type TelegramNotifier struct {
	Bot    BotSender
	ChatID int64
	Lang   string
	Texts  *localization.Localizer
}

// NewTelegramNotifier logs the bot in; this performs a network call.
func NewTelegramNotifier(token string, chatID int64, lang string, texts *localization.Localizer) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	if texts == nil {
		texts = localization.Default()
	}
	if lang == "" {
		lang = localization.DefaultLanguage
	}
	return &TelegramNotifier{
		Bot:    bot,
		ChatID: chatID,
		Lang:   lang,
		Texts:  texts,
	}, nil
}

func (t *TelegramNotifier) NotifyRequest(ctx context.Context, n RequestNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := t.Texts.Format(t.Lang, localization.KeyRequestTelegram, n.Params())
	msg := tgbotapi.NewMessage(t.ChatID, text)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram notification: %w", err)
	}
	return nil
}
