package bot

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/relay"
	"github.com/arc-wallet/backend/internal/services"
)

func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	m.DisableWebPagePreview = true
	if _, err := b.api.Send(m); err != nil {
		b.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyWithLink(chatID int64, text, label, url string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(label, url),
		),
	)
	if _, err := b.api.Send(m); err != nil {
		b.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// replySendError maps a transfer failure onto user-facing text. Input errors
// are surfaced verbatim; operational detail stays in the logs.
func (b *Bot) replySendError(chatID int64, err error) {
	if errors.Is(err, services.ErrNoAccount) {
		b.reply(chatID, "Use /start first")
		return
	}
	switch relay.Classify(err) {
	case relay.KindInvalidAddress:
		b.reply(chatID, "Invalid address")
	case relay.KindInvalidAmount:
		b.reply(chatID, "Invalid amount")
	case relay.KindInsufficientFunds:
		b.reply(chatID, "Failed: insufficient funds")
	default:
		b.reply(chatID, "Failed: network error, try again later")
	}
}

// splitSendArgs parses "/send <address> <amount>" arguments.
func splitSendArgs(args string) (to, amount string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}
