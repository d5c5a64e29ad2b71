package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/nhle/daybook/internal/model"
)

// TelegramSender delivers notifications to a single chat via a
// Telegram bot.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    zerolog.Logger
}

func NewTelegramSender(token string, chatID int64, log zerolog.Logger) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram sender ready")
	return &TelegramSender{bot: bot, chatID: chatID, log: log}, nil
}

func (s *TelegramSender) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

func (s *TelegramSender) SendReminder(n model.Notification) error {
	text := fmt.Sprintf("<b>%s</b>\n%s\n\n%s", n.Title, n.Body, n.FireAt.Local().Format("15:04, Jan 2"))
	return s.SendMessage(text)
}
