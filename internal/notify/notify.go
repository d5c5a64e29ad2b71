// Package notify delivers fired reminders and summary messages to the
// user. Delivery is best-effort: a failed send never blocks or corrupts
// the local state that produced it.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/nhle/daybook/internal/model"
)

// Sender is the delivery channel for reminders and summaries.
type Sender interface {
	SendMessage(text string) error
	SendReminder(n model.Notification) error
}

// LogSender writes deliveries to the log. It is the fallback channel
// when no external delivery is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendMessage(text string) error {
	s.log.Info().Str("text", text).Msg("notification")
	return nil
}

func (s *LogSender) SendReminder(n model.Notification) error {
	s.log.Info().
		Str("id", n.ID).
		Str("title", n.Title).
		Time("fire_at", n.FireAt).
		Msg("reminder")
	return nil
}
