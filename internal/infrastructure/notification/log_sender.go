package notification

import (
	"context"
	"net/mail"

	"github.com/showring/backend/internal/domain/shared"
	"github.com/showring/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogSender renders messages and writes them to the log instead of a mail
// relay. Bodies can carry offer links, so only their size is logged.
type LogSender struct {
	logger *zap.Logger
	sent   func(Message)
}

// NewLogSender creates a LogSender. onSend, when not nil, receives every
// rendered message.
func NewLogSender(l *zap.Logger, onSend func(Message)) *LogSender {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogSender{logger: l, sent: onSend}
}

// Send implements shared.Notifier
func (s *LogSender) Send(ctx context.Context, templateKey, to string, data map[string]any) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return shared.ErrInvalidInput.Withf("invalid recipient %q", to)
	}
	msg, err := Render(templateKey, to, data)
	if err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("Email sent",
		zap.String("template", msg.Template),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)))
	if s.sent != nil {
		s.sent(msg)
	}
	return nil
}

var _ shared.Notifier = (*LogSender)(nil)
