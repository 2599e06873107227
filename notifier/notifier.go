package notifier

import (
	"context"
	"fmt"

	"github.com/kdwils/dvmnbot/pkg/telegram"
	"go.uber.org/zap"
)

// DeliveryError means the bot api refused or never received the message
type DeliveryError struct {
	Chat telegram.Chat
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver notification to %s: %v", e.Chat, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Notifier sends review notifications to a single chat
type Notifier struct {
	sender telegram.Sender
	chat   telegram.Chat
	logger *zap.Logger
}

func New(sender telegram.Sender, chat telegram.Chat, logger *zap.Logger) Notifier {
	return Notifier{
		sender: sender,
		chat:   chat,
		logger: logger,
	}
}

// Notify delivers the message once. Retrying is left to the caller.
func (n Notifier) Notify(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sent, err := n.sender.Send(n.chat.NewMessage(m.Text()))
	if err != nil {
		return &DeliveryError{Chat: n.chat, Err: err}
	}

	n.logger.Info("sent review notification", zap.String("lesson", m.Title), zap.Stringer("status", m.Status), zap.Int("message id", sent.MessageID))
	return nil
}
