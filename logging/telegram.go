package logging

import (
	"strings"

	"github.com/kdwils/dvmnbot/pkg/telegram"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// telegramCore writes log entries as chat messages
type telegramCore struct {
	zapcore.LevelEnabler
	enc    zapcore.Encoder
	sender telegram.Sender
	chat   telegram.Chat
}

// NewTelegramCore forwards every entry at or above level to chat
func NewTelegramCore(sender telegram.Sender, chat telegram.Chat, level zapcore.LevelEnabler) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""

	return &telegramCore{
		LevelEnabler: level,
		enc:          zapcore.NewConsoleEncoder(cfg),
		sender:       sender,
		chat:         chat,
	}
}

// ForwardTo tees logger into a telegram chat
func ForwardTo(logger *zap.Logger, sender telegram.Sender, chat telegram.Chat, level zapcore.LevelEnabler) *zap.Logger {
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, NewTelegramCore(sender, chat, level))
	}))
}

func (c *telegramCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &telegramCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		sender:       c.sender,
		chat:         c.chat,
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}

	return clone
}

func (c *telegramCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

func (c *telegramCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	_, err = c.sender.Send(c.chat.NewMessage(strings.TrimSuffix(buf.String(), "\n")))
	return err
}

func (c *telegramCore) Sync() error {
	return nil
}
