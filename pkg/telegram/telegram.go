package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrInvalidChat = errors.New("invalid chat identifier")

// Sender describes how to deliver a message through the bot api. *tgbotapi.BotAPI satisfies it.
//
//go:generate mockgen -destination=mocks/mock_sender.go -package=mocks github.com/kdwils/dvmnbot/pkg/telegram Sender
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot connects to the bot api. The token is checked with a getMe call.
// Every request, sends included, is abandoned after timeout.
func NewBot(token string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	return newBot(token, tgbotapi.APIEndpoint, timeout)
}

func newBot(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}

	return bot, nil
}

// Chat is either a numeric chat id or a public channel username
type Chat struct {
	ID       int64
	Username string
}

// ParseChat accepts "123456", "-100123456" or "@channel"
func ParseChat(s string) (Chat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chat{}, fmt.Errorf("%w: empty", ErrInvalidChat)
	}

	if strings.HasPrefix(s, "@") {
		if len(s) == 1 {
			return Chat{}, fmt.Errorf("%w: %q", ErrInvalidChat, s)
		}
		return Chat{Username: s}, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Chat{}, fmt.Errorf("%w: %q", ErrInvalidChat, s)
	}

	return Chat{ID: id}, nil
}

func (c Chat) String() string {
	if c.Username != "" {
		return c.Username
	}

	return strconv.FormatInt(c.ID, 10)
}

// NewMessage builds a plain text message addressed to the chat
func (c Chat) NewMessage(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if c.Username != "" {
		msg = tgbotapi.NewMessageToChannel(c.Username, text)
	} else {
		msg = tgbotapi.NewMessage(c.ID, text)
	}

	msg.DisableWebPagePreview = true
	return msg
}
