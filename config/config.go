package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kdwils/dvmnbot/pkg/dvmn"
	"github.com/spf13/viper"
)

var ErrMissingValue = errors.New("missing required config value")

type Config struct {
	DVMN     DVMN     `json:"dvmn" yaml:"dvmn" mapstructure:"dvmn"`
	Telegram Telegram `json:"telegram" yaml:"telegram" mapstructure:"telegram"`
	Poller   Poller   `json:"poller" yaml:"poller" mapstructure:"poller"`
	Log      Log      `json:"log" yaml:"log" mapstructure:"log"`
}

// DVMN describes how to reach the review api
type DVMN struct {
	Token   string        `json:"token" yaml:"token" mapstructure:"token"`
	URL     string        `json:"url" yaml:"url" mapstructure:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

type Telegram struct {
	Token  string `json:"token" yaml:"token" mapstructure:"token"`
	ChatID string `json:"chatID" yaml:"chat_id" mapstructure:"chat_id"`
	// Timeout bounds every bot api call, including forwarded logs
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// ForwardLogs sends error logs to the same chat as notifications
	ForwardLogs bool `json:"forwardLogs" yaml:"forward_logs" mapstructure:"forward_logs"`
}

type Log struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// env names kept compatible with existing deployments
var secrets = map[string]string{
	"dvmn.token":       "DVMN_TOKEN",
	"telegram.token":   "TG_BOT",
	"telegram.chat_id": "TG_CHAT_ID",
}

func Init(file string) (*Config, error) {
	// a .env file is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("dvmn.url", dvmn.DefaultURL)
	v.SetDefault("dvmn.timeout", 2*time.Minute)
	v.SetDefault("telegram.timeout", 30*time.Second)
	v.SetDefault("telegram.forward_logs", true)
	v.SetDefault("poller.failure_threshold", 3)
	v.SetDefault("poller.retry_delay", 10*time.Second)
	v.SetDefault("log.level", "info")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix("DVMNBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", ""))
	v.AutomaticEnv()

	for key, env := range secrets {
		if err := v.BindEnv(key, env, "DVMNBOT_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, err
		}
	}

	c := new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}

	return c, c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.DVMN.Token == "" {
		errs = append(errs, fmt.Errorf("%w: dvmn token (%s)", ErrMissingValue, secrets["dvmn.token"]))
	}
	if c.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("%w: telegram bot token (%s)", ErrMissingValue, secrets["telegram.token"]))
	}
	if c.Telegram.ChatID == "" {
		errs = append(errs, fmt.Errorf("%w: telegram chat id (%s)", ErrMissingValue, secrets["telegram.chat_id"]))
	}
	if err := validURL(c.DVMN.URL); err != nil {
		errs = append(errs, err)
	}
	if c.DVMN.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("dvmn timeout must be positive, got %s", c.DVMN.Timeout))
	}
	if c.Telegram.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("telegram timeout must be positive, got %s", c.Telegram.Timeout))
	}
	if c.Poller.FailureThreshold < 1 {
		errs = append(errs, fmt.Errorf("poller failure threshold must be positive, got %d", c.Poller.FailureThreshold))
	}
	if c.Poller.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("poller retry delay must not be negative, got %s", c.Poller.RetryDelay))
	}

	return errors.Join(errs...)
}

// validURL accepts absolute http(s) urls only. An empty url falls back to the default endpoint.
func validURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid dvmn url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid dvmn url %q: expected an absolute http or https url", raw)
	}

	return nil
}
