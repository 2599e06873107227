package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kdwils/dvmnbot/config"
	"github.com/kdwils/dvmnbot/logging"
	"github.com/kdwils/dvmnbot/notifier"
	"github.com/kdwils/dvmnbot/pkg/dvmn"
	"github.com/kdwils/dvmnbot/pkg/telegram"
	"github.com/kdwils/dvmnbot/poller"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile   string
	timestamp string
)

// rootCmd waits for lesson reviews on dvmn.org and reports them to telegram
var rootCmd = &cobra.Command{
	Use:   "dvmnbot",
	Short: "forward dvmn.org lesson reviews to telegram",
	Long:  `dvmnbot long polls the dvmn.org review api and sends a telegram message whenever a submitted lesson is reviewed`,
	Run: func(cmd *cobra.Command, args []string) {
		c, err := config.Init(cfgFile)
		if err != nil {
			log.Fatal(err)
		}

		logger, err := logging.NewLogger(c.Log.Level)
		if err != nil {
			log.Fatal(err)
		}
		defer logger.Sync()

		cursor, err := dvmn.ParseCursor(timestamp)
		if err != nil {
			logger.Fatal("invalid starting timestamp", zap.Error(err))
		}

		chat, err := telegram.ParseChat(c.Telegram.ChatID)
		if err != nil {
			logger.Fatal("invalid telegram chat", zap.Error(err))
		}

		bot, err := telegram.NewBot(c.Telegram.Token, c.Telegram.Timeout)
		if err != nil {
			logger.Fatal("unable to start telegram bot", zap.Error(err))
		}

		if c.Telegram.ForwardLogs {
			logger = logging.ForwardTo(logger, bot, chat, zapcore.ErrorLevel)
		}

		client := dvmn.New(&http.Client{Timeout: c.DVMN.Timeout}, c.DVMN.URL, c.DVMN.Token)
		n := notifier.New(bot, chat, logger)
		p := poller.New(client, n, logger,
			poller.WithCursor(cursor),
			poller.WithRetry(c.Poller.FailureThreshold, c.Poller.RetryDelay),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting", zap.String("bot", bot.Self.UserName), zap.Stringer("chat", chat))
		if err := p.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("poller stopped", zap.Error(err))
		}
		logger.Info("stopping")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.Flags().StringVarP(&timestamp, "timestamp", "t", "", "start from this point in the review stream, as a unix timestamp or a date")
}
