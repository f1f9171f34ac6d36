package commands

// Command to render the charts and send them to Telegram
// Requires telegram.bot_token and telegram.chat_id
// Sends one photo per chart, captioned with the chart title

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logging "bench-graphs/internal/infra/log"
	"bench-graphs/internal/publish"
	"bench-graphs/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Render the charts and send them to a Telegram chat",
	Long:  `Render all five charts, then send each one as a photo to telegram.chat_id using telegram.bot_token.`,
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logging.LogError("Failed to initialize bot", zap.Error(err))
		return fmt.Errorf("failed to initialize bot: %w", err)
	}
	logging.LogSuccess("Bot authorized", zap.String("username", bot.Self.UserName))

	tg, err := publish.NewTelegram(bot, cfg.Telegram.ChatID, publish.Options{MaxRetries: cfg.Telegram.MaxRetries})
	if err != nil {
		return err
	}

	results, err := generateCharts(ctx)
	if err != nil {
		return err
	}

	photos := make([]publish.Photo, len(results))
	for i, res := range results {
		photos[i] = publish.Photo{Path: res.Path, Caption: res.Title}
	}
	sent, err := tg.Publish(ctx, photos)
	if err != nil {
		return fmt.Errorf("published %d of %d charts: %w", sent, len(photos), err)
	}

	logging.LogSuccess("Charts published", zap.Int("count", sent), zap.String("chatID", cfg.Telegram.ChatID))
	return report.PrintPublished(cmd.OutOrStdout(), sent, len(photos))
}
