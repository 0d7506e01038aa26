package hosting

import (
	"fmt"
	"log/slog"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/jobs"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes a chat message whenever a job reaches a terminal
// state. It implements jobs.Notifier.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	config *config.Manager
}

// NewTelegramNotifier creates a new Telegram notifier.
func NewTelegramNotifier(cfg *config.Manager) (*TelegramNotifier, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram notifier is disabled in configuration")
	}
	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram notifier initialized", "username", bot.Self.UserName)

	return &TelegramNotifier{bot: bot, config: cfg}, nil
}

// NotifyJobDone sends a terminal-state summary to the configured chat.
func (n *TelegramNotifier) NotifyJobDone(job *jobs.Job) {
	chatID := n.config.Get().Telegram.ChatID
	if chatID == 0 {
		return
	}

	text := fmt.Sprintf("%s %s\nStatus: %s", statusEmoji(job.Status), job.Name, job.Status)
	if job.Error != "" {
		text += fmt.Sprintf("\nError: %s", job.Error)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram notification", "jobID", job.ID, "error", err)
	}
}

func statusEmoji(status jobs.JobStatus) string {
	switch status {
	case jobs.JobStatusCompleted:
		return "✅"
	case jobs.JobStatusFailed:
		return "❌"
	case jobs.JobStatusCancelled:
		return "🚫"
	default:
		return "ℹ️"
	}
}
