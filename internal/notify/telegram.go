package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between two Telegram sends to the same chat. Telegram starts
// returning 429 around 30 messages per minute.
const telegramSendInterval = 2 * time.Second

// TelegramNotifier sends alerts to a Telegram chat as plain text.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates a Telegram notifier and verifies the token by
// fetching the bot identity.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	fmt.Printf("✓ Telegram notifier ready: @%s chat_id=%d\n", bot.Self.UserName, chatID)

	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Notify sends the alert, waiting out the send interval if the previous
// message was too recent.
func (t *TelegramNotifier) Notify(ctx context.Context, alert Alert) error {
	if err := t.waitSendInterval(ctx); err != nil {
		return err
	}

	startTime := time.Now()

	msg := tgbotapi.NewMessage(t.chatID, alert.Message())
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}

	latency := time.Since(startTime).Milliseconds()
	fmt.Printf("✓ Telegram alert sent: %s latency=%dms\n", alert.Matchup, latency)

	return nil
}

func (t *TelegramNotifier) waitSendInterval(ctx context.Context) error {
	t.mu.Lock()
	wait := telegramSendInterval - time.Since(t.lastSend)
	if wait > 0 {
		t.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		t.mu.Lock()
	}
	t.lastSend = time.Now()
	t.mu.Unlock()
	return nil
}
