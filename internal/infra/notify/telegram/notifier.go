// Package telegram delivers operator notifications through the Telegram Bot
// API.
package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-multierror"
)

const defaultBaseURL = "https://api.telegram.org"

type notifier struct {
	http       *resty.Client
	token      string
	recipients []string
	logger     *slog.Logger
}

// NewNotificationSink builds a Telegram sink from config. With no bot token
// or no recipients it degrades to a no-op so fulfillment never depends on
// notification config.
func NewNotificationSink(cfg *config.Config, logger *slog.Logger) service.NotificationSink {
	baseURL := cfg.Telegram.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &notifier{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
		token:      cfg.Telegram.BotToken,
		recipients: cfg.Recipients(),
		logger:     logger,
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notify fans the message out to every configured chat concurrently. Failed
// sends are collected, not short-circuited: one unreachable operator must not
// silence the rest.
func (n *notifier) Notify(ctx context.Context, message string) error {
	if n.token == "" || len(n.recipients) == 0 {
		return nil
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex

		result *multierror.Error
	)

	for _, chatID := range n.recipients {
		wg.Add(1)

		go func(chatID string) {
			defer wg.Done()

			if err := n.send(ctx, chatID, message); err != nil {
				n.logger.Warn("telegram send failed",
					slog.String("chat_id", chatID),
					slog.Any("error", err))

				mu.Lock()
				result = multierror.Append(result, err)
				mu.Unlock()
			}
		}(chatID)
	}

	wg.Wait()

	return result.ErrorOrNil()
}

func (n *notifier) send(ctx context.Context, chatID, text string) error {
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(sendMessageRequest{ChatID: chatID, Text: text}).
		Post("/bot" + n.token + "/sendMessage")
	if err != nil {
		return errors.Wrapf(err, "send to chat %s", chatID)
	}

	if resp.IsError() {
		return errors.Errorf("send to chat %s returned %d: %s", chatID, resp.StatusCode(), resp.String())
	}

	return nil
}
