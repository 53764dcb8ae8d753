package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Client wraps the Bot API with rate limiting so handlers never trip
// Telegram's flood control.
type Client struct {
	api     *tgbotapi.BotAPI
	logger  *slog.Logger
	limiter *rate.Limiter
	updates <-chan tgbotapi.Update
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewClient(token string, logger *slog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "creating telegram bot")
	}
	return newClient(bot, logger), nil
}

func newClient(api *tgbotapi.BotAPI, logger *slog.Logger) *Client {
	return &Client{
		api:    api,
		logger: logger,
		// Telegram allows ~30 messages per second bot-wide.
		limiter: rate.NewLimiter(30, 1),
		// Sends may happen before Start establishes the polling context.
		ctx: context.Background(),
	}
}

// Start begins long polling for updates.
func (c *Client) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	c.updates = c.api.GetUpdatesChan(u)

	c.logger.Info("telegram bot started", slog.String("username", c.api.Self.UserName))
	return nil
}

// Stop shuts down the update stream.
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.api.StopReceivingUpdates()
	c.logger.Info("telegram bot stopped")
}

// GetUpdates returns the update channel established by Start.
func (c *Client) GetUpdates() <-chan tgbotapi.Update {
	return c.updates
}

// SendMessage sends a plain text message with rate limiting.
func (c *Client) SendMessage(chatID int64, text string) error {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return errors.Wrap(err, "rate limiting")
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.api.Send(msg); err != nil {
		c.logger.Error("sending message failed",
			slog.Int64("chat_id", chatID),
			slog.Any("error", err))
		return errors.Wrap(err, "sending message")
	}

	return nil
}

// Send sends any chattable with rate limiting.
func (c *Client) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return tgbotapi.Message{}, errors.Wrap(err, "rate limiting")
	}

	message, err := c.api.Send(chattable)
	if err != nil {
		c.logger.Error("sending failed", slog.Any("error", err))
		return tgbotapi.Message{}, errors.Wrap(err, "sending")
	}

	return message, nil
}

// Request performs a raw Bot API request with rate limiting.
func (c *Client) Request(chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := c.limiter.Wait(c.ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiting")
	}

	resp, err := c.api.Request(chattable)
	if err != nil {
		c.logger.Error("bot api request failed", slog.Any("error", err))
		return nil, errors.Wrap(err, "bot api request")
	}

	return resp, nil
}
