// Package publish delivers generated charts to a Telegram chat.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"bench-graphs/internal/infra/fs"
	logging "bench-graphs/internal/infra/log"
	"bench-graphs/internal/infra/retry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender is the part of *tgbotapi.BotAPI the publisher uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Photo is one image to deliver.
type Photo struct {
	Path    string
	Caption string
}

// Options tune delivery. Zero values fall back to the defaults below.
type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Limit and Burst configure the send rate limiter.
	Limit rate.Limit
	Burst int
	// TripAfter is the number of consecutive failures that opens the breaker.
	TripAfter uint32
	// FileWait bounds how long a photo may take to appear on disk.
	FileWait time.Duration
}

const (
	DefaultMaxRetries = 3
	DefaultTripAfter  = 3
)

func (o Options) withDefaults() Options {
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 500 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Limit == 0 {
		o.Limit = rate.Limit(1)
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	if o.TripAfter == 0 {
		o.TripAfter = DefaultTripAfter
	}
	if o.FileWait <= 0 {
		o.FileWait = 2 * time.Second
	}
	return o
}

// Telegram sends photos to one chat, one at a time.
type Telegram struct {
	sender  Sender
	chatID  int64
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	opts    Options
}

// NewTelegram returns a publisher for chatID. chatID is the numeric chat id,
// negative for groups and channels.
func NewTelegram(sender Sender, chatID string, opts Options) (*Telegram, error) {
	if sender == nil {
		return nil, errors.New("telegram sender is nil")
	}
	id, err := ParseChatID(chatID)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	tripAfter := opts.TripAfter
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TelegramSend",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.LogWarn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Telegram{
		sender:  sender,
		chatID:  id,
		limiter: rate.NewLimiter(opts.Limit, opts.Burst),
		breaker: breaker,
		opts:    opts,
	}, nil
}

// ParseChatID parses a Telegram chat id such as "-1003190218710".
func ParseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid telegram chat id %q", s)
	}
	return id, nil
}

// Publish sends photos in order and stops at the first one that cannot be
// delivered. It returns how many were sent.
func (t *Telegram) Publish(ctx context.Context, photos []Photo) (int, error) {
	for i, p := range photos {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("publishing cancelled: %w", err)
		}
		if err := t.send(ctx, p); err != nil {
			logging.LogError("Failed to send chart",
				zap.String("chartPath", p.Path),
				zap.Error(err))
			return i, fmt.Errorf("failed to send %s: %w", p.Path, err)
		}
	}
	return len(photos), nil
}

func (t *Telegram) send(ctx context.Context, p Photo) error {
	if err := fs.WaitForFile(ctx, p.Path, t.opts.FileWait); err != nil {
		return err
	}

	start := time.Now()
	opts := retry.Options{
		MaxRetries: t.opts.MaxRetries,
		BaseDelay:  t.opts.BaseDelay,
		MaxDelay:   t.opts.MaxDelay,
		Retryable:  isRetryable,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			logging.LogWarn("Retrying chart upload",
				zap.String("chartPath", p.Path),
				zap.Int("attempt", attempt+1),
				zap.Int64("wait_ms", wait.Milliseconds()),
				zap.Error(err))
		},
	}

	err := retry.Do(ctx, opts, func() error {
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := t.breaker.Execute(func() (interface{}, error) {
			photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FilePath(p.Path))
			photo.Caption = p.Caption
			msg, err := t.sender.Send(photo)
			return msg, err
		})
		return classify(err)
	})
	if err != nil {
		return err
	}

	logging.LogInfo("Chart sent",
		zap.String("chartPath", p.Path),
		zap.Int64("chatID", t.chatID),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// classify turns Telegram API errors into retry.StatusError so the retry
// loop can see the code and retry_after.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &retry.StatusError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			RetryAfter: time.Duration(apiErr.RetryAfter) * time.Second,
		}
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if retry.IsRetryable(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
