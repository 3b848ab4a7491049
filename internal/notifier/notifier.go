// Package notifier is the engine's outbound edge. The real chat
// transport lives outside this process; the engine only needs a Sender
// it can hand text to, rate-limited so a burst of game events cannot
// exceed the platform's delivery budget.
package notifier

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender delivers one outbound text message to a chat or user
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// RateLimited wraps a Sender with a token-bucket delivery limit.
// Send blocks until a token is available or the context is done.
type RateLimited struct {
	next    Sender
	limiter *rate.Limiter
}

// NewRateLimited creates a rate-limited sender allowing perSecond
// messages per second with an equal burst.
func NewRateLimited(next Sender, perSecond int) *RateLimited {
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

// Send waits for delivery budget then forwards to the wrapped sender
func (r *RateLimited) Send(ctx context.Context, chatID int64, text string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.Send(ctx, chatID, text)
}

// LogSender writes outbound messages to the log. Used when no real
// transport is wired, and as the default sink in development.
type LogSender struct {
	Logger *zap.Logger
}

// Send logs the outbound message
func (l *LogSender) Send(_ context.Context, chatID int64, text string) error {
	l.Logger.Info("outbound message", zap.Int64("chat_id", chatID), zap.String("text", text))
	return nil
}
