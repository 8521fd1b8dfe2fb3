// Package notify delivers account emails. Delivery is fire and forget:
// callers log failures and never surface them.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Notifier provides a testable abstraction over email delivery.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, html string) error
}

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, recipient, subject, html string) error {
	log.Ctx(ctx).Info().
		Str("recipient", recipient).
		Str("subject", subject).
		Int("body_bytes", len(html)).
		Msg("Email delivery skipped (log driver)")
	return nil
}

type asyncNotifier struct {
	next    Notifier
	timeout time.Duration
}

// Async dispatches every message on its own goroutine and logs delivery errors.
func Async(next Notifier, timeout time.Duration) Notifier {
	return &asyncNotifier{next: next, timeout: timeout}
}

func (a *asyncNotifier) Send(_ context.Context, recipient, subject, html string) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.Send(ctx, recipient, subject, html); err != nil {
			log.Error().Err(err).Str("recipient", recipient).Str("subject", subject).Msg("Failed to deliver email")
		}
	}()
	return nil
}
