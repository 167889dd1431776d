package email

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher hands a message off for delivery without waiting for it.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

// AsyncDispatcher sends each message from its own goroutine with a bounded timeout.
type AsyncDispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(sender Sender, timeout time.Duration, logger zerolog.Logger) *AsyncDispatcher {
	return &AsyncDispatcher{sender: sender, timeout: timeout, logger: logger}
}

// Dispatch never fails; delivery errors are logged.
func (d *AsyncDispatcher) Dispatch(_ context.Context, msg Message) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Error().Err(err).
				Str("to", msg.To).
				Str("subject", msg.Subject).
				Msg("failed to send email")
			return
		}
		d.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	}()
	return nil
}

// Wait blocks until every dispatched message has been attempted.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
