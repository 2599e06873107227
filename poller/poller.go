package poller

import (
	"context"
	"errors"
	"time"

	"github.com/kdwils/dvmnbot/notifier"
	"github.com/kdwils/dvmnbot/pkg/dvmn"
	"go.uber.org/zap"
)

const (
	DefaultFailureThreshold = 3
	DefaultRetryDelay       = 10 * time.Second
)

// Notifier delivers a review notification
type Notifier interface {
	Notify(ctx context.Context, m notifier.Message) error
}

// Poller long polls dvmn for reviewed lessons and forwards each one to the notifier
type Poller struct {
	client   dvmn.Client
	notifier Notifier
	logger   *zap.Logger

	threshold int
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error

	cursor   dvmn.Cursor
	failures int
}

type Option func(*Poller)

// WithCursor sets where in the review stream polling starts
func WithCursor(c dvmn.Cursor) Option {
	return func(p *Poller) {
		p.cursor = c
	}
}

// WithRetry sets how many consecutive connection failures are tolerated before waiting delay between attempts
func WithRetry(threshold int, delay time.Duration) Option {
	return func(p *Poller) {
		p.threshold = threshold
		p.delay = delay
	}
}

// WithSleep replaces how the poller waits between attempts
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Poller) {
		p.sleep = sleep
	}
}

// New builds a poller starting at the beginning of the review stream with the default retry policy
func New(client dvmn.Client, notifier Notifier, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		client:    client,
		notifier:  notifier,
		logger:    logger,
		threshold: DefaultFailureThreshold,
		delay:     DefaultRetryDelay,
		sleep:     sleep,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Poller) Cursor() dvmn.Cursor {
	return p.cursor
}

// Failures is the length of the current streak of connection failures
func (p *Poller) Failures() int {
	return p.failures
}

// Poll runs until ctx is cancelled. A single bad response never stops the loop.
func (p *Poller) Poll(ctx context.Context) error {
	p.logger.Info("waiting for lesson reviews", zap.Stringer("cursor", p.cursor))
	for {
		if err := p.Step(ctx); err != nil {
			return err
		}
	}
}

// Step runs one long poll. The only error returned is the context's.
func (p *Poller) Step(ctx context.Context) error {
	resp, err := p.client.LongPoll(ctx, p.cursor)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var transportErr *dvmn.TransportError
		if errors.As(err, &transportErr) {
			return p.retry(ctx, err)
		}

		p.logger.Error("failed to poll reviews", zap.Error(err), zap.Stringer("cursor", p.cursor))
		return nil
	}

	p.failures = 0

	switch resp.Status {
	case dvmn.StatusTimeout:
		p.cursor = resp.NextCursor()
		p.logger.Debug("no new reviews", zap.Stringer("cursor", p.cursor))
	case dvmn.StatusFound:
		p.cursor = resp.NextCursor()
		p.found(ctx, resp)
	default:
		p.logger.Error("unexpected response status", zap.String("status", string(resp.Status)), zap.Stringer("cursor", p.cursor))
	}

	return nil
}

func (p *Poller) found(ctx context.Context, resp *dvmn.Response) {
	msg, err := notifier.FromResponse(resp)
	if err != nil {
		p.logger.Error("failed to build notification", zap.Error(err))
		return
	}

	if err := p.notifier.Notify(ctx, msg); err != nil {
		p.logger.Error("failed to send notification", zap.Error(err), zap.String("lesson", msg.Title))
	}
}

// retry reports the first failure of a streak only, then slows down once the streak passes the threshold
func (p *Poller) retry(ctx context.Context, err error) error {
	p.failures++
	if p.failures == 1 {
		p.logger.Error("lost connection to dvmn", zap.Error(err))
	}

	if p.failures > p.threshold {
		return p.sleep(ctx, p.delay)
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
