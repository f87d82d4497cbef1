package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/cenkalti/backoff/v4"
)

// Event is a scored action raised by a committed state change.
type Event struct {
	Action scoring.Action
	Params scoring.Params
}

// EventRecorder applies events to the performance ledger. Recording never
// fails from the caller's point of view: the state change that raised the
// event has already been committed.
type EventRecorder interface {
	Record(ctx context.Context, ev Event)
}

// NoopEventRecorder drops every event.
type NoopEventRecorder struct{}

func (NoopEventRecorder) Record(context.Context, Event) {}

type scoreRecorder struct {
	ledger  PerformanceService
	logger  *slog.Logger
	retries uint64
	metrics *Metrics
	backoff func() backoff.BackOff
}

// NewScoreRecorder records events through ledger, retrying version conflicts
// and lock contention up to retries times. Dropped events are logged.
func NewScoreRecorder(ledger PerformanceService, logger *slog.Logger, retries int, metrics *Metrics) EventRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	if retries < 0 {
		retries = 0
	}
	return &scoreRecorder{
		ledger:  ledger,
		logger:  logger,
		retries: uint64(retries),
		metrics: metrics,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 5 * time.Second
			return b
		},
	}
}

func (r *scoreRecorder) Record(ctx context.Context, ev Event) {
	// The triggering request may finish first; the ledger write should not die with it.
	ctx = context.WithoutCancel(ctx)

	attempts := 0
	op := func() error {
		attempts++
		_, err := r.ledger.Record(ctx, ev.Action, ev.Params)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConflict) || db.IsBusy(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.backoff(), r.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		r.metrics.scoreDropped(ev.Action)
		r.logger.WarnContext(ctx, "score_event_dropped",
			slog.String("event", ev.Action.String()),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()),
		)
	}
}
