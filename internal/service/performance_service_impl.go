package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/scoring"
)

type performanceService struct {
	ledger   repository.LedgerRepo
	uow      db.UnitOfWork
	now      Clock
	metrics  *Metrics
	observer UseCaseObserver

	// mu serializes ledger writers inside this process; the version check on
	// the ledger row covers writers in other processes.
	mu sync.Mutex
}

func NewPerformanceService(
	ledger repository.LedgerRepo,
	uow db.UnitOfWork,
	now Clock,
	metrics *Metrics,
	observers ...UseCaseObserver,
) PerformanceService {
	if now == nil {
		now = time.Now
	}
	return &performanceService{
		ledger:   ledger,
		uow:      uow,
		now:      now,
		metrics:  metrics,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *performanceService) RecordEvent(ctx context.Context, category, action string, params scoring.Params) (RecordResult, error) {
	return s.Record(ctx, scoring.Parse(category, action), params)
}

func (s *performanceService) Record(ctx context.Context, a scoring.Action, params scoring.Params) (res RecordResult, err error) {
	fields := map[string]any{"event": a.String()}
	defer observe(ctx, s.observer, "record-event", time.Now(), fields, &err)

	scored := scoring.Score(a, params)
	res.Score = scored.Score
	fields["score"] = scored.Score

	if scored.Score == 0 {
		res.Performance, err = s.currentPerformance(ctx)
		return res, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteLedgerRepo(tx)
		ledger, err := repo.Get(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			ledger = domain.NewPerformanceLedger(now)
			err = repo.Create(ctx, ledger)
		}
		if err != nil {
			return err
		}

		ledger.Apply(scored.Score, scored.Bad, now)
		if err := repo.Update(ctx, ledger); err != nil {
			return err
		}
		if err := repo.PutRecord(ctx, *ledger.Today(now)); err != nil {
			return err
		}
		res.Performance = ledger.Performance
		return nil
	})
	if err != nil {
		return RecordResult{}, err
	}

	fields["performance"] = res.Performance
	s.metrics.scoreRecorded(a, res.Performance)
	return res, nil
}

func (s *performanceService) currentPerformance(ctx context.Context) (int, error) {
	ledger, err := s.ledger.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ledger.Performance, nil
}

// Get returns the ledger, or an empty one when nothing has been scored yet.
func (s *performanceService) Get(ctx context.Context) (*domain.PerformanceLedger, error) {
	ledger, err := s.ledger.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewPerformanceLedger(s.now()), nil
	}
	return ledger, err
}

// History summarizes the last days ledger records, oldest first. Days with no
// scored actions are omitted.
func (s *performanceService) History(ctx context.Context, days int) ([]DayScore, error) {
	if days < 1 {
		return nil, domain.Invalid("days", "must be at least 1, got %d", days)
	}
	since := domain.StartOfDay(s.now()).AddDate(0, 0, -(days - 1))
	records, err := s.ledger.ListRecords(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]DayScore, 0, len(records))
	for _, rec := range records {
		good, bad := rec.GoodTotal(), rec.BadTotal()
		out = append(out, DayScore{Day: rec.Day, Good: good, Bad: bad, Net: good + bad})
	}
	return out, nil
}
