package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/google/uuid"
)

type dailyInputService struct {
	inputs     repository.DailyInputRepo
	uow        db.UnitOfWork
	events     EventRecorder
	wakeCutoff int
	observer   UseCaseObserver
}

// NewDailyInputService scores a wake-up at or before wakeCutoff minutes after
// midnight as early.
func NewDailyInputService(
	inputs repository.DailyInputRepo,
	uow db.UnitOfWork,
	events EventRecorder,
	wakeCutoff int,
	observers ...UseCaseObserver,
) DailyInputService {
	if events == nil {
		events = NoopEventRecorder{}
	}
	return &dailyInputService{
		inputs:     inputs,
		uow:        uow,
		events:     events,
		wakeCutoff: wakeCutoff,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *dailyInputService) Submit(ctx context.Context, sub DailyInputSubmission, now time.Time) (in *domain.DailyInput, err error) {
	fields := map[string]any{"day": domain.DayKey(now)}
	defer observe(ctx, s.observer, "submit-daily-input", time.Now(), fields, &err)

	in = &domain.DailyInput{
		ID:                uuid.New().String(),
		Day:               domain.StartOfDay(now),
		WakeUpTime:        strings.TrimSpace(sub.WakeUpTime),
		MeditationMinutes: sub.MeditationMinutes,
		WastedMinutes:     sub.WastedMinutes,
		CreatedAt:         now,
	}
	if err = in.Validate(); err != nil {
		return nil, err
	}
	if in.WakeUpTime != "" {
		m, _ := domain.ParseClock(in.WakeUpTime)
		in.WakeUpTime = domain.FormatClock(m)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteDailyInputRepo(tx)
		_, err := repo.GetByDay(ctx, now)
		switch {
		case err == nil:
			return domain.Invalid("day", "already submitted inputs for today")
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return repo.Create(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	events := s.eventsFor(in)
	fields["events"] = len(events)
	for _, ev := range events {
		s.events.Record(ctx, ev)
	}
	return in, nil
}

func (s *dailyInputService) eventsFor(in *domain.DailyInput) []Event {
	var out []Event
	if in.WokeUpBy(s.wakeCutoff) {
		out = append(out, Event{Action: scoring.DailyWokeUpEarly})
	}
	if in.MeditationMinutes != nil && *in.MeditationMinutes > 0 {
		out = append(out, Event{Action: scoring.DailyMeditated})
	}
	if in.WastedMinutes != nil && *in.WastedMinutes > 0 {
		out = append(out, Event{Action: scoring.DailyWastedTime, Params: scoring.Params{Minutes: *in.WastedMinutes}})
	}
	return out
}

func (s *dailyInputService) Get(ctx context.Context, day time.Time) (*domain.DailyInput, error) {
	return s.inputs.GetByDay(ctx, day)
}

func (s *dailyInputService) Recent(ctx context.Context, limit int) ([]*domain.DailyInput, error) {
	if limit < 1 {
		return nil, domain.Invalid("limit", "must be at least 1, got %d", limit)
	}
	return s.inputs.ListRecent(ctx, limit)
}
