package service

import (
	"context"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	events   EventRecorder
	now      Clock
	observer UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	events EventRecorder,
	now Clock,
	observers ...UseCaseObserver,
) TaskService {
	if events == nil {
		events = NoopEventRecorder{}
	}
	if now == nil {
		now = time.Now
	}
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		events:   events,
		now:      now,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, title string, typ domain.TaskType, deadline *time.Time) (*domain.Task, error) {
	t, err := domain.NewTask(uuid.New().String(), title, typ, deadline, s.now())
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, q TaskQuery) ([]*domain.Task, error) {
	if q.Type == "" || q.Type == domain.TaskNonNegotiable {
		if _, err := s.EnsureTodayEntries(ctx, s.now()); err != nil {
			return nil, err
		}
	}
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Type: q.Type})
	if err != nil {
		return nil, err
	}
	if q.IncludeCompleted {
		return tasks, nil
	}
	open := tasks[:0]
	for _, t := range tasks {
		if t.IsRecurring() || t.Status != domain.TaskCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}

func (s *taskService) EnsureTodayEntries(ctx context.Context, now time.Time) (changed int, err error) {
	fields := map[string]any{"day": domain.DayKey(now)}
	defer observe(ctx, s.observer, "ensure-today-entries", time.Now(), fields, &err)

	habits, err := s.tasks.List(ctx, repository.TaskFilter{Type: domain.TaskNonNegotiable})
	if err != nil {
		return 0, err
	}
	for _, h := range habits {
		if !h.NeedsReset(now) {
			continue
		}
		// Each task rolls over in its own transaction against a fresh read.
		var rolled bool
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			repo := repository.NewSQLiteTaskRepo(tx)
			t, err := repo.GetByID(ctx, h.ID)
			if err != nil {
				return err
			}
			if rolled = t.EnsureTodayEntry(now); !rolled {
				return nil
			}
			return repo.Update(ctx, t)
		})
		if err != nil {
			return changed, err
		}
		if rolled {
			changed++
		}
	}
	fields["changed"] = changed
	return changed, nil
}

func (s *taskService) MarkCompletedToday(ctx context.Context, id string, now time.Time) (t *domain.Task, err error) {
	fields := map[string]any{"task_id": id, "day": domain.DayKey(now)}
	defer observe(ctx, s.observer, "mark-completed-today", time.Now(), fields, &err)

	var transitioned bool
	t, err = s.mutate(ctx, id, func(t *domain.Task) (bool, error) {
		changed, err := t.MarkCompletedToday(now)
		transitioned = changed
		return changed, err
	})
	if err != nil {
		return nil, err
	}
	fields["transitioned"] = transitioned
	if transitioned {
		s.events.Record(ctx, Event{Action: scoring.TaskCompleted})
	}
	return t, nil
}

func (s *taskService) SetStatus(ctx context.Context, id string, completed bool) (t *domain.Task, err error) {
	fields := map[string]any{"task_id": id, "completed": completed}
	defer observe(ctx, s.observer, "set-task-status", time.Now(), fields, &err)

	now := s.now()
	var transitioned bool
	t, err = s.mutate(ctx, id, func(t *domain.Task) (bool, error) {
		if completed {
			changed, err := t.Complete(now)
			transitioned = changed
			return changed, err
		}
		wasCompleted := t.Status == domain.TaskCompleted
		return wasCompleted, t.Reopen(now)
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		s.events.Record(ctx, Event{Action: scoring.TaskCompleted})
	}
	return t, nil
}

func (s *taskService) MarkProcrastinated(ctx context.Context, id string) (t *domain.Task, err error) {
	defer observe(ctx, s.observer, "mark-procrastinated", time.Now(), map[string]any{"task_id": id}, &err)

	t, err = s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Record(ctx, Event{Action: scoring.TaskProcrastinated})
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// mutate loads a task, applies fn and persists it when fn reports a change,
// all inside one transaction.
func (s *taskService) mutate(ctx context.Context, id string, fn func(*domain.Task) (bool, error)) (*domain.Task, error) {
	var out *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		t, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		changed, err := fn(t)
		if err != nil {
			return err
		}
		if changed {
			if err := repo.Update(ctx, t); err != nil {
				return err
			}
		}
		out = t
		return nil
	})
	return out, err
}
