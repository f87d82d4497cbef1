package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/db"
	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/repository"
	"github.com/alexanderramin/kaizen/internal/scoring"
	"github.com/google/uuid"
)

type learningService struct {
	learnings repository.LearningRepo
	uow       db.UnitOfWork
	events    EventRecorder
	now       Clock
	observer  UseCaseObserver
}

func NewLearningService(
	learnings repository.LearningRepo,
	uow db.UnitOfWork,
	events EventRecorder,
	now Clock,
	observers ...UseCaseObserver,
) LearningService {
	if events == nil {
		events = NoopEventRecorder{}
	}
	if now == nil {
		now = time.Now
	}
	return &learningService{
		learnings: learnings,
		uow:       uow,
		events:    events,
		now:       now,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *learningService) Create(ctx context.Context, title string, chapterNames []string, notes string) (*domain.Learning, error) {
	l, err := domain.NewLearning(uuid.New().String(), title, chapterNames, notes, s.now())
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLearningRepo(tx).Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *learningService) Get(ctx context.Context, id string) (*domain.Learning, error) {
	return s.learnings.GetByID(ctx, id)
}

func (s *learningService) List(ctx context.Context) ([]*domain.Learning, error) {
	return s.learnings.List(ctx)
}

func (s *learningService) Update(ctx context.Context, id string, patch LearningPatch) (*domain.Learning, error) {
	now := s.now()
	return s.mutate(ctx, id, func(l *domain.Learning) (bool, error) {
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return false, domain.Invalid("title", "is required")
			}
			l.Title = title
		}
		if patch.Notes != nil {
			l.Notes = *patch.Notes
		}
		l.UpdatedAt = now
		return true, nil
	})
}

func (s *learningService) Delete(ctx context.Context, id string) error {
	return s.learnings.Delete(ctx, id)
}

func (s *learningService) CompleteChapter(ctx context.Context, id string, index int) (l *domain.Learning, err error) {
	fields := map[string]any{"learning_id": id, "chapter": index}
	defer observe(ctx, s.observer, "complete-chapter", time.Now(), fields, &err)

	now := s.now()
	return s.progress(ctx, id, fields, func(l *domain.Learning) (bool, error) {
		return l.CompleteChapter(index, now)
	})
}

func (s *learningService) UncompleteChapter(ctx context.Context, id string, index int) (l *domain.Learning, err error) {
	fields := map[string]any{"learning_id": id, "chapter": index}
	defer observe(ctx, s.observer, "uncomplete-chapter", time.Now(), fields, &err)

	now := s.now()
	return s.mutate(ctx, id, func(l *domain.Learning) (bool, error) {
		return l.UncompleteChapter(index, now)
	})
}

func (s *learningService) AdvanceNext(ctx context.Context, id string) (l *domain.Learning, err error) {
	fields := map[string]any{"learning_id": id}
	defer observe(ctx, s.observer, "advance-next", time.Now(), fields, &err)

	now := s.now()
	return s.progress(ctx, id, fields, func(l *domain.Learning) (bool, error) {
		fields["chapter"] = l.CurrentChapterIndex
		return l.AdvanceNext(now)
	})
}

func (s *learningService) SkipSession(ctx context.Context, id string) (l *domain.Learning, err error) {
	defer observe(ctx, s.observer, "skip-session", time.Now(), map[string]any{"learning_id": id}, &err)

	l, err = s.learnings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Record(ctx, Event{Action: scoring.LearningSessionSkipped})
	return l, nil
}

// progress applies a completing transition and, once it is committed, scores
// the chapter when the completed count actually grew.
func (s *learningService) progress(ctx context.Context, id string, fields map[string]any, fn func(*domain.Learning) (bool, error)) (*domain.Learning, error) {
	var completed bool
	l, err := s.mutate(ctx, id, func(l *domain.Learning) (bool, error) {
		changed, err := fn(l)
		completed = changed
		return changed, err
	})
	if err != nil {
		return nil, err
	}
	fields["completed"] = completed
	if completed {
		s.events.Record(ctx, Event{Action: scoring.LearningChapterCompleted})
	}
	return l, nil
}

func (s *learningService) mutate(ctx context.Context, id string, fn func(*domain.Learning) (bool, error)) (*domain.Learning, error) {
	var out *domain.Learning
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteLearningRepo(tx)
		l, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		changed, err := fn(l)
		if err != nil {
			return err
		}
		if changed {
			if err := repo.Update(ctx, l); err != nil {
				return err
			}
		}
		out = l
		return nil
	})
	return out, err
}
