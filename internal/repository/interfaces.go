package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
)

// TaskFilter narrows a task listing. Zero values match everything.
type TaskFilter struct {
	Type   domain.TaskType
	Status domain.TaskStatus
}

// Update methods below are versioned: they succeed only when the stored
// version equals the entity's, bump the version on the entity, and return
// domain.ErrConflict otherwise. Updates that rewrite child rows must run
// inside a transaction.

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type LearningRepo interface {
	Create(ctx context.Context, l *domain.Learning) error
	GetByID(ctx context.Context, id string) (*domain.Learning, error)
	List(ctx context.Context) ([]*domain.Learning, error)
	Update(ctx context.Context, l *domain.Learning) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// LedgerRepo stores the singleton performance ledger. Get returns
// domain.ErrNotFound until Create has run.
type LedgerRepo interface {
	Get(ctx context.Context) (*domain.PerformanceLedger, error)
	Create(ctx context.Context, l *domain.PerformanceLedger) error
	Update(ctx context.Context, l *domain.PerformanceLedger) error
	// PutRecord replaces the stored record for rec.Day.
	PutRecord(ctx context.Context, rec domain.LedgerRecord) error
	ListRecords(ctx context.Context, since time.Time) ([]domain.LedgerRecord, error)
}

type DailyInputRepo interface {
	Create(ctx context.Context, in *domain.DailyInput) error
	GetByDay(ctx context.Context, day time.Time) (*domain.DailyInput, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.DailyInput, error)
}
