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

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	events   EventRecorder
	now      Clock
	observer UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	events EventRecorder,
	now Clock,
	observers ...UseCaseObserver,
) ProjectService {
	if events == nil {
		events = NoopEventRecorder{}
	}
	if now == nil {
		now = time.Now
	}
	return &projectService{
		projects: projects,
		uow:      uow,
		events:   events,
		now:      now,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	p, err := domain.NewProject(uuid.New().String(), in.Title, in.Description, in.StartDate, in.Deadline,
		in.Status, in.Priority, in.Modules, in.Notes, s.now())
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, id string, in ProjectInput) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "update-project", time.Now(), map[string]any{"project_id": id}, &err)

	now := s.now()
	return s.mutate(ctx, id, func(p *domain.Project) error {
		status, priority := in.Status, in.Priority
		if status == "" {
			status = p.Status
		}
		if priority == "" {
			priority = p.Priority
		}
		// Rebuilt through the constructor so edits obey the creation rules.
		next, err := domain.NewProject(p.ID, in.Title, in.Description, in.StartDate, in.Deadline,
			status, priority, in.Modules, in.Notes, now)
		if err != nil {
			return err
		}
		if len(next.Modules) == 0 {
			next.Progress = p.Progress
		}
		next.Version = p.Version
		next.CreatedAt = p.CreatedAt
		*p = *next
		return nil
	})
}

func (s *projectService) ReplaceModules(ctx context.Context, id string, modules []domain.Module) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "replace-modules", time.Now(), map[string]any{"project_id": id, "modules": len(modules)}, &err)

	now := s.now()
	return s.mutate(ctx, id, func(p *domain.Project) error {
		return p.ReplaceModules(modules, now)
	})
}

func (s *projectService) SetTaskStatus(ctx context.Context, id string, moduleIndex, taskIndex int, done bool) (p *domain.Project, err error) {
	fields := map[string]any{"project_id": id, "module": moduleIndex, "task": taskIndex, "done": done}
	defer observe(ctx, s.observer, "set-module-task-status", time.Now(), fields, &err)

	now := s.now()
	var toggle domain.TaskToggle
	p, err = s.mutate(ctx, id, func(p *domain.Project) error {
		var err error
		toggle, err = p.SetTaskStatus(moduleIndex, taskIndex, done, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if ev, ok := toggleEvent(toggle); ok {
		fields["event"] = ev.Action.String()
		s.events.Record(ctx, ev)
	}
	return p, nil
}

// toggleEvent picks the one event a done transition earns: finishing the
// module outranks the task's priority. Reopening a task earns nothing.
func toggleEvent(t domain.TaskToggle) (Event, bool) {
	switch {
	case !t.BecameDone:
		return Event{}, false
	case t.ModuleCompleted:
		return Event{Action: scoring.ProjectModuleCompleted}, true
	case t.Priority == domain.PriorityHigh:
		return Event{Action: scoring.ProjectHighPriorityTaskCompleted}, true
	default:
		return Event{Action: scoring.ProjectTaskCompleted}, true
	}
}

func (s *projectService) ReportDelay(ctx context.Context, id string) (p *domain.Project, err error) {
	defer observe(ctx, s.observer, "report-delay", time.Now(), map[string]any{"project_id": id}, &err)

	p, err = s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Record(ctx, Event{Action: scoring.ProjectDelayedTask})
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

// mutate loads, changes and stores a project in one transaction. On error
// nothing is written.
func (s *projectService) mutate(ctx context.Context, id string, fn func(*domain.Project) error) (*domain.Project, error) {
	var out *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteProjectRepo(tx)
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}
