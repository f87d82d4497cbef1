package domain

import (
	"math"
	"strings"
	"time"
)

type ModuleTask struct {
	Title       string
	Description string
	Status      ModuleTaskStatus
	Priority    Priority
	DueDate     *time.Time
}

func (t ModuleTask) IsDone() bool {
	return t.Status == ModuleTaskCompleted
}

type Module struct {
	Name      string
	Status    ModuleStatus
	Progress  int
	StartDate *time.Time
	EndDate   *time.Time
	Tasks     []ModuleTask
}

type Project struct {
	ID          string
	Title       string
	Description string
	StartDate   time.Time
	Deadline    time.Time
	Status      ProjectStatus
	Priority    Priority
	Progress    int
	Modules     []Module
	Notes       string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskToggle describes what a SetTaskStatus call changed.
type TaskToggle struct {
	// BecameDone is set only on a not-done to done transition.
	BecameDone bool
	// ModuleCompleted is set when this toggle took the module to 100%.
	ModuleCompleted bool
	Priority        Priority
}

// NewProject normalizes modules, fills defaults, and derives progress.
func NewProject(id, title, description string, start, deadline time.Time, status ProjectStatus, priority Priority, modules []Module, notes string, now time.Time) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, Invalid("title", "is required")
	}
	if start.IsZero() {
		return nil, Invalid("startDate", "is required")
	}
	if deadline.IsZero() {
		return nil, Invalid("deadline", "is required")
	}
	if deadline.Before(start) {
		return nil, Invalid("deadline", "is before the start date")
	}
	if status == "" {
		status = ProjectPlanning
	}
	if !ValidProjectStatuses[status] {
		return nil, Invalid("status", "unknown project status %q", status)
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriorities[priority] {
		return nil, Invalid("priority", "unknown priority %q", priority)
	}
	p := &Project{
		ID:          id,
		Title:       title,
		Description: description,
		StartDate:   start,
		Deadline:    deadline,
		Status:      status,
		Priority:    priority,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.ReplaceModules(modules, now); err != nil {
		return nil, err
	}
	return p, nil
}

// NormalizeModules validates modules and fills default statuses and priorities.
// The input slice is not modified.
func NormalizeModules(modules []Module) ([]Module, error) {
	out := make([]Module, len(modules))
	for i, m := range modules {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, Invalid("modules", "module %d has no name", i+1)
		}
		nm := Module{
			Name:      name,
			StartDate: m.StartDate,
			EndDate:   m.EndDate,
			Tasks:     make([]ModuleTask, len(m.Tasks)),
		}
		for j, t := range m.Tasks {
			if strings.TrimSpace(t.Title) == "" {
				return nil, Invalid("modules", "task %d of module %q has no title", j+1, name)
			}
			status, err := NormalizeModuleTaskStatus(t.Status)
			if err != nil {
				return nil, err
			}
			priority := t.Priority
			if priority == "" {
				priority = PriorityMedium
			}
			if !ValidPriorities[priority] {
				return nil, Invalid("priority", "unknown priority %q", priority)
			}
			nm.Tasks[j] = ModuleTask{
				Title:       strings.TrimSpace(t.Title),
				Description: t.Description,
				Status:      status,
				Priority:    priority,
				DueDate:     t.DueDate,
			}
		}
		// Modules without tasks keep the caller's status and progress.
		nm.Status = m.Status
		if nm.Status == "" {
			nm.Status = ModuleNotStarted
		}
		if !ValidModuleStatuses[nm.Status] {
			return nil, Invalid("modules", "unknown module status %q", nm.Status)
		}
		nm.Progress = clampPercent(m.Progress)
		out[i] = nm
	}
	return out, nil
}

// ReplaceModules swaps in a new module list and re-derives all progress fields.
// On error the project is left unmodified.
func (p *Project) ReplaceModules(modules []Module, now time.Time) error {
	normalized, err := NormalizeModules(modules)
	if err != nil {
		return err
	}
	p.Modules = normalized
	p.Recompute()
	p.UpdatedAt = now
	return nil
}

// SetTaskStatus marks a module task done or pending and re-derives module and
// project progress from scratch.
func (p *Project) SetTaskStatus(moduleIndex, taskIndex int, done bool, now time.Time) (TaskToggle, error) {
	if moduleIndex < 0 || moduleIndex >= len(p.Modules) {
		return TaskToggle{}, Invalid("moduleIndex", "%d is outside [0, %d)", moduleIndex, len(p.Modules))
	}
	m := &p.Modules[moduleIndex]
	if taskIndex < 0 || taskIndex >= len(m.Tasks) {
		return TaskToggle{}, Invalid("taskIndex", "%d is outside [0, %d)", taskIndex, len(m.Tasks))
	}

	task := &m.Tasks[taskIndex]
	wasDone := task.IsDone()
	wasModuleComplete := m.Status == ModuleCompleted
	if done {
		task.Status = ModuleTaskCompleted
	} else {
		task.Status = ModuleTaskPending
	}

	p.Recompute()
	p.UpdatedAt = now

	return TaskToggle{
		BecameDone:      done && !wasDone,
		ModuleCompleted: done && !wasDone && !wasModuleComplete && m.Status == ModuleCompleted,
		Priority:        task.Priority,
	}, nil
}

// Recompute derives module and project progress and status from task states.
func (p *Project) Recompute() {
	for i := range p.Modules {
		p.Modules[i].recompute()
	}
	if len(p.Modules) == 0 {
		return
	}

	sum := 0
	allCompleted, anyInProgress, allNotStarted := true, false, true
	for _, m := range p.Modules {
		sum += m.Progress
		if m.Status != ModuleCompleted {
			allCompleted = false
		}
		if m.Status == ModuleInProgress {
			anyInProgress = true
		}
		if m.Status != ModuleNotStarted {
			allNotStarted = false
		}
	}
	p.Progress = roundPercent(float64(sum) / float64(len(p.Modules)))

	switch {
	case allCompleted:
		p.Status = ProjectCompleted
	case p.Status == ProjectOnHold:
		// a user hold survives partial progress
	case anyInProgress:
		p.Status = ProjectInProgress
	case allNotStarted:
		p.Status = ProjectPlanning
	default:
		p.Status = ProjectInProgress
	}
}

func (m *Module) recompute() {
	if len(m.Tasks) == 0 {
		return
	}
	done := 0
	for _, t := range m.Tasks {
		if t.IsDone() {
			done++
		}
	}
	m.Progress = roundPercent(100 * float64(done) / float64(len(m.Tasks)))
	switch m.Progress {
	case 100:
		m.Status = ModuleCompleted
	case 0:
		m.Status = ModuleNotStarted
	default:
		m.Status = ModuleInProgress
	}
}

// CurrentModule returns the first module that is not completed, falling back to
// the first module. Returns nil when the project has no modules.
func (p *Project) CurrentModule() *Module {
	for i := range p.Modules {
		if p.Modules[i].Status != ModuleCompleted {
			return &p.Modules[i]
		}
	}
	if len(p.Modules) > 0 {
		return &p.Modules[0]
	}
	return nil
}

// DaysRemaining counts calendar days from now's date to the deadline. It is
// negative once the deadline has passed.
func (p *Project) DaysRemaining(now time.Time) int {
	return DaysBetween(now, p.Deadline)
}

func roundPercent(v float64) int {
	return clampPercent(int(math.Round(v)))
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
