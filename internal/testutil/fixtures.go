package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/google/uuid"
)

// Fixed is the reference clock used by fixtures and tests: a Sunday morning in UTC.
var Fixed = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// Task options
type TaskOption func(*domain.Task)

func WithTaskType(typ domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = typ
		if typ != domain.TaskDeadline {
			t.Deadline = nil
		}
	}
}

func WithTaskDeadline(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.Type = domain.TaskDeadline
		t.Deadline = &d
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

// WithLastReset sets the last reset day and adds an open tracking entry for it.
func WithLastReset(day time.Time) TaskOption {
	return func(t *domain.Task) {
		d := domain.StartOfDay(day)
		t.LastResetDate = &d
		t.DailyTracking = []domain.DailyTrackingEntry{{Date: d}}
	}
}

// NewTestTask returns a pending deadline task due a week after Fixed.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	deadline := Fixed.AddDate(0, 0, 7)
	t := &domain.Task{
		ID:        uuid.New().String(),
		Title:     title,
		Type:      domain.TaskDeadline,
		Deadline:  &deadline,
		Status:    domain.TaskPending,
		CreatedAt: Fixed,
		UpdatedAt: Fixed,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestHabit returns a non-negotiable task last reset on day.
func NewTestHabit(title string, day time.Time) *domain.Task {
	return NewTestTask(title, WithTaskType(domain.TaskNonNegotiable), WithLastReset(day))
}

// Learning options
type LearningOption func(*domain.Learning)

func WithNotes(n string) LearningOption {
	return func(l *domain.Learning) {
		l.Notes = n
	}
}

// WithCompleted marks the given chapter indexes complete through the state machine.
func WithCompleted(indexes ...int) LearningOption {
	return func(l *domain.Learning) {
		for _, i := range indexes {
			if _, err := l.CompleteChapter(i, Fixed); err != nil {
				panic(err)
			}
		}
	}
}

// NewTestLearning returns a not-started course with chapters named "Chapter 1".."Chapter n".
func NewTestLearning(title string, chapters int, opts ...LearningOption) *domain.Learning {
	names := make([]string, chapters)
	for i := range names {
		names[i] = fmt.Sprintf("Chapter %d", i+1)
	}
	l, err := domain.NewLearning(uuid.New().String(), title, names, "", Fixed)
	if err != nil {
		panic(err)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectPriority(pr domain.Priority) ProjectOption {
	return func(p *domain.Project) {
		p.Priority = pr
	}
}

// WithModule appends a module of pending tasks with the given priorities.
func WithModule(name string, priorities ...domain.Priority) ProjectOption {
	return func(p *domain.Project) {
		m := domain.Module{Name: name, Status: domain.ModuleNotStarted}
		for i, pr := range priorities {
			m.Tasks = append(m.Tasks, domain.ModuleTask{
				Title:    fmt.Sprintf("%s task %d", name, i+1),
				Status:   domain.ModuleTaskPending,
				Priority: pr,
			})
		}
		p.Modules = append(p.Modules, m)
		p.Recompute()
	}
}

// NewTestProject returns a planning project running for a month from Fixed.
func NewTestProject(title string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:        uuid.New().String(),
		Title:     title,
		StartDate: domain.StartOfDay(Fixed),
		Deadline:  domain.StartOfDay(Fixed.AddDate(0, 1, 0)),
		Status:    domain.ProjectPlanning,
		Priority:  domain.PriorityMedium,
		CreatedAt: Fixed,
		UpdatedAt: Fixed,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestDailyInput returns an input for day with the given wake-up time.
func NewTestDailyInput(day time.Time, wake string, meditation, wasted *int) *domain.DailyInput {
	return &domain.DailyInput{
		ID:                uuid.New().String(),
		Day:               domain.StartOfDay(day),
		WakeUpTime:        wake,
		MeditationMinutes: meditation,
		WastedMinutes:     wasted,
		CreatedAt:         day,
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
