// Package scoring holds the fixed point values awarded for tracked actions.
package scoring

import "github.com/alexanderramin/kaizen/internal/domain"

// Action is one scored (category, action) pair. The set is closed.
type Action int

const (
	Unknown Action = iota
	TaskCompleted
	TaskProcrastinated
	ProjectModuleCompleted
	ProjectTaskCompleted
	ProjectHighPriorityTaskCompleted
	ProjectDelayedTask
	LearningChapterCompleted
	LearningSessionSkipped
	DailyWokeUpEarly
	DailyMeditated
	DailyWastedTime
)

// Params carries the inputs some actions are scored from.
type Params struct {
	Minutes int
}

// Result is the outcome of scoring one action. Bad is set for penalized actions.
type Result struct {
	Score int
	Bad   *domain.BadEntry
}

type key struct{ category, action string }

var names = map[Action]key{
	TaskCompleted:                    {"task", "completed"},
	TaskProcrastinated:               {"task", "procrastinated"},
	ProjectModuleCompleted:           {"project", "moduleCompleted"},
	ProjectTaskCompleted:             {"project", "taskCompleted"},
	ProjectHighPriorityTaskCompleted: {"project", "highPriorityTaskCompleted"},
	ProjectDelayedTask:               {"project", "delayedTask"},
	LearningChapterCompleted:         {"learning", "chapterCompleted"},
	LearningSessionSkipped:           {"learning", "sessionSkipped"},
	DailyWokeUpEarly:                 {"dailyInput", "wokeUpEarly"},
	DailyMeditated:                   {"dailyInput", "meditated"},
	DailyWastedTime:                  {"dailyInput", "wastedTime"},
}

var byName = func() map[key]Action {
	m := make(map[key]Action, len(names))
	for a, k := range names {
		m[k] = a
	}
	return m
}()

// Parse maps wire names onto an Action. Unrecognized pairs yield Unknown.
func Parse(category, action string) Action {
	return byName[key{category, action}]
}

// Category returns the wire category name, or "" for Unknown.
func (a Action) Category() string { return names[a].category }

// Name returns the wire action name, or "" for Unknown.
func (a Action) Name() string { return names[a].action }

func (a Action) String() string {
	if a == Unknown {
		return "unknown"
	}
	return a.Category() + "." + a.Name()
}

// Score returns the points for a. It has no side effects and never fails.
func Score(a Action, p Params) Result {
	switch a {
	case TaskCompleted:
		return Result{Score: 10}
	case TaskProcrastinated:
		return bad(-5, "Procrastinated Task")
	case ProjectModuleCompleted:
		return Result{Score: 20}
	case ProjectTaskCompleted:
		return Result{Score: 8}
	case ProjectHighPriorityTaskCompleted:
		return Result{Score: 12}
	case ProjectDelayedTask:
		return bad(-6, "Delayed Task")
	case LearningChapterCompleted:
		return Result{Score: 5}
	case LearningSessionSkipped:
		return bad(-4, "Skipped Learning")
	case DailyWokeUpEarly:
		return Result{Score: 5}
	case DailyMeditated:
		return Result{Score: 3}
	case DailyWastedTime:
		return bad(WastedTimeScore(p.Minutes), "Wasted Time")
	case Unknown:
		return Result{}
	}
	return Result{}
}

// WastedTimeScore costs one point per full ten minutes wasted.
func WastedTimeScore(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return -(minutes / 10)
}

func bad(score int, name string) Result {
	return Result{Score: score, Bad: &domain.BadEntry{Name: name, Score: score}}
}
