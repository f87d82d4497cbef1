package service

import (
	"context"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/scoring"
)

// Clock returns the current time in the zone calendar days are counted in.
type Clock func() time.Time

// TaskQuery selects tasks for listing. Completed one-shot tasks are hidden
// unless IncludeCompleted is set.
type TaskQuery struct {
	Type             domain.TaskType
	IncludeCompleted bool
}

type TaskService interface {
	Create(ctx context.Context, title string, typ domain.TaskType, deadline *time.Time) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	// List opens today's tracking entries before returning non-negotiable tasks.
	List(ctx context.Context, q TaskQuery) ([]*domain.Task, error)
	// EnsureTodayEntries rolls every non-negotiable task over to now's day and
	// returns how many tasks changed.
	EnsureTodayEntries(ctx context.Context, now time.Time) (int, error)
	MarkCompletedToday(ctx context.Context, id string, now time.Time) (*domain.Task, error)
	// SetStatus completes or reopens a deadline or procrastinating task.
	SetStatus(ctx context.Context, id string, completed bool) (*domain.Task, error)
	MarkProcrastinated(ctx context.Context, id string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// LearningPatch carries the editable metadata of a course. Nil fields are left alone.
type LearningPatch struct {
	Title *string
	Notes *string
}

type LearningService interface {
	Create(ctx context.Context, title string, chapterNames []string, notes string) (*domain.Learning, error)
	Get(ctx context.Context, id string) (*domain.Learning, error)
	List(ctx context.Context) ([]*domain.Learning, error)
	Update(ctx context.Context, id string, patch LearningPatch) (*domain.Learning, error)
	Delete(ctx context.Context, id string) error
	CompleteChapter(ctx context.Context, id string, index int) (*domain.Learning, error)
	UncompleteChapter(ctx context.Context, id string, index int) (*domain.Learning, error)
	AdvanceNext(ctx context.Context, id string) (*domain.Learning, error)
	SkipSession(ctx context.Context, id string) (*domain.Learning, error)
}

// ProjectInput is the user-supplied shape of a project.
type ProjectInput struct {
	Title       string
	Description string
	StartDate   time.Time
	Deadline    time.Time
	Status      domain.ProjectStatus
	Priority    domain.Priority
	Modules     []domain.Module
	Notes       string
}

type ProjectService interface {
	Create(ctx context.Context, in ProjectInput) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// Update replaces metadata and modules, then re-derives progress.
	Update(ctx context.Context, id string, in ProjectInput) (*domain.Project, error)
	ReplaceModules(ctx context.Context, id string, modules []domain.Module) (*domain.Project, error)
	SetTaskStatus(ctx context.Context, id string, moduleIndex, taskIndex int, done bool) (*domain.Project, error)
	ReportDelay(ctx context.Context, id string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// RecordResult is the outcome of one scored action.
type RecordResult struct {
	Score       int
	Performance int
}

// DayScore summarizes one ledger record.
type DayScore struct {
	Day  time.Time
	Good int
	Bad  int
	Net  int
}

type PerformanceService interface {
	// RecordEvent scores a wire (category, action) pair. Unknown pairs score 0
	// and leave the ledger untouched.
	RecordEvent(ctx context.Context, category, action string, params scoring.Params) (RecordResult, error)
	Record(ctx context.Context, a scoring.Action, params scoring.Params) (RecordResult, error)
	Get(ctx context.Context) (*domain.PerformanceLedger, error)
	History(ctx context.Context, days int) ([]DayScore, error)
}

// DailyInputSubmission is one day's self-reported habits.
type DailyInputSubmission struct {
	WakeUpTime        string
	MeditationMinutes *int
	WastedMinutes     *int
}

type DailyInputService interface {
	Submit(ctx context.Context, in DailyInputSubmission, now time.Time) (*domain.DailyInput, error)
	Get(ctx context.Context, day time.Time) (*domain.DailyInput, error)
	Recent(ctx context.Context, limit int) ([]*domain.DailyInput, error)
}

// Snapshot is everything the dashboard renders.
type Snapshot struct {
	Now           time.Time
	Performance   int
	Today         *domain.LedgerRecord
	Habits        []*domain.Task
	OpenTasks     []*domain.Task
	Learnings     []*domain.Learning
	Projects      []*domain.Project
	TodaysInput   *domain.DailyInput
	HabitsDone    int
	ActiveCourses int
}

type DashboardService interface {
	Snapshot(ctx context.Context, now time.Time) (*Snapshot, error)
}
