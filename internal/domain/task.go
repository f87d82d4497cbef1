package domain

import (
	"strings"
	"time"
)

type DailyTrackingEntry struct {
	Date      time.Time
	Completed bool
}

type Task struct {
	ID       string
	Title    string
	Type     TaskType
	Deadline *time.Time
	Status   TaskStatus

	// Non-negotiable only
	DailyTracking []DailyTrackingEntry
	LastResetDate *time.Time

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask validates the inputs and returns a pending task. Non-negotiable tasks
// start with an open tracking entry for the day of now.
func NewTask(id, title string, typ TaskType, deadline *time.Time, now time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, Invalid("title", "is required")
	}
	if !ValidTaskTypes[typ] {
		return nil, Invalid("type", "unknown task type %q", typ)
	}
	if typ == TaskDeadline && deadline == nil {
		return nil, Invalid("deadline", "is required for deadline tasks")
	}
	if typ != TaskDeadline {
		deadline = nil
	}

	t := &Task{
		ID:        id,
		Title:     title,
		Type:      typ,
		Deadline:  deadline,
		Status:    TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if typ == TaskNonNegotiable {
		today := StartOfDay(now)
		t.DailyTracking = []DailyTrackingEntry{{Date: today, Completed: false}}
		t.LastResetDate = &today
	}
	return t, nil
}

func (t *Task) IsRecurring() bool {
	return t.Type == TaskNonNegotiable
}

// NeedsReset reports whether the last reset happened on an earlier day than now.
func (t *Task) NeedsReset(now time.Time) bool {
	if !t.IsRecurring() {
		return false
	}
	if t.LastResetDate == nil {
		return true
	}
	return DayBefore(*t.LastResetDate, now)
}

// EnsureTodayEntry opens today's tracking entry when the last reset predates
// today. Returns true when the task was modified.
func (t *Task) EnsureTodayEntry(now time.Time) bool {
	if !t.NeedsReset(now) {
		return false
	}
	today := StartOfDay(now)
	if t.trackingIndex(today) < 0 {
		t.DailyTracking = append(t.DailyTracking, DailyTrackingEntry{Date: today, Completed: false})
	}
	t.LastResetDate = &today
	t.UpdatedAt = now
	return true
}

// MarkCompletedToday flags today's tracking entry as completed, creating it if
// needed. Returns true only on a not-completed to completed transition.
func (t *Task) MarkCompletedToday(now time.Time) (bool, error) {
	if !t.IsRecurring() {
		return false, Invalid("type", "task %s is %s, daily tracking needs %s", t.ID, t.Type, TaskNonNegotiable)
	}
	today := StartOfDay(now)
	idx := t.trackingIndex(today)
	if idx < 0 {
		t.DailyTracking = append(t.DailyTracking, DailyTrackingEntry{Date: today, Completed: true})
		t.LastResetDate = &today
		t.UpdatedAt = now
		return true, nil
	}
	if t.DailyTracking[idx].Completed {
		return false, nil
	}
	t.DailyTracking[idx].Completed = true
	t.UpdatedAt = now
	return true, nil
}

// CompletedOn reports whether the tracking entry for day's calendar day is completed.
func (t *Task) CompletedOn(day time.Time) bool {
	idx := t.trackingIndex(StartOfDay(day))
	return idx >= 0 && t.DailyTracking[idx].Completed
}

// Complete moves a one-shot task from pending to completed. Returns true on the transition.
func (t *Task) Complete(now time.Time) (bool, error) {
	if t.IsRecurring() {
		return false, Invalid("type", "non-negotiable tasks are completed per day")
	}
	if t.Status == TaskCompleted {
		return false, nil
	}
	t.Status = TaskCompleted
	t.UpdatedAt = now
	return true, nil
}

// Reopen moves a completed one-shot task back to pending.
func (t *Task) Reopen(now time.Time) error {
	if t.IsRecurring() {
		return Invalid("type", "non-negotiable tasks are completed per day")
	}
	t.Status = TaskPending
	t.UpdatedAt = now
	return nil
}

func (t *Task) trackingIndex(day time.Time) int {
	for i, e := range t.DailyTracking {
		if SameDay(day, e.Date) {
			return i
		}
	}
	return -1
}
