package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
)

type dashboardService struct {
	tasks       TaskService
	learnings   LearningService
	projects    ProjectService
	performance PerformanceService
	inputs      DailyInputService
}

func NewDashboardService(
	tasks TaskService,
	learnings LearningService,
	projects ProjectService,
	performance PerformanceService,
	inputs DailyInputService,
) DashboardService {
	return &dashboardService{
		tasks:       tasks,
		learnings:   learnings,
		projects:    projects,
		performance: performance,
		inputs:      inputs,
	}
}

func (s *dashboardService) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	if _, err := s.tasks.EnsureTodayEntries(ctx, now); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, TaskQuery{})
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Now: now}
	for _, t := range tasks {
		if t.IsRecurring() {
			snap.Habits = append(snap.Habits, t)
			if t.CompletedOn(now) {
				snap.HabitsDone++
			}
			continue
		}
		snap.OpenTasks = append(snap.OpenTasks, t)
	}

	if snap.Learnings, err = s.learnings.List(ctx); err != nil {
		return nil, err
	}
	for _, l := range snap.Learnings {
		if l.Status == domain.LearningInProgress {
			snap.ActiveCourses++
		}
	}
	if snap.Projects, err = s.projects.List(ctx); err != nil {
		return nil, err
	}

	ledger, err := s.performance.Get(ctx)
	if err != nil {
		return nil, err
	}
	snap.Performance = ledger.Performance
	snap.Today = ledger.Today(now)

	in, err := s.inputs.Get(ctx, now)
	switch {
	case err == nil:
		snap.TodaysInput = in
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return snap, nil
}
