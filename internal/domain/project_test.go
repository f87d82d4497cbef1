package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasks(done, total int, priority Priority) []ModuleTask {
	out := make([]ModuleTask, total)
	for i := range out {
		out[i] = ModuleTask{Title: "task", Status: ModuleTaskPending, Priority: priority}
		if i < done {
			out[i].Status = ModuleTaskCompleted
		}
	}
	return out
}

func newTestProject(t *testing.T, modules ...Module) *Project {
	t.Helper()
	p, err := NewProject("p1", "Portfolio", "", testNow, testNow.AddDate(0, 2, 0), "", "", modules, "", testNow)
	require.NoError(t, err)
	return p
}

func TestNewProject_Defaults(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, ProjectPlanning, p.Status)
	assert.Equal(t, PriorityMedium, p.Priority)
	assert.Equal(t, 0, p.Progress)
	assert.Nil(t, p.CurrentModule())
}

func TestNewProject_Validation(t *testing.T) {
	_, err := NewProject("p1", "", "", testNow, testNow.AddDate(0, 1, 0), "", "", nil, "", testNow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewProject("p1", "Late", "", testNow, testNow.AddDate(0, -1, 0), "", "", nil, "", testNow)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewProject("p1", "Odd", "", testNow, testNow.AddDate(0, 1, 0), "Someday", "", nil, "", testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewProject_NormalizesLegacyDone(t *testing.T) {
	p := newTestProject(t, Module{Name: "M", Tasks: []ModuleTask{
		{Title: "a", Status: "Done"},
		{Title: "b"},
	}})
	assert.Equal(t, ModuleTaskCompleted, p.Modules[0].Tasks[0].Status)
	assert.Equal(t, ModuleTaskPending, p.Modules[0].Tasks[1].Status)
	assert.Equal(t, PriorityMedium, p.Modules[0].Tasks[1].Priority)
	assert.Equal(t, 50, p.Modules[0].Progress)
}

func TestProject_AggregationRoundTrip(t *testing.T) {
	p := newTestProject(t,
		Module{Name: "A", Tasks: tasks(0, 2, PriorityMedium)},
		Module{Name: "B", Tasks: tasks(2, 3, PriorityMedium)},
		Module{Name: "C", Tasks: tasks(0, 4, PriorityMedium)},
	)

	toggle, err := p.SetTaskStatus(0, 0, true, testNow)
	require.NoError(t, err)
	assert.True(t, toggle.BecameDone)
	assert.False(t, toggle.ModuleCompleted)

	assert.Equal(t, 50, p.Modules[0].Progress)
	assert.Equal(t, 67, p.Modules[1].Progress)
	assert.Equal(t, 0, p.Modules[2].Progress)
	assert.Equal(t, 39, p.Progress)

	assert.Equal(t, ModuleInProgress, p.Modules[0].Status)
	assert.Equal(t, ModuleNotStarted, p.Modules[2].Status)
	assert.Equal(t, ProjectInProgress, p.Status)
}

func TestSetTaskStatus_CompletesModuleAndProject(t *testing.T) {
	p := newTestProject(t,
		Module{Name: "A", Tasks: tasks(1, 2, PriorityHigh)},
	)

	toggle, err := p.SetTaskStatus(0, 1, true, testNow)
	require.NoError(t, err)
	assert.True(t, toggle.BecameDone)
	assert.True(t, toggle.ModuleCompleted)
	assert.Equal(t, PriorityHigh, toggle.Priority)
	assert.Equal(t, ModuleCompleted, p.Modules[0].Status)
	assert.Equal(t, 100, p.Progress)
	assert.Equal(t, ProjectCompleted, p.Status)
}

func TestSetTaskStatus_BackToPending(t *testing.T) {
	p := newTestProject(t, Module{Name: "A", Tasks: tasks(2, 2, PriorityMedium)})
	require.Equal(t, ProjectCompleted, p.Status)

	toggle, err := p.SetTaskStatus(0, 0, false, testNow)
	require.NoError(t, err)
	assert.False(t, toggle.BecameDone)
	assert.False(t, toggle.ModuleCompleted)
	assert.Equal(t, ModuleTaskPending, p.Modules[0].Tasks[0].Status)
	assert.Equal(t, 50, p.Progress)
	assert.Equal(t, ProjectInProgress, p.Status)
}

func TestSetTaskStatus_RepeatIsStable(t *testing.T) {
	p := newTestProject(t, Module{Name: "A", Tasks: tasks(0, 3, PriorityMedium)})

	first, err := p.SetTaskStatus(0, 2, true, testNow)
	require.NoError(t, err)
	second, err := p.SetTaskStatus(0, 2, true, testNow)
	require.NoError(t, err)

	assert.True(t, first.BecameDone)
	assert.False(t, second.BecameDone, "re-marking a done task is not a transition")
	assert.Equal(t, 33, p.Progress)
}

func TestSetTaskStatus_OutOfBounds(t *testing.T) {
	p := newTestProject(t, Module{Name: "A", Tasks: tasks(0, 1, PriorityMedium)})
	before := p.Modules[0].Tasks[0]

	_, err := p.SetTaskStatus(1, 0, true, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = p.SetTaskStatus(0, 5, true, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = p.SetTaskStatus(-1, 0, true, testNow)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, before, p.Modules[0].Tasks[0])
	assert.Equal(t, 0, p.Progress)
}

func TestProjectStatus_AllNotStartedIsPlanning(t *testing.T) {
	p := newTestProject(t,
		Module{Name: "A", Tasks: tasks(0, 2, PriorityLow)},
		Module{Name: "B", Tasks: tasks(0, 1, PriorityLow)},
	)
	assert.Equal(t, ProjectPlanning, p.Status)
}

func TestProjectStatus_MixedCompletedAndNotStarted(t *testing.T) {
	p := newTestProject(t,
		Module{Name: "A", Tasks: tasks(2, 2, PriorityLow)},
		Module{Name: "B", Tasks: tasks(0, 2, PriorityLow)},
	)
	assert.Equal(t, ProjectInProgress, p.Status)
	assert.Equal(t, 50, p.Progress)
}

func TestProjectStatus_OnHoldSurvivesProgress(t *testing.T) {
	p, err := NewProject("p1", "Paused", "", testNow, testNow.AddDate(0, 1, 0), ProjectOnHold, "", []Module{
		{Name: "A", Tasks: tasks(0, 2, PriorityLow)},
	}, "", testNow)
	require.NoError(t, err)

	_, err = p.SetTaskStatus(0, 0, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, ProjectOnHold, p.Status)

	_, err = p.SetTaskStatus(0, 1, true, testNow)
	require.NoError(t, err)
	assert.Equal(t, ProjectCompleted, p.Status)
}

func TestReplaceModules_RederivesAndRejects(t *testing.T) {
	p := newTestProject(t, Module{Name: "A", Tasks: tasks(1, 1, PriorityLow)})
	require.Equal(t, 100, p.Progress)

	err := p.ReplaceModules([]Module{{Name: ""}}, testNow)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, p.Modules, 1, "rejected replacement leaves modules untouched")

	require.NoError(t, p.ReplaceModules([]Module{
		{Name: "A", Tasks: tasks(1, 1, PriorityLow)},
		{Name: "B", Tasks: tasks(0, 3, PriorityLow)},
	}, testNow))
	assert.Equal(t, 50, p.Progress)
	assert.Equal(t, "B", p.CurrentModule().Name)
}

func TestDaysRemaining(t *testing.T) {
	p := newTestProject(t)
	assert.Equal(t, 61, p.DaysRemaining(testNow))
	assert.Equal(t, 0, p.DaysRemaining(p.Deadline.Add(-time.Hour)))
	assert.Equal(t, -1, p.DaysRemaining(p.Deadline.AddDate(0, 0, 1)))
}

func TestDaysRemaining_UsesCivilDateOfNow(t *testing.T) {
	ny := time.FixedZone("EDT", -4*60*60)

	p := newTestProject(t)
	p.Deadline = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	// 21:00 in New York is already July 1st in UTC.
	eve := time.Date(2025, 6, 30, 21, 0, 0, 0, ny)
	assert.Equal(t, 1, p.DaysRemaining(eve))
	assert.Equal(t, 0, p.DaysRemaining(time.Date(2025, 7, 1, 23, 30, 0, 0, ny)))
}
