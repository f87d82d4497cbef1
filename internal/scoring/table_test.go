package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Table(t *testing.T) {
	cases := []struct {
		category, action string
		params           Params
		score            int
		badName          string
	}{
		{"task", "completed", Params{}, 10, ""},
		{"task", "procrastinated", Params{}, -5, "Procrastinated Task"},
		{"project", "moduleCompleted", Params{}, 20, ""},
		{"project", "taskCompleted", Params{}, 8, ""},
		{"project", "highPriorityTaskCompleted", Params{}, 12, ""},
		{"project", "delayedTask", Params{}, -6, "Delayed Task"},
		{"learning", "chapterCompleted", Params{}, 5, ""},
		{"learning", "sessionSkipped", Params{}, -4, "Skipped Learning"},
		{"dailyInput", "wokeUpEarly", Params{}, 5, ""},
		{"dailyInput", "meditated", Params{}, 3, ""},
		{"dailyInput", "wastedTime", Params{Minutes: 45}, -4, "Wasted Time"},
		{"dailyInput", "wastedTime", Params{Minutes: 30}, -3, "Wasted Time"},
	}
	for _, tc := range cases {
		t.Run(tc.category+"."+tc.action, func(t *testing.T) {
			a := Parse(tc.category, tc.action)
			require.NotEqual(t, Unknown, a)
			got := Score(a, tc.params)
			assert.Equal(t, tc.score, got.Score)
			if tc.badName == "" {
				assert.Nil(t, got.Bad)
				return
			}
			require.NotNil(t, got.Bad)
			assert.Equal(t, tc.badName, got.Bad.Name)
			assert.Equal(t, tc.score, got.Bad.Score)
		})
	}
}

func TestScore_UnknownPairs(t *testing.T) {
	for _, pair := range [][2]string{{"unknown", "nope"}, {"task", "nope"}, {"", ""}, {"Task", "completed"}} {
		a := Parse(pair[0], pair[1])
		assert.Equal(t, Unknown, a)
		assert.Equal(t, Result{}, Score(a, Params{Minutes: 100}))
	}
}

func TestWastedTimeScore(t *testing.T) {
	assert.Equal(t, 0, WastedTimeScore(0))
	assert.Equal(t, 0, WastedTimeScore(9))
	assert.Equal(t, -1, WastedTimeScore(10))
	assert.Equal(t, -4, WastedTimeScore(49))
	assert.Equal(t, 0, WastedTimeScore(-20))
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "dailyInput.wastedTime", DailyWastedTime.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "project", ProjectDelayedTask.Category())
	assert.Equal(t, "delayedTask", ProjectDelayedTask.Name())
}
