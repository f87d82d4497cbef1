package api

import (
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
)

type trackingView struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type taskView struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           string         `json:"type"`
	Deadline       *string        `json:"deadline,omitempty"`
	Status         string         `json:"status"`
	DailyTracking  []trackingView `json:"dailyTracking,omitempty"`
	LastResetDate  *string        `json:"lastResetDate,omitempty"`
	CompletedToday bool           `json:"completedToday"`
	Version        int            `json:"version"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func toTaskView(t *domain.Task, now time.Time) taskView {
	v := taskView{
		ID:        t.ID,
		Title:     t.Title,
		Type:      string(t.Type),
		Status:    string(t.Status),
		Version:   t.Version,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Deadline != nil {
		d := t.Deadline.Format(time.RFC3339)
		v.Deadline = &d
	}
	if t.LastResetDate != nil {
		d := domain.DayKey(*t.LastResetDate)
		v.LastResetDate = &d
	}
	for _, e := range t.DailyTracking {
		v.DailyTracking = append(v.DailyTracking, trackingView{Date: domain.DayKey(e.Date), Completed: e.Completed})
	}
	if t.IsRecurring() {
		v.CompletedToday = t.CompletedOn(now)
	}
	return v
}

func toTaskViews(tasks []*domain.Task, now time.Time) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskView(t, now))
	}
	return out
}

type learningView struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	NoOfChapters        int      `json:"noOfChapters"`
	ChapterNames        []string `json:"chaptersName"`
	Progress            []int    `json:"progress"`
	CurrentChapterIndex int      `json:"currentChapterIndex"`
	CurrentChapter      string   `json:"currentChapter,omitempty"`
	CompletedChapters   int      `json:"completedChapters"`
	ProgressPercent     int      `json:"progressPercent"`
	Status              string   `json:"status"`
	Notes               string   `json:"notes"`
	Version             int      `json:"version"`
}

func toLearningView(l *domain.Learning) learningView {
	return learningView{
		ID:                  l.ID,
		Title:               l.Title,
		NoOfChapters:        l.NoOfChapters,
		ChapterNames:        l.ChapterNames,
		Progress:            l.Progress.Flags(),
		CurrentChapterIndex: l.CurrentChapterIndex,
		CurrentChapter:      l.CurrentChapterName(),
		CompletedChapters:   l.CompletedChapters,
		ProgressPercent:     l.ProgressPercent(),
		Status:              string(l.Status),
		Notes:               l.Notes,
		Version:             l.Version,
	}
}

func toLearningViews(ls []*domain.Learning) []learningView {
	out := make([]learningView, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLearningView(l))
	}
	return out
}

// moduleTaskJSON is shared by project requests and responses.
type moduleTaskJSON struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

type moduleJSON struct {
	Name      string           `json:"name"`
	Status    string           `json:"status,omitempty"`
	Progress  int              `json:"progress"`
	StartDate *string          `json:"startDate,omitempty"`
	EndDate   *string          `json:"endDate,omitempty"`
	Tasks     []moduleTaskJSON `json:"tasks"`
}

type projectView struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	StartDate     string       `json:"startDate"`
	Deadline      string       `json:"deadline"`
	DaysRemaining int          `json:"daysRemaining"`
	Status        string       `json:"status"`
	Priority      string       `json:"priority"`
	Progress      int          `json:"progress"`
	CurrentModule string       `json:"currentModule,omitempty"`
	Modules       []moduleJSON `json:"modules"`
	Notes         string       `json:"notes"`
	Version       int          `json:"version"`
}

func dayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.DayKey(*t)
	return &s
}

func toProjectView(p *domain.Project, now time.Time) projectView {
	v := projectView{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		StartDate:     domain.DayKey(p.StartDate),
		Deadline:      domain.DayKey(p.Deadline),
		DaysRemaining: p.DaysRemaining(now),
		Status:        string(p.Status),
		Priority:      string(p.Priority),
		Progress:      p.Progress,
		Modules:       make([]moduleJSON, 0, len(p.Modules)),
		Notes:         p.Notes,
		Version:       p.Version,
	}
	if m := p.CurrentModule(); m != nil {
		v.CurrentModule = m.Name
	}
	for _, m := range p.Modules {
		mv := moduleJSON{
			Name:      m.Name,
			Status:    string(m.Status),
			Progress:  m.Progress,
			StartDate: dayPtr(m.StartDate),
			EndDate:   dayPtr(m.EndDate),
			Tasks:     make([]moduleTaskJSON, 0, len(m.Tasks)),
		}
		for _, t := range m.Tasks {
			mv.Tasks = append(mv.Tasks, moduleTaskJSON{
				Title:       t.Title,
				Description: t.Description,
				Status:      string(t.Status),
				Priority:    string(t.Priority),
				DueDate:     dayPtr(t.DueDate),
			})
		}
		v.Modules = append(v.Modules, mv)
	}
	return v
}

func toProjectViews(ps []*domain.Project, now time.Time) []projectView {
	out := make([]projectView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProjectView(p, now))
	}
	return out
}

// toModules converts request modules into domain modules.
func toModules(in []moduleJSON) ([]domain.Module, error) {
	out := make([]domain.Module, 0, len(in))
	for _, m := range in {
		start, err := parseOptionalDate("startDate", m.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseOptionalDate("endDate", m.EndDate)
		if err != nil {
			return nil, err
		}
		dm := domain.Module{
			Name:      m.Name,
			Status:    domain.ModuleStatus(m.Status),
			Progress:  m.Progress,
			StartDate: start,
			EndDate:   end,
		}
		for _, t := range m.Tasks {
			due, err := parseOptionalDate("dueDate", t.DueDate)
			if err != nil {
				return nil, err
			}
			dm.Tasks = append(dm.Tasks, domain.ModuleTask{
				Title:       t.Title,
				Description: t.Description,
				Status:      domain.ModuleTaskStatus(t.Status),
				Priority:    domain.Priority(t.Priority),
				DueDate:     due,
			})
		}
		out = append(out, dm)
	}
	return out, nil
}

type badEntryView struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type recordView struct {
	Date string         `json:"date"`
	Good int            `json:"good"`
	Bad  []badEntryView `json:"bad"`
}

type ledgerView struct {
	Performance int          `json:"performance"`
	Records     []recordView `json:"records"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func toRecordView(rec domain.LedgerRecord) recordView {
	v := recordView{Date: domain.DayKey(rec.Day), Good: rec.GoodTotal(), Bad: []badEntryView{}}
	for _, b := range rec.Buckets {
		for _, e := range b.Bad {
			v.Bad = append(v.Bad, badEntryView{Name: e.Name, Score: e.Score})
		}
	}
	return v
}

func toLedgerView(l *domain.PerformanceLedger) ledgerView {
	v := ledgerView{Performance: l.Performance, Records: make([]recordView, 0, len(l.Records)), UpdatedAt: l.UpdatedAt}
	for _, rec := range l.Records {
		v.Records = append(v.Records, toRecordView(rec))
	}
	return v
}

type dayScoreView struct {
	Date string `json:"date"`
	Good int    `json:"good"`
	Bad  int    `json:"bad"`
	Net  int    `json:"net"`
}

func toDayScoreViews(days []service.DayScore) []dayScoreView {
	out := make([]dayScoreView, 0, len(days))
	for _, d := range days {
		out = append(out, dayScoreView{Date: domain.DayKey(d.Day), Good: d.Good, Bad: d.Bad, Net: d.Net})
	}
	return out
}

type dailyInputView struct {
	ID                 string `json:"id"`
	Date               string `json:"date"`
	WakeUpTime         string `json:"wakeUpTime"`
	MeditationDuration *int   `json:"meditationDuration"`
	TimeWastedRandomly *int   `json:"timeWastedRandomly"`
}

func toDailyInputView(in *domain.DailyInput) dailyInputView {
	return dailyInputView{
		ID:                 in.ID,
		Date:               domain.DayKey(in.Day),
		WakeUpTime:         in.WakeUpTime,
		MeditationDuration: in.MeditationMinutes,
		TimeWastedRandomly: in.WastedMinutes,
	}
}

type dashboardView struct {
	Date          string          `json:"date"`
	Performance   int             `json:"performance"`
	Today         *recordView     `json:"today"`
	Habits        []taskView      `json:"habits"`
	HabitsDone    int             `json:"habitsDone"`
	OpenTasks     []taskView      `json:"openTasks"`
	Learnings     []learningView  `json:"learnings"`
	ActiveCourses int             `json:"activeCourses"`
	Projects      []projectView   `json:"projects"`
	TodaysInput   *dailyInputView `json:"todaysInput"`
}

func toDashboardView(s *service.Snapshot) dashboardView {
	v := dashboardView{
		Date:          domain.DayKey(s.Now),
		Performance:   s.Performance,
		Habits:        toTaskViews(s.Habits, s.Now),
		HabitsDone:    s.HabitsDone,
		OpenTasks:     toTaskViews(s.OpenTasks, s.Now),
		Learnings:     toLearningViews(s.Learnings),
		ActiveCourses: s.ActiveCourses,
		Projects:      toProjectViews(s.Projects, s.Now),
	}
	if s.Today != nil {
		rv := toRecordView(*s.Today)
		v.Today = &rv
	}
	if s.TodaysInput != nil {
		iv := toDailyInputView(s.TodaysInput)
		v.TodaysInput = &iv
	}
	return v
}
