package importer

import (
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
)

// Course is a converted course ready for LearningService.Create.
type Course struct {
	Title    string
	Chapters []string
	Notes    string
}

// Plan is a converted plan file ready to be applied through the services.
type Plan struct {
	Habits   []string
	Courses  []Course
	Projects []service.ProjectInput
}

// Convert transforms a validated PlanFile into service inputs. Projects
// without a start date start on the day of now. Call ValidatePlanFile first;
// Convert assumes the plan file is valid.
func Convert(pf *PlanFile, now time.Time) *Plan {
	plan := &Plan{Habits: pf.Habits}

	for _, c := range pf.Courses {
		plan.Courses = append(plan.Courses, Course{Title: c.Title, Chapters: c.Chapters, Notes: c.Notes})
	}

	for _, p := range pf.Projects {
		in := service.ProjectInput{
			Title:       p.Title,
			Description: p.Description,
			StartDate:   domain.StartOfDay(now),
			Status:      validStatuses[normalizeKey(p.Status)],
			Priority:    validPriorities[normalizeKey(p.Priority)],
			Notes:       p.Notes,
		}
		if start := parseOptionalDate(&p.StartDate); start != nil {
			in.StartDate = *start
		}
		if deadline := parseOptionalDate(&p.Deadline); deadline != nil {
			in.Deadline = *deadline
		}

		for _, m := range p.Modules {
			mod := domain.Module{Name: m.Name}
			for _, t := range m.Tasks {
				mod.Tasks = append(mod.Tasks, domain.ModuleTask{
					Title:       t.Title,
					Description: t.Description,
					Status:      validTaskStatuses[normalizeKey(t.Status)],
					Priority:    validPriorities[normalizeKey(t.Priority)],
					DueDate:     parseOptionalDate(t.DueDate),
				})
			}
			in.Modules = append(in.Modules, mod)
		}
		plan.Projects = append(plan.Projects, in)
	}

	return plan
}

// parseOptionalDate returns nil for a nil, empty or malformed date.
func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := domain.ParseDay(*s)
	if err != nil {
		return nil
	}
	return &t
}
