package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/kaizen/internal/domain"
)

var (
	validStatuses = map[string]domain.ProjectStatus{
		"planning": domain.ProjectPlanning, "in progress": domain.ProjectInProgress,
		"on hold": domain.ProjectOnHold, "completed": domain.ProjectCompleted,
	}
	validPriorities = map[string]domain.Priority{
		"low": domain.PriorityLow, "medium": domain.PriorityMedium, "high": domain.PriorityHigh,
	}
	validTaskStatuses = map[string]domain.ModuleTaskStatus{
		"pending": domain.ModuleTaskPending, "in progress": domain.ModuleTaskInProgress,
		"completed": domain.ModuleTaskCompleted, "done": domain.ModuleTaskCompleted,
	}
)

// normalizeKey folds "On Hold", "on-hold" and "on_hold" onto one key.
func normalizeKey(s string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// ValidatePlanFile checks the plan file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePlanFile(pf *PlanFile) []error {
	var errs []error

	if len(pf.Habits) == 0 && len(pf.Courses) == 0 && len(pf.Projects) == 0 {
		return []error{fmt.Errorf("plan file is empty")}
	}

	habits := make(map[string]bool)
	for i, h := range pf.Habits {
		key := strings.ToLower(strings.TrimSpace(h))
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("habits[%d] is empty", i))
		case habits[key]:
			errs = append(errs, fmt.Errorf("habits[%d]: duplicate habit %q", i, h))
		default:
			habits[key] = true
		}
	}

	for i, c := range pf.Courses {
		errs = append(errs, validateCourse(fmt.Sprintf("courses[%d]", i), &c)...)
	}
	for i, p := range pf.Projects {
		errs = append(errs, validateProject(fmt.Sprintf("projects[%d]", i), &p)...)
	}

	return errs
}

func validateCourse(prefix string, c *CourseImport) []error {
	var errs []error

	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if len(c.Chapters) == 0 {
		errs = append(errs, fmt.Errorf("%s.chapters: at least one chapter is required", prefix))
	}
	for j, ch := range c.Chapters {
		if strings.TrimSpace(ch) == "" {
			errs = append(errs, fmt.Errorf("%s.chapters[%d] is empty", prefix, j))
		}
	}

	return errs
}

func validateProject(prefix string, p *ProjectImport) []error {
	var errs []error

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}

	start, startErr := validateDate(prefix+".start_date", p.StartDate, false)
	errs = append(errs, startErr...)
	deadline, deadlineErr := validateDate(prefix+".deadline", p.Deadline, true)
	errs = append(errs, deadlineErr...)
	if !start.IsZero() && !deadline.IsZero() && deadline.Before(start) {
		errs = append(errs, fmt.Errorf("%s.deadline %q must not be before start_date %q", prefix, p.Deadline, p.StartDate))
	}

	if p.Status != "" {
		if _, ok := validStatuses[normalizeKey(p.Status)]; !ok {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, p.Status))
		}
	}
	if p.Priority != "" {
		if _, ok := validPriorities[normalizeKey(p.Priority)]; !ok {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, p.Priority))
		}
	}

	for j, m := range p.Modules {
		mprefix := fmt.Sprintf("%s.modules[%d]", prefix, j)
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", mprefix))
		}
		for k, t := range m.Tasks {
			errs = append(errs, validateTask(fmt.Sprintf("%s.tasks[%d]", mprefix, k), &t)...)
		}
	}

	return errs
}

func validateTask(prefix string, t *TaskImport) []error {
	var errs []error

	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if t.Status != "" {
		if _, ok := validTaskStatuses[normalizeKey(t.Status)]; !ok {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
	}
	if t.Priority != "" {
		if _, ok := validPriorities[normalizeKey(t.Priority)]; !ok {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}
	}
	if t.DueDate != nil {
		_, dateErrs := validateDate(prefix+".due_date", *t.DueDate, false)
		errs = append(errs, dateErrs...)
	}

	return errs
}

func validateDate(field, value string, required bool) (time.Time, []error) {
	if value == "" {
		if required {
			return time.Time{}, []error{fmt.Errorf("%s is required", field)}
		}
		return time.Time{}, nil
	}
	t, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)}
	}
	return t, nil
}
