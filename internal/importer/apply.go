package importer

import (
	"context"
	"fmt"

	"github.com/alexanderramin/kaizen/internal/domain"
	"github.com/alexanderramin/kaizen/internal/service"
)

// Services are the use cases a plan is applied through.
type Services struct {
	Tasks     service.TaskService
	Learnings service.LearningService
	Projects  service.ProjectService
}

// Result counts the entities created by Apply.
type Result struct {
	Habits   int
	Courses  int
	Projects int
}

// Apply creates every entity of plan in file order: habits, courses, then
// projects. Each entity commits on its own; on error the counts report what
// was created before the failure.
func Apply(ctx context.Context, svc Services, plan *Plan) (Result, error) {
	var res Result

	for _, h := range plan.Habits {
		if _, err := svc.Tasks.Create(ctx, h, domain.TaskNonNegotiable, nil); err != nil {
			return res, fmt.Errorf("habit %q: %w", h, err)
		}
		res.Habits++
	}
	for _, c := range plan.Courses {
		if _, err := svc.Learnings.Create(ctx, c.Title, c.Chapters, c.Notes); err != nil {
			return res, fmt.Errorf("course %q: %w", c.Title, err)
		}
		res.Courses++
	}
	for _, p := range plan.Projects {
		if _, err := svc.Projects.Create(ctx, p); err != nil {
			return res, fmt.Errorf("project %q: %w", p.Title, err)
		}
		res.Projects++
	}

	return res, nil
}
