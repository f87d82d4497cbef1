package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/kaizen/internal/service"
)

// resolveID matches input against ids: an exact match wins, otherwise input
// must be an unambiguous prefix. List output shows 8-character prefixes.
func resolveID(kind, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	tasks, err := app.Tasks.List(ctx, service.TaskQuery{IncludeCompleted: true})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", input, ids)
}

func resolveLearningID(ctx context.Context, app *App, input string) (string, error) {
	learnings, err := app.Learnings.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(learnings))
	for i, l := range learnings {
		ids[i] = l.ID
	}
	return resolveID("course", input, ids)
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return resolveID("project", input, ids)
}
