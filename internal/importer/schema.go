// Package importer loads plan files: YAML (or JSON) documents that seed
// projects, courses and habits in one go.
package importer

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PlanFile is the top-level structure of a plan file.
type PlanFile struct {
	Habits   []string        `yaml:"habits,omitempty"`
	Courses  []CourseImport  `yaml:"courses,omitempty"`
	Projects []ProjectImport `yaml:"projects,omitempty"`
}

// CourseImport defines a learning course.
type CourseImport struct {
	Title    string   `yaml:"title"`
	Chapters []string `yaml:"chapters"`
	Notes    string   `yaml:"notes,omitempty"`
}

// ProjectImport defines a project with its ordered modules.
type ProjectImport struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	StartDate   string         `yaml:"start_date,omitempty"`
	Deadline    string         `yaml:"deadline"`
	Status      string         `yaml:"status,omitempty"`
	Priority    string         `yaml:"priority,omitempty"`
	Notes       string         `yaml:"notes,omitempty"`
	Modules     []ModuleImport `yaml:"modules,omitempty"`
}

// ModuleImport defines one project module.
type ModuleImport struct {
	Name  string       `yaml:"name"`
	Tasks []TaskImport `yaml:"tasks,omitempty"`
}

// TaskImport defines a module task. A bare string is shorthand for a task
// with only a title.
type TaskImport struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	Status      string  `yaml:"status,omitempty"`
	Priority    string  `yaml:"priority,omitempty"`
	DueDate     *string `yaml:"due_date,omitempty"`
}

func (t *TaskImport) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Title = node.Value
		return nil
	}
	type plain TaskImport
	return node.Decode((*plain)(t))
}

// LoadPlanFile reads and parses a plan file. JSON files parse too.
func LoadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlanFile(data)
}

// ParsePlanFile parses plan file contents, rejecting unknown keys.
func ParsePlanFile(data []byte) (*PlanFile, error) {
	var pf PlanFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &pf, nil
}
