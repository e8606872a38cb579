package importer

import (
	"fmt"

	"github.com/nissyi-gh/planner/internal/model"
	"github.com/nissyi-gh/planner/internal/store"
	"gopkg.in/yaml.v3"
)

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Color       string `yaml:"color,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Import parses a YAML string and appends its tasks to the store.
// Tasks without a color get defaultColor; an empty defaultColor means
// model.DefaultColor. It stops at the first invalid task and returns the
// number of tasks added.
func Import(s *store.TaskStore, yamlStr string, defaultColor string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}
	if defaultColor == "" {
		defaultColor = model.DefaultColor
	}

	count := 0
	for i, yt := range input.Tasks {
		if err := importTask(s, yt, defaultColor); err != nil {
			return count, fmt.Errorf("task %d: %w", i+1, err)
		}
		count++
	}
	return count, nil
}

func importTask(s *store.TaskStore, yt YAMLTask, defaultColor string) error {
	date, err := model.ParseDate(yt.Date)
	if err != nil {
		return err
	}
	clock, err := model.ParseClock(yt.Time)
	if err != nil {
		return err
	}
	color := yt.Color
	if color == "" {
		color = defaultColor
	}
	if _, err := s.Add(yt.Description, date, clock, color); err != nil {
		return fmt.Errorf("add task %q: %w", yt.Description, err)
	}
	return nil
}
