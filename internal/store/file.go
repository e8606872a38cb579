package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nissyi-gh/planner/internal/model"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultPath is the task file used when none is configured.
const DefaultPath = "tasks.json"

var errMissing = errors.New("task file does not exist")

// record is one entry of the task file.
type record struct {
	Text      string `json:"text"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	Color     string `json:"color"`
	Completed bool   `json:"completed,omitempty"`
}

const schemaURL = "planner://tasks.schema.json"

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "time", "date", "color"],
    "properties": {
      "text": {"type": "string", "pattern": "\\S"},
      "time": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):[0-5][0-9]$"},
      "date": {"type": "string", "pattern": "^[0-9]{2}\\.[0-9]{2}\\.[0-9]{4}$"},
      "color": {"type": "string", "pattern": "^#[0-9a-fA-F]{6}$"},
      "completed": {"type": "boolean"}
    }
  }
}`

var fileSchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add task file schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// LoadFile reads the task file at path.
func LoadFile(path string) ([]model.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errMissing, path)
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}
	if err := fileSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate task file: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode task file: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for i, r := range records {
		t, err := r.task()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// SaveFile overwrites path with tasks.
func SaveFile(path string, tasks []model.Task) error {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			Text:      t.Description,
			Time:      t.Time.String(),
			Date:      t.Date.String(),
			Color:     t.Color,
			Completed: t.Completed,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create task dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

func (r record) task() (model.Task, error) {
	if strings.TrimSpace(r.Text) == "" {
		return model.Task{}, fmt.Errorf("%w: description is empty", ErrValidation)
	}
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.Task{}, err
	}
	clock, err := model.ParseClock(r.Time)
	if err != nil {
		return model.Task{}, err
	}
	color, err := model.NormalizeColor(r.Color)
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:          uuid.NewString(),
		Description: r.Text,
		Date:        date,
		Time:        clock,
		Color:       color,
		Completed:   r.Completed,
	}, nil
}
