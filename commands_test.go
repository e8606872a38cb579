package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nissyi-gh/planner/internal/config"
	"github.com/nissyi-gh/planner/internal/history"
	"github.com/nissyi-gh/planner/internal/model"
	"github.com/nissyi-gh/planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func TestImportThenAgenda(t *testing.T) {
	dir := setupEnv(t)
	tasksPath := filepath.Join(dir, "tasks.json")
	yamlPath := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
tasks:
  - {description: Buy milk, date: 01.06.2024, time: "14:30"}
  - {description: Standup, date: 01.06.2024, time: "09:00"}
  - {description: Other day, date: 02.06.2024, time: "09:00"}
`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-tasks", tasksPath, "import", yamlPath}, &out))
	assert.Contains(t, out.String(), "Imported 3 task(s)")

	tasks, err := store.LoadFile(tasksPath)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	out.Reset()
	require.NoError(t, run([]string{"-tasks", tasksPath, "agenda", "-date", "01.06.2024"}, &out))
	assert.Equal(t, "Agenda for 01.06.2024\n[ ] 09:00 - Standup\n[ ] 14:30 - Buy milk\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-tasks", tasksPath, "agenda", "-ics"}, &out))
	assert.Contains(t, out.String(), "SUMMARY:Other day")
}

func TestImportRefusesCorruptTaskFile(t *testing.T) {
	dir := setupEnv(t)
	tasksPath := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(tasksPath, []byte("{broken"), 0o644))
	yamlPath := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("tasks:\n  - {description: x, date: 01.06.2024, time: \"10:00\"}\n"), 0o644))

	err := run([]string{"-tasks", tasksPath, "import", yamlPath}, &bytes.Buffer{})
	assert.Error(t, err)

	data, err := os.ReadFile(tasksPath)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestHistoryEmpty(t *testing.T) {
	setupEnv(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"history"}, &out))
	assert.Equal(t, "No reminders have fired yet\n", out.String())
}

func TestConfigCommand(t *testing.T) {
	setupEnv(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"config"}, &out))
	assert.Contains(t, out.String(), `reminder_interval = "60s"`)
}

func TestUnknownCommand(t *testing.T) {
	setupEnv(t)
	err := run([]string{"frobnicate"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown command")
}

func TestBadConfig(t *testing.T) {
	dir := setupEnv(t)
	cfgPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`reminder_interval = "never"`), 0o644))

	err := run([]string{"-config", cfgPath, "config"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestWatchSavesOnShutdown(t *testing.T) {
	dir := setupEnv(t)
	tasksPath := filepath.Join(dir, "tasks.json")

	s := store.Open(tasksPath, nil)
	past := time.Now().Add(-time.Hour)
	_, err := s.Add("Overdue", model.DateOf(past), model.ClockOf(past), model.DefaultColor)
	require.NoError(t, err)
	later := time.Now().Add(48 * time.Hour)
	_, err = s.Add("Later", model.DateOf(later), model.ClockOf(later), model.DefaultColor)
	require.NoError(t, err)
	require.NoError(t, s.Save())

	cfg := config.Default()
	cfg.TasksFile = tasksPath
	cfg.HistoryDB = filepath.Join(dir, "history.db")
	cfg.ReminderInterval = "10ms"
	cfg.CatchUp = true
	require.NoError(t, cfg.Finalize())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	require.NoError(t, runWatch(ctx, cfg, &out))
	assert.Contains(t, out.String(), "Time to do: ")
	assert.Contains(t, out.String(), "Overdue")

	tasks, err := store.LoadFile(tasksPath)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Later", tasks[0].Description)

	hist, err := history.Open(cfg.HistoryDB)
	require.NoError(t, err)
	defer hist.Close()
	entries, err := hist.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Overdue", entries[0].Description)
}
