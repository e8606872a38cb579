package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/planner/internal/agenda"
	"github.com/nissyi-gh/planner/internal/config"
	"github.com/nissyi-gh/planner/internal/history"
	"github.com/nissyi-gh/planner/internal/importer"
	"github.com/nissyi-gh/planner/internal/logging"
	"github.com/nissyi-gh/planner/internal/model"
	"github.com/nissyi-gh/planner/internal/reminder"
	"github.com/nissyi-gh/planner/internal/store"
	"github.com/nissyi-gh/planner/internal/ui"
)

const usage = `Usage: planner [-config PATH] [-tasks PATH] [command]

Commands:
  (none)          open the task planner
  watch           check reminders without the UI
  import FILE     add tasks from a YAML file
  history [-n N]  list fired reminders
  agenda [-date dd.MM.yyyy] [-ics] [-copy]
                  print the tasks of a day, or all tasks as iCalendar
  config          print an example config file
`

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	configPathFlag := fs.String("config", "", "config file path")
	tasksPathFlag := fs.String("tasks", "", "task file path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(*configPathFlag, *tasksPathFlag)
	if err != nil {
		return err
	}

	cmd, rest := "", fs.Args()
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	ctx := context.Background()
	switch cmd {
	case "":
		return runUI(ctx, cfg)
	case "watch":
		return runWatch(ctx, cfg, stdout)
	case "import":
		return runImport(cfg, rest, stdout)
	case "history":
		return runHistory(cfg, rest, stdout)
	case "agenda":
		return runAgenda(cfg, rest, stdout)
	case "config":
		_, err := fmt.Fprint(stdout, config.Example)
		return err
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

func loadConfig(configPath, tasksPath string) (config.Config, error) {
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("determine config path: %w", err)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if tasksPath != "" {
		cfg.TasksFile = tasksPath
	}
	return cfg, nil
}

func runUI(ctx context.Context, cfg config.Config) error {
	logPath := cfg.LogFile
	if logPath == "" {
		var err error
		logPath, err = logging.DefaultPath()
		if err != nil {
			return fmt.Errorf("determine log path: %w", err)
		}
	}
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Path: logPath})
	if err != nil {
		return err
	}
	defer closer.Close()

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer hist.Close()

	// Bubble Tea only traps SIGINT and SIGTERM; a closed terminal sends SIGHUP.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP)
	defer stop()

	s := store.Open(cfg.TasksFile, logger)
	runErr := ui.Run(ctx, s, ui.Options{
		Interval:     cfg.Interval(),
		CatchUp:      cfg.CatchUp,
		DefaultColor: cfg.DefaultColor,
		History:      hist,
		Logger:       logger,
	})
	if errors.Is(runErr, context.Canceled) {
		logger.Info("terminal closed, saving tasks")
		runErr = nil
	}
	if err := s.Save(); err != nil {
		logger.Error("save tasks", "err", err)
		return errors.Join(runErr, err)
	}
	return runErr
}

func runWatch(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Path: cfg.LogFile, Writer: os.Stderr})
	if err != nil {
		return err
	}
	defer closer.Close()

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer hist.Close()

	s := store.Open(cfg.TasksFile, logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("watching for reminders", "tasks", s.Len(), "interval", cfg.Interval(), "catch_up", cfg.CatchUp)
	err = reminder.Run(ctx, reminder.NewScanner(s, cfg.CatchUp), cfg.Interval(), func(t model.Task, at time.Time) {
		fmt.Fprintf(stdout, "Time to do: %s\n", agenda.Line(t))
		logger.Info("reminder fired", "id", t.ID, "description", t.Description)
		if err := hist.Record(ctx, t, at); err != nil {
			logger.Error("record reminder", "err", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return s.Save()
}

func runImport(cfg config.Config, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("import needs exactly one YAML file")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	s := store.Open(cfg.TasksFile, log.New(io.Discard))
	if err := s.LoadWarning(); err != nil {
		return fmt.Errorf("refusing to overwrite %s: %w", cfg.TasksFile, err)
	}
	n, importErr := importer.Import(s, string(data), cfg.DefaultColor)
	if n > 0 {
		if err := s.Save(); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "Imported %d task(s) into %s\n", n, cfg.TasksFile)
	return importErr
}

func runHistory(cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("n", 20, "number of entries, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer hist.Close()

	entries, err := hist.List(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No reminders have fired yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%s  %s %s - %s\n", e.FiredAt.Format("2006-01-02 15:04"), e.Date, e.Time, e.Description)
	}
	return nil
}

func runAgenda(cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("agenda", flag.ContinueOnError)
	dateFlag := fs.String("date", "", "day to show (dd.MM.yyyy), default today")
	icsFlag := fs.Bool("ics", false, "print all tasks as iCalendar")
	copyFlag := fs.Bool("copy", false, "copy the output to the clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	day := model.DateOf(time.Now())
	if *dateFlag != "" {
		var err error
		if day, err = model.ParseDate(*dateFlag); err != nil {
			return err
		}
	}

	s := store.Open(cfg.TasksFile, log.New(io.Discard))
	out := agenda.Text(s.List(), day)
	if *icsFlag {
		out = agenda.ICS(s.List(), time.Now())
	}

	if *copyFlag {
		if err := clipboard.WriteAll(out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	_, err := fmt.Fprint(stdout, out)
	return err
}
