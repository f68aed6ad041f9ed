package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/journal"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/sandeepkv93/taskboard/internal/update"
	"github.com/spf13/cobra"
)

var (
	flagEnvFile   string
	flagLogFile   string
	flagDemo      bool
	flagNoJournal bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Kanban board for the terminal",
		Long: `Taskboard keeps tasks in columns, filters them by search text, status,
priority and due date, and records every change in an activity journal.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "dotenv file to load (defaults to ./.env when present)")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write debug logs to this file")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Start with a seeded demo board")
	rootCmd.Flags().BoolVar(&flagNoJournal, "no-journal", false, "Disable the activity journal")

	rootCmd.AddCommand(columnsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the dotenv file, the environment and flags.
func loadConfig(cmd *cobra.Command) (update.RuntimeConfig, error) {
	if err := update.LoadDotEnv(flagEnvFile); err != nil {
		return update.RuntimeConfig{}, err
	}
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	if flagDemo {
		cfg.Demo = true
	}
	if flagNoJournal {
		cfg.JournalEnabled = false
	}
	return cfg, nil
}

func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "taskboard")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return func() { _ = f.Close() }, nil
}

func run(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	store := board.New(board.WithEventBuffer(cfg.EventBuffer))
	if cfg.Demo {
		if err := seedDemo(store, time.Now()); err != nil {
			return fmt.Errorf("seed demo board: %w", err)
		}
	}

	var repo storage.Repository
	if cfg.JournalEnabled {
		r, err := storage.OpenMemory(cmd.Context())
		if err != nil {
			return fmt.Errorf("open activity journal: %w", err)
		}
		defer r.Close()
		repo = r
	}

	program := tea.NewProgram(update.NewModel(store, repo, cfg), tea.WithAltScreen())

	if repo != nil {
		events := store.Subscribe()
		rec, err := journal.NewRecorder(repo, events, journal.Options{
			Limit: cfg.JournalLimit,
			OnRecord: func(a storage.Activity) {
				program.Send(update.ActivityRecordedMsg{Entry: a})
			},
		})
		if err != nil {
			store.Unsubscribe(events)
			return err
		}
		rec.Start()
		defer func() {
			rec.Stop()
			store.Unsubscribe(events)
			log.Printf("journal: recorded=%d failed=%d dropped=%d", rec.Recorded(), rec.Failed(), store.Dropped())
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("taskboard failed: %w", err)
	}
	return nil
}
