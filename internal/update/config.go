package update

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

type RuntimeConfig struct {
	JournalEnabled bool
	JournalLimit   int
	EventBuffer    int
	LogFile        string
	WeekStart      time.Weekday
	Demo           bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		JournalEnabled: true,
		JournalLimit:   500,
		EventBuffer:    64,
		WeekStart:      time.Monday,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvBool("TASKBOARD_JOURNAL"); ok {
		cfg.JournalEnabled = v
	}
	if v, ok := getEnvInt("TASKBOARD_JOURNAL_LIMIT"); ok && v >= 0 {
		cfg.JournalLimit = v
	}
	if v, ok := getEnvInt("TASKBOARD_EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKBOARD_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v, ok := getEnvWeekday("TASKBOARD_WEEK_START"); ok {
		cfg.WeekStart = v
	}
	if v, ok := getEnvBool("TASKBOARD_DEMO"); ok {
		cfg.Demo = v
	}
	return cfg
}

// LoadDotEnv loads variables from path without overriding ones already set.
// An empty path means ./.env, which may be absent; an explicit path must exist.
func LoadDotEnv(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("update: load env file %s: %w", path, err)
	}
	return nil
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(raw string) (time.Weekday, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return d, true
		}
	}
	return time.Sunday, false
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

func getEnvWeekday(name string) (time.Weekday, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return time.Sunday, false
	}
	return ParseWeekday(raw)
}
