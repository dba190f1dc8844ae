package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g. PHARMDRILL_DATA_PATH.
const EnvPrefix = "PHARMDRILL"

const appDir = "pharmdrill"

// Config holds application configuration loaded from file, .env, environment and flags.
type Config struct {
	Env          string   `mapstructure:"env"`           // local, production
	LogLevel     string   `mapstructure:"log_level"`     // debug, info, warn, error
	LogFile      string   `mapstructure:"log_file"`      // log destination; the TUI owns stdout
	DataPath     string   `mapstructure:"data_path"`     // drug table, .csv or .xlsx
	Sheet        string   `mapstructure:"sheet"`         // worksheet name for spreadsheets
	ProgressPath string   `mapstructure:"progress_path"` // JSON progress document
	ExportDir    string   `mapstructure:"export_dir"`    // where progress exports land
	EventsDB     string   `mapstructure:"events_db"`     // SQLite attempt log, empty disables it
	Matching     Matching `mapstructure:"matching"`
}

// Matching tunes the matching game board.
type Matching struct {
	MaxPairs     int           `mapstructure:"max_pairs"`
	ResolveDelay time.Duration `mapstructure:"resolve_delay"`
	FlashDelay   time.Duration `mapstructure:"flash_delay"`
}

// Options controls where Load looks.
type Options struct {
	// ConfigFile is an explicit config path; empty searches the working
	// directory and the data directory for pharmdrill.yaml.
	ConfigFile string
	// EnvFile is loaded into the process environment if present.
	EnvFile string
	// Flags are bound over every other source. Recognised names: data,
	// sheet, progress, db, export-dir, log-file.
	Flags *pflag.FlagSet
}

var flagKeys = map[string]string{
	"data":       "data_path",
	"sheet":      "sheet",
	"progress":   "progress_path",
	"db":         "events_db",
	"export-dir": "export_dir",
	"log-file":   "log_file",
}

// DataDir returns $XDG_DATA_HOME/pharmdrill, falling back to ~/.local/share.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appDir), nil
}

// Load reads configuration. Precedence, highest first: flags, environment
// (including .env), config file, defaults.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(appDir)
		v.AddConfigPath(".")
		v.AddConfigPath(dataDir)
	}

	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dataDir, "pharmdrill.log"))
	v.SetDefault("data_path", filepath.Join(dataDir, "drugs.csv"))
	v.SetDefault("sheet", "")
	v.SetDefault("progress_path", filepath.Join(dataDir, "study_progress.json"))
	v.SetDefault("export_dir", ".")
	v.SetDefault("events_db", filepath.Join(dataDir, "events.db"))
	v.SetDefault("matching.max_pairs", 8)
	v.SetDefault("matching.resolve_delay", "500ms")
	v.SetDefault("matching.flash_delay", "1s")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the study modes cannot run with.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.New("config: data_path is required")
	}
	if c.ProgressPath == "" {
		return errors.New("config: progress_path is required")
	}
	if c.Matching.MaxPairs < 1 {
		return fmt.Errorf("config: matching.max_pairs must be positive, got %d", c.Matching.MaxPairs)
	}
	if c.Matching.ResolveDelay < 0 || c.Matching.FlashDelay < 0 {
		return errors.New("config: matching delays must not be negative")
	}
	return nil
}

// Production reports whether the production profile is active.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}
