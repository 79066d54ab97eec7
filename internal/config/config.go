package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "ARCHIVE_IMPORT_CONFIG"
	inputDirEnv       = "ARCHIVE_INPUT_DIR"
	databaseDSNEnv    = "DATABASE_DSN"
	databaseDriverEnv = "DATABASE_DRIVER"
	logLevelEnv       = "LOG_LEVEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Database drivers understood by the storage layer.
const (
	DriverMySQL   = "mysql"
	DriverSQLite  = "sqlite"
	DriverSQLDump = "sqldump"
)

var sqlIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config holds high-level settings required across the application.
type Config struct {
	Input         InputConfig        `yaml:"input"`
	Database      DatabaseConfig     `yaml:"database"`
	Tokenizer     TokenizerConfig    `yaml:"tokenizer"`
	Classifier    ClassifierConfig   `yaml:"classifier"`
	Logging       LoggingConfig      `yaml:"logging"`
	Notifications NotificationConfig `yaml:"notifications"`
	Metrics       MetricsConfig      `yaml:"metrics"`
	Watch         WatchConfig        `yaml:"watch"`
}

// InputConfig locates the documents and the bucket directories.
// Buckets are created as _processed, _ignored and _erroneous below ProjectDir.
type InputConfig struct {
	Dir        string `yaml:"dir" validate:"required"`
	ProjectDir string `yaml:"projectDir" validate:"required"`
	Extension  string `yaml:"extension" validate:"required,startswith=."`
}

// DatabaseConfig describes the persistence sink.
type DatabaseConfig struct {
	Driver      string `yaml:"driver" validate:"required,oneof=mysql sqlite sqldump"`
	DSN         string `yaml:"dsn" validate:"required"`
	Table       string `yaml:"table" validate:"required,sqlident"`
	CreateTable bool   `yaml:"createTable"`
}

// TokenizerConfig selects the BPE encoding used for token counts.
type TokenizerConfig struct {
	Encoding string `yaml:"encoding" validate:"required"`
}

// ClassifierConfig tunes the editorial rules.
type ClassifierConfig struct {
	PermittedWires []string `yaml:"permittedWires" validate:"required,min=1,dive,required"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string        `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string        `yaml:"format" validate:"omitempty,oneof=text json"`
	File   LogFileConfig `yaml:"file"`
}

// LogFileConfig enables a rotated log file next to stdout.
type LogFileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMb" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"botToken" validate:"required_if=Enabled true"`
	ChatID   string `yaml:"chatId" validate:"required_if=Enabled true"`
	APIURL   string `yaml:"apiUrl" validate:"omitempty,url"`
}

// MetricsConfig points at a node-exporter textfile collector target.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// WatchConfig drives repeated runs in watch mode.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval" validate:"gte=0"`
}

// Load reads YAML configuration (if present), applies environment
// overrides and validates the result. An empty path falls back to
// ARCHIVE_IMPORT_CONFIG.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	cfg.Input.Extension = normalizeExtension(cfg.Input.Extension)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks struct constraints.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentifier.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register validation: %w", err)
	}

	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(inputDirEnv); v != "" {
		c.Input.Dir = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Input.Dir != "" {
		base.Input.Dir = override.Input.Dir
	}
	if override.Input.ProjectDir != "" {
		base.Input.ProjectDir = override.Input.ProjectDir
	}
	if override.Input.Extension != "" {
		base.Input.Extension = override.Input.Extension
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Table != "" {
		base.Database.Table = override.Database.Table
	}
	base.Database.CreateTable = base.Database.CreateTable || override.Database.CreateTable

	if override.Tokenizer.Encoding != "" {
		base.Tokenizer.Encoding = override.Tokenizer.Encoding
	}

	if len(override.Classifier.PermittedWires) > 0 {
		base.Classifier.PermittedWires = override.Classifier.PermittedWires
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}
	if override.Logging.File.Path != "" {
		base.Logging.File = override.Logging.File
	}

	if override.Notifications.Telegram.Enabled {
		base.Notifications.Telegram.Enabled = true
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.APIURL != "" {
		base.Notifications.Telegram.APIURL = override.Notifications.Telegram.APIURL
	}

	if override.Metrics.Textfile != "" {
		base.Metrics.Textfile = override.Metrics.Textfile
	}

	if override.Watch.Interval != 0 {
		base.Watch.Interval = override.Watch.Interval
	}

	return base
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func defaultConfig() Config {
	return Config{
		Input: InputConfig{
			Dir:        "_input",
			ProjectDir: ".",
			Extension:  ".xml",
		},
		Database: DatabaseConfig{
			Driver: DriverMySQL,
			DSN:    "auto1@tcp(localhost:3306)/archive",
			Table:  "archive_llm",
		},
		Tokenizer:  TokenizerConfig{Encoding: "cl100k_base"},
		Classifier: ClassifierConfig{PermittedWires: []string{"P", "K", "N"}},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   LogFileConfig{MaxSizeMB: 50, MaxAgeDays: 30, MaxBackups: 5},
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIURL: "https://api.telegram.org"},
		},
		Watch: WatchConfig{Interval: 15 * time.Minute},
	}
}
