package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/vancomm/yourssweeper/internal/mines"
)

const EnvPrefix = "SWEEPER"

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Ledger struct {
	Backend     string `mapstructure:"backend"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

type Config struct {
	Development bool     `mapstructure:"development"`
	Addr        string   `mapstructure:"addr"`
	Difficulty  string   `mapstructure:"difficulty"`
	CorsOrigins []string `mapstructure:"cors_origins"`
	Log         Log      `mapstructure:"log"`
	Ledger      Ledger   `mapstructure:"ledger"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("development", false)
	v.SetDefault("addr", ":8080")
	v.SetDefault("difficulty", "easy")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("ledger.backend", BackendFile)
	v.SetDefault("ledger.path", "highscores.txt")
	v.SetDefault("ledger.database_url", "")
}

// Load reads defaults, then the file at path if it is not empty, then
// SWEEPER_* environment variables. The result is validated.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

func LoadFs(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := c.StartDifficulty(); err != nil {
		errs = append(errs, fmt.Errorf("difficulty: %w", err))
	}
	switch c.Ledger.Backend {
	case BackendFile, BackendSQLite:
		if c.Ledger.Path == "" {
			errs = append(errs, fmt.Errorf("ledger.path is required by the %s backend", c.Ledger.Backend))
		}
	case BackendPostgres:
		if c.Ledger.DatabaseURL == "" {
			errs = append(errs, errors.New("ledger.database_url is required by the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ledger.backend %q", c.Ledger.Backend))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) StartDifficulty() (mines.Difficulty, error) {
	return mines.LookupDifficulty(c.Difficulty)
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"development":    c.Development,
		"addr":           c.Addr,
		"difficulty":     c.Difficulty,
		"cors_origins":   c.CorsOrigins,
		"log_level":      c.Log.Level,
		"log_file":       c.Log.File,
		"ledger_backend": c.Ledger.Backend,
		"ledger_path":    c.Ledger.Path,
		"ledger_db_set":  c.Ledger.DatabaseURL != "",
	}
}
