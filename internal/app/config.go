package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"devsearch/internal/github"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	configName = "config"
	envPrefix  = "DEVSEARCH"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string          `mapstructure:"home"` // state directory, e.g. $HOME/.devsearch
	Storage   StorageConfig   `mapstructure:"storage"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Log       LogConfig       `mapstructure:"log"`

	HTTP   *http.Client `mapstructure:"-"` // optional; defaults to a client with GitHub.Timeout
	Logger *zap.Logger  `mapstructure:"-"` // optional; defaults to one built from Log
}

// StorageConfig selects where favorites are persisted.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`    // file, sqlite or memory
	Passphrase string `mapstructure:"passphrase"` // non-empty encrypts values at rest
}

// FavoritesConfig tunes the favorites store.
type FavoritesConfig struct {
	AsyncWrites     bool `mapstructure:"async_writes"`
	RedundantWrites bool `mapstructure:"redundant_writes"`
}

// GitHubConfig configures the API client.
type GitHubConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Token           string        `mapstructure:"token"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ReposPerProfile int           `mapstructure:"repos_per_profile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	File    string `mapstructure:"file"`
	Verbose bool   `mapstructure:"verbose"`
}

// NewViper returns a viper instance carrying devsearch's defaults and
// DEVSEARCH_* environment bindings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("home", "")
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.passphrase", "")
	v.SetDefault("favorites.async_writes", false)
	v.SetDefault("favorites.redundant_writes", false)
	v.SetDefault("github.base_url", github.DefaultBaseURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.timeout", 10*time.Second)
	v.SetDefault("github.repos_per_profile", github.DefaultReposPerProfile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.verbose", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultHome returns ~/.devsearch.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".devsearch"), nil
}

// LoadConfig resolves the home directory, merges config.yaml from it when
// present, and decodes the result.
func LoadConfig(v *viper.Viper) (Config, error) {
	home := v.GetString("home")
	if home == "" {
		var err error
		if home, err = DefaultHome(); err != nil {
			return Config{}, err
		}
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	cfg.Home = home
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be wired.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend %q (want %s, %s or %s)",
			c.Storage.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
	if c.Home == "" && c.Storage.Backend != BackendMemory {
		return errors.New("home directory required")
	}
	if c.GitHub.Timeout < 0 {
		return fmt.Errorf("invalid github timeout %s", c.GitHub.Timeout)
	}
	return nil
}
