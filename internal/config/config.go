// Package config handles the XDG configuration directory and the secrets file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "orange"

	// SecretsFile holds database credentials and backend selection.
	SecretsFile = "secrets.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// LogFile receives log output while the terminal UI owns the screen.
	LogFile = "orange.log"

	// DBFile is the default SQLite database filename.
	DBFile = "orange.db"
)

// Backend names accepted in secrets.toml.
const (
	BackendPostgres    = "postgres"
	BackendSQLite      = "sqlite"
	BackendGoogleTasks = "googletasks"
)

// PostgreSQL connection constants. Only credentials are configurable.
const (
	DBHost = "localhost"
	DBPort = 5432
)

// ErrConfigUnreadable is returned when the secrets file is missing or
// malformed.
var ErrConfigUnreadable = errors.New("config unreadable")

// DB holds database credentials.
type DB struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// SQLite holds settings for the local file backend.
type SQLite struct {
	Path string `mapstructure:"path"`
}

// Google holds settings for the Google Tasks backend.
type Google struct {
	List string `mapstructure:"list"`
}

// Secrets is the decoded content of secrets.toml.
type Secrets struct {
	Backend string `mapstructure:"backend"`
	DB      DB     `mapstructure:"db"`
	SQLite  SQLite `mapstructure:"sqlite"`
	Google  Google `mapstructure:"google"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Secrets is filled by LoadSecrets.
	Secrets Secrets
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/orange or $HOME/.config/orange.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SecretsPath returns the path to secrets.toml.
func (c *Config) SecretsPath() string {
	return filepath.Join(c.Dir, SecretsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LogPath returns the path of the UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// SQLitePath returns the SQLite database path, relative paths being taken
// from the config directory.
func (c *Config) SQLitePath() string {
	p := c.Secrets.SQLite.Path
	if p == "" {
		return filepath.Join(c.Dir, DBFile)
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(c.Dir, p)
	}
	return p
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// LoadSecrets reads secrets.toml into c.Secrets. Values may be overridden
// by ORANGE_* environment variables (ORANGE_DB_USER, ORANGE_BACKEND, ...).
// A missing or malformed file wraps ErrConfigUnreadable.
func (c *Config) LoadSecrets() error {
	v := viper.New()
	v.SetConfigFile(c.SecretsPath())
	v.SetConfigType("toml")
	v.SetEnvPrefix("ORANGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key visible to Unmarshal so env overrides apply.
	v.SetDefault("backend", BackendPostgres)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("sqlite.path", "")
	v.SetDefault("google.list", "@default")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, c.SecretsPath(), err)
	}

	var s Secrets
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, c.SecretsPath(), err)
	}
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))

	switch s.Backend {
	case BackendPostgres:
		if s.DB.User == "" || s.DB.Password == "" {
			return fmt.Errorf("%w: %s: db.user and db.password are required", ErrConfigUnreadable, c.SecretsPath())
		}
	case BackendSQLite, BackendGoogleTasks:
	default:
		return fmt.Errorf("%w: unknown backend: %s", ErrConfigUnreadable, s.Backend)
	}

	c.Secrets = s
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s",
		DBHost, DBPort, quoteDSN(c.Secrets.DB.User), quoteDSN(c.Secrets.DB.Password))
	if c.Secrets.DB.Name != "" {
		dsn += " dbname=" + quoteDSN(c.Secrets.DB.Name)
	}
	return dsn
}

// quoteDSN quotes a keyword/value connection string value.
func quoteDSN(s string) string {
	if s != "" && !strings.ContainsAny(s, ` '\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
