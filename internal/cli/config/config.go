package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bookshelf-dev/bookshelf/internal/cli/userconfig"
	"github.com/bookshelf-dev/bookshelf/internal/session"
	"github.com/bookshelf-dev/bookshelf/internal/storage"
)

const ConfigFileName = "bookshelf.yaml"

const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config represents the CLI configuration
type Config struct {
	// API is the root URL of the remote catalog API
	API APIConfig `yaml:"api"`

	// AdminEmail is the identity granted the admin role on login
	AdminEmail string `yaml:"admin_email"`

	Storage StorageConfig `yaml:"storage"`

	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig holds the remote API settings
type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects the local storage backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite, keyring
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultHTTPTimeout,
		},
		AdminEmail: session.DefaultAdminEmail,
		Storage: StorageConfig{
			Backend: storage.BackendSQLite,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// FindConfigFile searches for bookshelf.yaml in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", ConfigFileName, currentDir)
}

// Load builds the configuration from defaults, .env files, an optional
// bookshelf.yaml and environment variables, later sources winning.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := DefaultConfig()

	if path, err := FindConfigFile(); err == nil {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.API.URL, "BOOKSHELF_API_URL")
	setFromEnv(&cfg.AdminEmail, "BOOKSHELF_ADMIN_EMAIL")
	setFromEnv(&cfg.Storage.Backend, "BOOKSHELF_STORAGE")
	setFromEnv(&cfg.Storage.Path, "BOOKSHELF_STORAGE_PATH")
	setFromEnv(&cfg.Logging.Level, "LOG_LEVEL")
	setFromEnv(&cfg.Logging.Format, "LOG_FORMAT")
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// finalize validates the merged values and fills in derived defaults
func (c *Config) finalize() error {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	if c.API.URL == "" {
		return fmt.Errorf("api url is empty. Set api.url in %s or BOOKSHELF_API_URL", ConfigFileName)
	}
	if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		return fmt.Errorf("api url %q must start with http:// or https://", c.API.URL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}

	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = storage.BackendSQLite
	case storage.BackendSQLite, storage.BackendKeyring:
	default:
		return fmt.Errorf("invalid storage backend %q, must be one of: %s, %s", c.Storage.Backend, storage.BackendSQLite, storage.BackendKeyring)
	}

	if c.Storage.Backend == storage.BackendSQLite && c.Storage.Path == "" {
		path, err := userconfig.DefaultStoragePath()
		if err != nil {
			return err
		}
		c.Storage.Path = path
	}

	if c.AdminEmail == "" {
		c.AdminEmail = session.DefaultAdminEmail
	}
	return nil
}

// StorageOptions converts the storage section for storage.Open
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend: c.Storage.Backend,
		Path:    c.Storage.Path,
	}
}
