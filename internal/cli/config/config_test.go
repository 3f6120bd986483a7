package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf-dev/bookshelf/internal/storage"
)

var envKeys = []string{
	"BOOKSHELF_API_URL",
	"BOOKSHELF_ADMIN_EMAIL",
	"BOOKSHELF_STORAGE",
	"BOOKSHELF_STORAGE_PATH",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// isolate runs the test in an empty directory with a fresh HOME and none of
// the config variables set.
func isolate(t *testing.T) string {
	t.Helper()

	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	chdir(t, dir)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.API.Timeout)
	assert.Equal(t, "admin@gmail.com", cfg.AdminEmail)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, ".config", "bookshelf", "storage.db"), cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_YAMLFromParentDirectory(t *testing.T) {
	isolate(t)

	root, err := os.Getwd()
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, ConfigFileName), `
api:
  url: https://books.example.com/
  timeout: 5s
admin_email: owner@example.com
storage:
  backend: keyring
logging:
  level: debug
  format: json
`)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://books.example.com", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "owner@example.com", cfg.AdminEmail)
	assert.Equal(t, storage.BackendKeyring, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Path, "keyring backend has no file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)

	writeFile(t, ConfigFileName, "api:\n  url: http://from-file:8080\n")
	t.Setenv("BOOKSHELF_API_URL", "http://from-env:9090")
	t.Setenv("BOOKSHELF_STORAGE_PATH", "/tmp/bookshelf-test.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:9090", cfg.API.URL)
	assert.Equal(t, "/tmp/bookshelf-test.db", cfg.Storage.Path)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)

	writeFile(t, ".env", "BOOKSHELF_ADMIN_EMAIL=boss@example.com\n")
	t.Cleanup(func() { os.Unsetenv("BOOKSHELF_ADMIN_EMAIL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "boss@example.com", cfg.AdminEmail)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{name: "bad scheme", yaml: "api:\n  url: ftp://x\n", contains: "must start with http:// or https://"},
		{name: "bad backend", yaml: "storage:\n  backend: redis\n", contains: "invalid storage backend"},
		{name: "negative timeout", yaml: "api:\n  timeout: -1s\n", contains: "timeout must not be negative"},
		{name: "malformed yaml", yaml: "api: [", contains: "failed to parse config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			writeFile(t, ConfigFileName, tt.yaml)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestFindConfigFile_NotFound(t *testing.T) {
	isolate(t)

	_, err := FindConfigFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bookshelf.yaml not found")
}
