package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName   = "bookshelf"
	storageFileName = "storage.db"
)

// GetConfigDir returns the per-user directory bookshelf keeps its state in
// (~/.config/bookshelf)
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName), nil
}

// DefaultStoragePath returns the path of the local storage database
func DefaultStoragePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, storageFileName), nil
}
