package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/bookshelf-dev/bookshelf/internal/models"
)

// SQLite stores items in a single-file SQLite database
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it
func OpenSQLite(path string) (*SQLite, error) {
	const busyTimeout = 5000 // 5 seconds

	if path == "" {
		return nil, fmt.Errorf("storage path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// One writer is all a CLI process needs
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout)).Error; err != nil {
		return nil, fmt.Errorf("failed to apply pragma: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) GetItem(ctx context.Context, key string) (string, error) {
	var item models.StorageItem
	if err := models.FindByKey(s.db.WithContext(ctx), key, &item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return item.Value, nil
}

func (s *SQLite) SetItem(ctx context.Context, key, value string) error {
	item := models.StorageItem{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) RemoveItem(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where(map[string]any{"key": key}).Delete(&models.StorageItem{}).Error; err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.StorageItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
