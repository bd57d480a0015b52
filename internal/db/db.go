package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alumni/internal/models"
	"alumni/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sample account created by SeedSample on an empty database.
const (
	SampleName     = "Sample Alumni"
	SampleEmail    = "sample@example.com"
	SamplePassword = "password"
	SampleBatch    = "2020"
	SampleCompany  = "ABC Corp"
)

// Options describes how to reach the relational store.
type Options struct {
	Driver   string // sqlite, postgres or mysql
	DSN      string // file path for sqlite
	Location *time.Location
	Logger   *logrus.Logger
}

// Open connects to the configured store. The returned handle is the only
// persistence context of the process and is passed explicitly to services.
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	gcfg := &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().In(loc) },
		Logger:         logger.Discard,
		TranslateError: true,
	}
	if opts.Logger != nil {
		gcfg.Logger = NewGormLogger(opts.Logger, 200*time.Millisecond)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.Driver == "sqlite" {
		if err := tuneSQLite(db, opts.DSN); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		if !isMemoryDSN(dsn) && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// sqlite allows one writer at a time; a single connection also keeps an
// in-memory database alive for the lifetime of the handle.
func tuneSQLite(db *gorm.DB, dsn string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if !isMemoryDSN(dsn) {
		if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return fmt.Errorf("enable wal: %w", err)
		}
	}
	return nil
}

// Migrate creates missing tables and indexes. Safe to run repeatedly.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedSample inserts the sample account when the users table is empty.
// It reports whether the account was created by this call.
func SeedSample(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := utils.HashPassword(SamplePassword)
	if err != nil {
		return false, err
	}
	sample := models.User{
		Name:         SampleName,
		Email:        SampleEmail,
		PasswordHash: hash,
		Batch:        SampleBatch,
		Company:      SampleCompany,
		ProfileImage: models.DefaultProfileImage,
	}
	if err := db.WithContext(ctx).Create(&sample).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another request seeded first
			return false, nil
		}
		return false, fmt.Errorf("create sample user: %w", err)
	}
	return true, nil
}
