// Package database manages the single-file SQLite store behind the ledger.
// The Manager owns the live GORM handle; callers always go through DB() so
// that backup and restore can close the file, swap it, and reopen without
// anyone holding a stale connection.
package database

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/migrations"
)

// sqliteMagic is the 16-byte header every valid SQLite database file starts with.
var sqliteMagic = []byte("SQLite format 3\x00")

// Manager handles the lifecycle of the SQLite store.
type Manager struct {
	mu   sync.RWMutex
	db   *gorm.DB
	path string
}

// NewManager opens (or creates) the store at path.
func NewManager(path string) (*Manager, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	m := &Manager{path: path}
	if err := m.openLocked(); err != nil {
		return nil, err
	}
	return m, nil
}

// openLocked opens the GORM handle. Callers must hold the write lock (or be
// the only goroutine with access, as in NewManager).
func (m *Manager) openLocked() error {
	dsn := m.path + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	m.db = db
	return nil
}

// DB returns the current GORM handle. The handle is only valid until the next
// restore; services should fetch it per operation rather than caching it.
func (m *Manager) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Path returns the location of the store file.
func (m *Manager) Path() string {
	return m.path
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	m.db = nil
	return nil
}

// Migrate applies pending embedded SQL migrations. It runs on a dedicated
// connection so closing the migrate instance never touches the live pool.
func (m *Manager) Migrate() error {
	logger.Get().Info("Running database migrations...")

	src, err := iofs.New(migrations.Files, ".")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	conn, err := sql.Open("sqlite3", m.path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	mig, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

// Backup copies the store file to dst. The connection pool is closed for the
// duration of the copy so the file is never read mid-write, then reopened.
func (m *Manager) Backup(dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.Wrap(apperrors.ErrIO, err)
		}
	}

	if err := m.closeLocked(); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err)
	}
	copyErr := copyFile(m.path, dst)
	if err := m.openLocked(); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err)
	}
	if copyErr != nil {
		return apperrors.Wrap(apperrors.ErrIO, copyErr)
	}

	logger.Get().Infow("backup created", "path", dst)
	return nil
}

// Restore replaces the live store with the backup at src. The backup is
// validated and staged next to the live file first, so a failure at any point
// leaves the live store untouched; the swap itself is a single rename.
func (m *Manager) Restore(src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := validateStoreFile(src); err != nil {
		return err
	}

	staged := m.path + ".restore"
	if err := copyFile(src, staged); err != nil {
		_ = os.Remove(staged)
		return apperrors.Wrap(apperrors.ErrIO, err)
	}

	if err := m.closeLocked(); err != nil {
		_ = os.Remove(staged)
		return apperrors.Wrap(apperrors.ErrIO, err)
	}

	renameErr := os.Rename(staged, m.path)
	if renameErr != nil {
		_ = os.Remove(staged)
	}
	if err := m.openLocked(); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err)
	}
	if renameErr != nil {
		return apperrors.Wrap(apperrors.ErrIO, renameErr)
	}

	logger.Get().Infow("backup restored", "path", src)
	return nil
}

// validateStoreFile checks that path exists and carries the SQLite header.
func validateStoreFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return apperrors.WithMessage(apperrors.ErrIO, "backup file is not a valid store")
	}
	if !bytes.Equal(header, sqliteMagic) {
		return apperrors.WithMessage(apperrors.ErrIO, "backup file is not a valid store")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
