// Package backup keeps copies of ID list files before they are overwritten.
//
// Backups of <dir>/<name> live in <dir>/nanogen_backups and are named
// <name>_<UTC timestamp>_<id>, so lexical order is chronological order.
package backup

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/eduardolat/nanogen/internal/nanoid"
)

const (
	// BackupDirName is the name of the backup directory, created next to the backed up file
	BackupDirName = "nanogen_backups"
	// BackupDirMode is the permission mode for the backup directory
	BackupDirMode = 0700
	// BackupFileMode is the permission mode for backup files
	BackupFileMode = 0600

	timestampLayout = "20060102_150405"
	backupIDLength  = 6
)

// Manager creates and prunes backups
type Manager struct {
	newID func() (string, error)
	now   func() time.Time
}

// New creates a new backup Manager
func New() *Manager {
	return NewWithDeps(backupID, time.Now)
}

// NewWithDeps creates a new backup Manager with custom dependencies (for testing)
func NewWithDeps(idGen func() (string, error), timeNow func() time.Time) *Manager {
	return &Manager{newID: idGen, now: timeNow}
}

func backupID() (string, error) {
	return nanoid.Generate(rand.Reader, nanoid.Lowercase, backupIDLength)
}

func backupDir(path string) string {
	return filepath.Join(filepath.Dir(path), BackupDirName)
}

// backupPrefix is the filename prefix shared by every backup of path.
func backupPrefix(path string) string {
	return filepath.Base(path) + "_"
}

// CreateBackup copies the file at path into the backup directory and returns
// the backup path. Missing or empty files are not backed up and yield "".
func (m *Manager) CreateBackup(path string) (string, error) {
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	case len(content) == 0:
		return "", nil
	}

	dir := backupDir(path)
	if err := ensureDir(dir); err != nil {
		return "", err
	}

	id, err := m.newID()
	if err != nil {
		return "", fmt.Errorf("failed to generate backup ID: %w", err)
	}
	name := backupPrefix(path) + m.now().UTC().Format(timestampLayout) + "_" + id
	dst := filepath.Join(dir, name)

	if err := writeSynced(dst, content); err != nil {
		return "", err
	}
	return dst, nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.Mkdir(dir, BackupDirMode); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat backup directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup path exists but is not a directory: %s", dir)
	}
	return nil
}

// writeSynced writes content to a new file at dst and flushes it to disk
func writeSynced(dst string, content []byte) (err error) {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, BackupFileMode)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close backup file: %w", cerr)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync backup file: %w", err)
	}
	return nil
}

// List returns the backup file names of path, oldest first
func (m *Manager) List(path string) ([]string, error) {
	entries, err := os.ReadDir(backupDir(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	prefix := backupPrefix(path)
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// RotateBackups deletes the oldest backups of path until at most
// retentionCount remain, and returns the deleted names.
func (m *Manager) RotateBackups(path string, retentionCount int) ([]string, error) {
	if retentionCount < 0 {
		return nil, errors.New("retention count cannot be negative")
	}

	names, err := m.List(path)
	if err != nil {
		return nil, err
	}
	if len(names) <= retentionCount {
		return nil, nil
	}

	stale := names[:len(names)-retentionCount]
	deleted := make([]string, 0, len(stale))
	for _, name := range stale {
		if err := os.Remove(filepath.Join(backupDir(path), name)); err != nil {
			return deleted, fmt.Errorf("failed to remove backup %s: %w", name, err)
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// ManagerProvider is an interface for backup management
type ManagerProvider interface {
	CreateBackup(path string) (string, error)
	RotateBackups(path string, retentionCount int) ([]string, error)
}
