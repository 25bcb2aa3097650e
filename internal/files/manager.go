package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shantanuseth8203/Data-Visualization/internal/config"
	apperrors "github.com/shantanuseth8203/Data-Visualization/internal/errors"
)

// ArchiveDir is the directory below the output directory holding earlier reports
const ArchiveDir = "archive"

// Manager moves report files around inside the output directory
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger}
}

// ArchiveReports moves the files currently in the output directory into
// archive/<timestamp>/ so a new report starts from an empty directory.
// Hidden files and subdirectories are left alone. It returns the archive
// directory, or "" when there was nothing to archive.
func (m *Manager) ArchiveReports(now time.Time) (string, error) {
	entries, err := os.ReadDir(m.paths.OutputDir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewStorageError("failed to list output directory", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return "", nil
	}

	target := filepath.Join(m.paths.OutputDir, ArchiveDir, now.UTC().Format("20060102-150405"))
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create archive directory", err)
	}

	for _, name := range names {
		if err := m.MoveFile(filepath.Join(m.paths.OutputDir, name), filepath.Join(target, name)); err != nil {
			return "", err
		}
	}

	m.logger.Info("Archived previous reports",
		slog.String("archive", target),
		slog.Int("files", len(names)))
	return target, nil
}

// MoveFile moves a file, falling back to copy and delete across devices
func (m *Manager) MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := m.CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to remove %s after copy", src), err)
	}
	return nil
}

// CopyFile copies a file from source to destination
func (m *Manager) CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return apperrors.NewStorageError("failed to create destination directory", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to open %s", src), err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", dst), err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to copy %s", src), err)
	}
	return dstFile.Sync()
}
