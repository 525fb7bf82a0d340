package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "cardcrawl/pkg/errors"
)

// Manager writes card images into a single output directory
type Manager struct {
	outputDir string
	extension string
	created   bool

	mu    sync.Mutex
	saved int
}

// NewManager prepares outputDir, creating it when missing.
// extension is appended to every stored name and must include the dot.
func NewManager(outputDir, extension string) (*Manager, error) {
	created, err := EnsureDir(outputDir)
	if err != nil {
		return nil, err
	}

	return &Manager{
		outputDir: outputDir,
		extension: extension,
		created:   created,
	}, nil
}

// OpenExisting returns a manager for outputDir without touching the filesystem.
// Use it to inspect stored files; Save fails if the directory is missing.
func OpenExisting(outputDir, extension string) *Manager {
	return &Manager{outputDir: outputDir, extension: extension}
}

// EnsureDir creates dir if needed and reports whether it had to
func EnsureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, apperrors.Storage("create output directory", fmt.Errorf("%s is not a directory", dir))
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, apperrors.Storage("create output directory", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, apperrors.Storage("create output directory", err)
	}
	return true, nil
}

// Created reports whether NewManager had to create the output directory
func (m *Manager) Created() bool {
	return m.created
}

// Path returns where name is stored
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name+m.extension)
}

// Exists reports whether name is already on disk
func (m *Manager) Exists(name string) bool {
	info, err := os.Stat(m.Path(name))
	return err == nil && !info.IsDir()
}

// Save writes body as the exact content of name plus the extension.
// Data goes to a temporary file first so a failed write never leaves a
// partial image behind.
func (m *Manager) Save(name string, body []byte) error {
	if err := validateName(name); err != nil {
		return apperrors.Storage("save", err)
	}

	filename := m.Path(name)

	tmp, err := os.CreateTemp(m.outputDir, "."+name+"-*.tmp")
	if err != nil {
		return apperrors.Storage("create temporary file", err)
	}
	tempFile := tmp.Name()

	_, err = tmp.Write(body)
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tempFile)
		return apperrors.Storage("write image", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return apperrors.Storage("close image", closeErr)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return apperrors.Storage("chmod image", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return apperrors.Storage("rename temporary file", err)
	}

	m.mu.Lock()
	m.saved++
	m.mu.Unlock()

	return nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("file name %q contains a path separator", name)
	}
	return nil
}

// SavedCount returns how many files this manager has written
func (m *Manager) SavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}
