package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/apiqa/testforge/internal/models"
)

// FileStorage implements Storage with one JSON file per suite record,
// backed by an in-memory index loaded at startup.
type FileStorage struct {
	mu       sync.RWMutex
	basePath string
	memory   *MemoryStorage
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(basePath string) (*FileStorage, error) {
	suitesDir := filepath.Join(basePath, "suites")
	if err := os.MkdirAll(suitesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", suitesDir, err)
	}

	fs := &FileStorage{
		basePath: basePath,
		memory:   NewMemoryStorage(),
	}

	if err := fs.loadAll(); err != nil {
		return nil, err
	}

	return fs, nil
}

// loadAll loads all suite records from disk
func (f *FileStorage) loadAll() error {
	suitesDir := filepath.Join(f.basePath, "suites")
	entries, err := os.ReadDir(suitesDir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(suitesDir, entry.Name()))
		if err != nil {
			continue
		}

		var record models.SuiteRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}

		f.memory.suites[record.ID] = &record
	}

	return nil
}

// suitePath returns the on-disk path for a record ID.
func (f *FileStorage) suitePath(id string) string {
	return filepath.Join(f.basePath, "suites", id+".json")
}

// SaveSuite stores a suite record
func (f *FileStorage) SaveSuite(record *models.SuiteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.SaveSuite(record); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(f.suitePath(record.ID), data, 0644)
}

// GetSuite retrieves a suite record by ID
func (f *FileStorage) GetSuite(id string) (*models.SuiteRecord, error) {
	return f.memory.GetSuite(id)
}

// ListSuites retrieves all suite records, newest first.
func (f *FileStorage) ListSuites() ([]*models.SuiteRecord, error) {
	return f.memory.ListSuites()
}

// DeleteSuite deletes a suite record
func (f *FileStorage) DeleteSuite(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.memory.DeleteSuite(id); err != nil {
		return err
	}

	return os.Remove(f.suitePath(id))
}

// Close closes the storage
func (f *FileStorage) Close() error {
	return nil
}
