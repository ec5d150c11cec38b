package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/apiqa/testforge/internal/models"
)

// MemoryStorage implements Storage with an in-memory map.
type MemoryStorage struct {
	mu     sync.RWMutex
	suites map[string]*models.SuiteRecord
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		suites: make(map[string]*models.SuiteRecord),
	}
}

// SaveSuite stores a suite record
func (m *MemoryStorage) SaveSuite(record *models.SuiteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.suites[record.ID]; exists {
		return fmt.Errorf("suite with ID %s already exists", record.ID)
	}

	m.suites[record.ID] = record
	return nil
}

// GetSuite retrieves a suite record by ID
func (m *MemoryStorage) GetSuite(id string) (*models.SuiteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.suites[id]
	if !exists {
		return nil, fmt.Errorf("suite not found: %s", id)
	}

	return record, nil
}

// ListSuites retrieves all suite records, newest first.
func (m *MemoryStorage) ListSuites() ([]*models.SuiteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*models.SuiteRecord, 0, len(m.suites))
	for _, record := range m.suites {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})

	return records, nil
}

// DeleteSuite deletes a suite record
func (m *MemoryStorage) DeleteSuite(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.suites[id]; !exists {
		return fmt.Errorf("suite not found: %s", id)
	}

	delete(m.suites, id)
	return nil
}

// Close closes the storage (no-op for memory storage)
func (m *MemoryStorage) Close() error {
	return nil
}
