package storage

import (
	"github.com/apiqa/testforge/internal/models"
)

// Storage defines the interface for the generated-suite archive.
type Storage interface {
	SaveSuite(record *models.SuiteRecord) error
	GetSuite(id string) (*models.SuiteRecord, error)
	ListSuites() ([]*models.SuiteRecord, error)
	DeleteSuite(id string) error

	// Utility
	Close() error
}
