package storage

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/apiqa/testforge/internal/models"
)

func testRecord(id string, createdAt time.Time) *models.SuiteRecord {
	return &models.SuiteRecord{
		ID:            id,
		SpecTitle:     "Test API",
		SpecVersion:   "1.0.0",
		EndpointCount: 2,
		Source:        models.SourceMock,
		CreatedAt:     createdAt,
		Suite:         json.RawMessage(`[]`),
	}
}

func TestNewMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()
	if s == nil {
		t.Fatal("NewMemoryStorage returned nil")
	}
	if s.suites == nil {
		t.Fatal("Storage map not initialized")
	}
}

func TestSaveSuite(t *testing.T) {
	s := NewMemoryStorage()

	record := testRecord("suite-1", time.Now())
	if err := s.SaveSuite(record); err != nil {
		t.Fatalf("SaveSuite failed: %v", err)
	}

	// Try to save duplicate
	if err := s.SaveSuite(record); err == nil {
		t.Error("Expected error when saving duplicate suite")
	}
}

func TestGetSuite(t *testing.T) {
	s := NewMemoryStorage()

	record := testRecord("suite-1", time.Now())
	s.SaveSuite(record)

	got, err := s.GetSuite("suite-1")
	if err != nil {
		t.Fatalf("GetSuite failed: %v", err)
	}
	if got.SpecTitle != "Test API" {
		t.Errorf("Unexpected record: %+v", got)
	}

	if _, err := s.GetSuite("missing"); err == nil {
		t.Error("Expected error for missing suite")
	}
}

func TestListSuites_NewestFirst(t *testing.T) {
	s := NewMemoryStorage()

	base := time.Now()
	s.SaveSuite(testRecord("old", base.Add(-2*time.Hour)))
	s.SaveSuite(testRecord("newest", base))
	s.SaveSuite(testRecord("middle", base.Add(-time.Hour)))

	records, err := s.ListSuites()
	if err != nil {
		t.Fatalf("ListSuites failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	want := []string{"newest", "middle", "old"}
	for i, id := range want {
		if records[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, records[i].ID)
		}
	}
}

func TestDeleteSuite(t *testing.T) {
	s := NewMemoryStorage()

	s.SaveSuite(testRecord("suite-1", time.Now()))

	if err := s.DeleteSuite("suite-1"); err != nil {
		t.Fatalf("DeleteSuite failed: %v", err)
	}
	if _, err := s.GetSuite("suite-1"); err == nil {
		t.Error("Expected suite to be gone")
	}
	if err := s.DeleteSuite("suite-1"); err == nil {
		t.Error("Expected error deleting missing suite")
	}
}

func TestMemoryStorage_Concurrent(t *testing.T) {
	s := NewMemoryStorage()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			s.SaveSuite(testRecord(id, time.Now()))
			s.GetSuite(id)
			s.ListSuites()
		}(i)
	}
	wg.Wait()

	records, _ := s.ListSuites()
	if len(records) != 10 {
		t.Errorf("Expected 10 records, got %d", len(records))
	}
}
