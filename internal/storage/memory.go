package storage

import (
	"fmt"
	"sync"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
)

// MemoryRepository implements Repository using in-memory storage for tests
type MemoryRepository struct {
	snapshot *domain.ExportDocument
	exports  map[string]domain.ExportDocument
	recent   []domain.SyncTarget
	mu       sync.RWMutex
}

// NewMemoryRepository creates a new in-memory storage repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		exports: make(map[string]domain.ExportDocument),
		recent:  []domain.SyncTarget{},
	}
}

// SaveSnapshot stores the workspace snapshot in memory
func (m *MemoryRepository) SaveSnapshot(doc domain.ExportDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = &doc
	return nil
}

// LoadSnapshot retrieves the workspace snapshot, nil if none saved
func (m *MemoryRepository) LoadSnapshot() (*domain.ExportDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return nil, nil
	}
	doc := *m.snapshot
	return &doc, nil
}

// SaveExport stores a named export in memory
func (m *MemoryRepository) SaveExport(name string, doc domain.ExportDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exports[name] = doc
	return nil
}

// LoadExport retrieves a named export from memory
func (m *MemoryRepository) LoadExport(name string) (*domain.ExportDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.exports[name]
	if !ok {
		return nil, fmt.Errorf("export %q not found", name)
	}

	return &doc, nil
}

// ListExports returns names of all stored exports
func (m *MemoryRepository) ListExports() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.exports))
	for name := range m.exports {
		names = append(names, name)
	}

	return names, nil
}

// DeleteExport removes an export from memory
func (m *MemoryRepository) DeleteExport(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.exports[name]; !ok {
		return fmt.Errorf("export %q not found", name)
	}

	delete(m.exports, name)
	return nil
}

// SaveRecentSyncTarget adds a sync target to the recent list
func (m *MemoryRepository) SaveRecentSyncTarget(target domain.SyncTarget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Remove duplicate if exists
	m.recent = removeDuplicateTarget(m.recent, target)

	// Add to front
	m.recent = append([]domain.SyncTarget{target}, m.recent...)

	// Trim to max size
	if len(m.recent) > maxRecent {
		m.recent = m.recent[:maxRecent]
	}

	return nil
}

// GetRecentSyncTargets returns the list of recent sync targets
func (m *MemoryRepository) GetRecentSyncTargets() ([]domain.SyncTarget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	recent := make([]domain.SyncTarget, len(m.recent))
	copy(recent, m.recent)

	return recent, nil
}

// ClearRecentSyncTargets removes all recent sync targets
func (m *MemoryRepository) ClearRecentSyncTargets() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recent = []domain.SyncTarget{}
	return nil
}
