package storage

import "github.com/Apollo-Blaze/CallSensei/internal/domain"

// Repository defines persistence operations for CallSensei
type Repository interface {
	// Snapshot operations. The snapshot is the single autosaved copy of
	// the live workspace, restored on startup. LoadSnapshot returns
	// (nil, nil) when no snapshot exists yet.
	SaveSnapshot(doc domain.ExportDocument) error
	LoadSnapshot() (*domain.ExportDocument, error)

	// Named export operations
	SaveExport(name string, doc domain.ExportDocument) error
	LoadExport(name string) (*domain.ExportDocument, error)
	ListExports() ([]string, error)
	DeleteExport(name string) error

	// Recent GitHub sync targets
	SaveRecentSyncTarget(target domain.SyncTarget) error
	GetRecentSyncTargets() ([]domain.SyncTarget, error)
	ClearRecentSyncTargets() error
}
