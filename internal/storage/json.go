package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
)

const (
	exportsDir     = "exports"
	snapshotFile   = "workspace.json"
	recentFile     = "recent.json"
	maxRecent      = 10
	filePermission = 0644
	dirPermission  = 0755
)

// JSONRepository implements Repository using JSON files
type JSONRepository struct {
	basePath string
	logger   *slog.Logger
}

// NewJSONRepository creates a new JSON-based storage repository
func NewJSONRepository(basePath string, logger *slog.Logger) *JSONRepository {
	return &JSONRepository{
		basePath: basePath,
		logger:   logger,
	}
}

// SaveSnapshot writes the autosaved workspace to disk atomically.
func (r *JSONRepository) SaveSnapshot(doc domain.ExportDocument) error {
	if err := r.ensureBaseDir(); err != nil {
		return fmt.Errorf("ensure base directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := r.snapshotPath()
	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	r.logger.Debug("saved snapshot",
		slog.Int("activities", len(doc.Activities)),
		slog.Int("folders", len(doc.Folders)))

	return nil
}

// LoadSnapshot reads the autosaved workspace. Returns (nil, nil) when no
// snapshot has been written yet.
func (r *JSONRepository) LoadSnapshot() (*domain.ExportDocument, error) {
	data, err := os.ReadFile(r.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	var doc domain.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	r.logger.Debug("loaded snapshot",
		slog.Int("activities", len(doc.Activities)),
		slog.Int("folders", len(doc.Folders)))

	return &doc, nil
}

// SaveExport saves a named workspace export to a JSON file
func (r *JSONRepository) SaveExport(name string, doc domain.ExportDocument) error {
	if err := validateExportName(name); err != nil {
		return fmt.Errorf("invalid export name: %w", err)
	}
	if err := r.ensureExportsDir(); err != nil {
		return fmt.Errorf("ensure exports directory: %w", err)
	}

	path := r.exportPath(name)
	if err := r.verifyPathInExportsDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	r.logger.Debug("saved export",
		slog.String("name", name),
		slog.String("path", path))

	return nil
}

// LoadExport loads a named workspace export from a JSON file
func (r *JSONRepository) LoadExport(name string) (*domain.ExportDocument, error) {
	if err := validateExportName(name); err != nil {
		return nil, fmt.Errorf("invalid export name: %w", err)
	}
	path := r.exportPath(name)
	if err := r.verifyPathInExportsDir(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("export %q not found", name)
		}
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var doc domain.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal export: %w", err)
	}

	r.logger.Debug("loaded export",
		slog.String("name", name),
		slog.String("path", path))

	return &doc, nil
}

// ListExports returns names of all saved exports
func (r *JSONRepository) ListExports() ([]string, error) {
	exportsPath := filepath.Join(r.basePath, exportsDir)

	// If directory doesn't exist, return empty list (not an error)
	if _, err := os.Stat(exportsPath); os.IsNotExist(err) {
		r.logger.Debug("exports directory does not exist, returning empty list")
		return []string{}, nil
	}

	entries, err := os.ReadDir(exportsPath)
	if err != nil {
		return nil, fmt.Errorf("read exports directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".json" {
			// Remove .json extension
			name := entry.Name()[:len(entry.Name())-5]
			names = append(names, name)
		}
	}

	r.logger.Debug("listed exports", slog.Int("count", len(names)))
	return names, nil
}

// DeleteExport removes an export file
func (r *JSONRepository) DeleteExport(name string) error {
	if err := validateExportName(name); err != nil {
		return fmt.Errorf("invalid export name: %w", err)
	}
	path := r.exportPath(name)
	if err := r.verifyPathInExportsDir(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("export %q not found", name)
		}
		return fmt.Errorf("delete export file: %w", err)
	}

	r.logger.Debug("deleted export",
		slog.String("name", name),
		slog.String("path", path))

	return nil
}

// SaveRecentSyncTarget adds a sync target to the recent list
func (r *JSONRepository) SaveRecentSyncTarget(target domain.SyncTarget) error {
	if err := r.ensureBaseDir(); err != nil {
		return fmt.Errorf("ensure base directory: %w", err)
	}

	recent, err := r.loadRecentList()
	if err != nil {
		return fmt.Errorf("load recent sync targets: %w", err)
	}

	// Remove duplicate if exists
	recent = removeDuplicateTarget(recent, target)

	// Add to front
	recent = append([]domain.SyncTarget{target}, recent...)

	// Trim to max size
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}

	if err := r.saveRecentList(recent); err != nil {
		return fmt.Errorf("save recent sync targets: %w", err)
	}

	r.logger.Debug("saved recent sync target",
		slog.String("target", target.String()))

	return nil
}

// GetRecentSyncTargets returns the list of recent sync targets
func (r *JSONRepository) GetRecentSyncTargets() ([]domain.SyncTarget, error) {
	recent, err := r.loadRecentList()
	if err != nil {
		return nil, fmt.Errorf("load recent sync targets: %w", err)
	}

	r.logger.Debug("loaded recent sync targets", slog.Int("count", len(recent)))
	return recent, nil
}

// ClearRecentSyncTargets removes all recent sync targets
func (r *JSONRepository) ClearRecentSyncTargets() error {
	path := r.recentPath()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			// Already clear, not an error
			return nil
		}
		return fmt.Errorf("delete recent sync targets file: %w", err)
	}

	r.logger.Debug("cleared recent sync targets")
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file
// in the same directory, syncing, then renaming over the target path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	// Clean up temp file on any failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// validateExportName checks that an export name is safe for use as a filename.
func validateExportName(name string) error {
	if name == "" {
		return fmt.Errorf("export name must not be empty")
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("export name must not contain %q", "..")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("export name must not contain path separators")
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("export name must not contain null bytes")
	}
	return nil
}

// Helper methods

func (r *JSONRepository) ensureBaseDir() error {
	if err := os.MkdirAll(r.basePath, dirPermission); err != nil {
		return fmt.Errorf("create base directory: %w", err)
	}
	return nil
}

func (r *JSONRepository) ensureExportsDir() error {
	path := filepath.Join(r.basePath, exportsDir)
	if err := os.MkdirAll(path, dirPermission); err != nil {
		return fmt.Errorf("create exports directory: %w", err)
	}
	return nil
}

func (r *JSONRepository) snapshotPath() string {
	return filepath.Join(r.basePath, snapshotFile)
}

func (r *JSONRepository) exportPath(name string) string {
	return filepath.Join(r.basePath, exportsDir, name+".json")
}

// verifyPathInExportsDir checks that the resolved path is within the exports directory.
// This is a defense-in-depth check complementing validateExportName.
func (r *JSONRepository) verifyPathInExportsDir(path string) error {
	exportsBase := filepath.Join(r.basePath, exportsDir)
	rel, err := filepath.Rel(exportsBase, path)
	if err != nil {
		return fmt.Errorf("path outside exports directory: %w", err)
	}
	if strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q escapes exports directory", path)
	}
	return nil
}

func (r *JSONRepository) recentPath() string {
	return filepath.Join(r.basePath, recentFile)
}

func (r *JSONRepository) loadRecentList() ([]domain.SyncTarget, error) {
	path := r.recentPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, return empty list
			return []domain.SyncTarget{}, nil
		}
		return nil, fmt.Errorf("read recent file: %w", err)
	}

	var recent []domain.SyncTarget
	if err := json.Unmarshal(data, &recent); err != nil {
		return nil, fmt.Errorf("unmarshal recent sync targets: %w", err)
	}

	return recent, nil
}

func (r *JSONRepository) saveRecentList(recent []domain.SyncTarget) error {
	data, err := json.MarshalIndent(recent, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal recent sync targets: %w", err)
	}

	path := r.recentPath()
	if err := atomicWriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write recent file: %w", err)
	}

	return nil
}

func removeDuplicateTarget(recent []domain.SyncTarget, target domain.SyncTarget) []domain.SyncTarget {
	var filtered []domain.SyncTarget
	for _, t := range recent {
		if !t.Equal(target) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
