package workspace

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
)

// NodeType identifies what kind of tree node a move targets.
type NodeType string

const (
	NodeActivity NodeType = "activity"
	NodeFolder   NodeType = "folder"
)

// ActivityUpdate carries the fields UpdateActivity may change. Nil fields are
// left untouched, so concurrent editors converge last-write-wins per field.
type ActivityUpdate struct {
	URL      *string
	Request  *domain.Request
	Response *domain.Response
}

// Store is the sole owner of the activity/folder collections and the
// selection cursor. All mutation goes through its methods; readers get
// defensive copies. Every completed mutation notifies subscribers
// synchronously, so UI panels re-render from fresh state.
//
// Missing-id mutations are deliberate no-ops: the UI can race a delete
// against a rename without either side having to care.
type Store struct {
	mu         sync.RWMutex
	activities []domain.Activity
	folders    []domain.Folder
	selectedID string

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int

	logger *slog.Logger
}

// NewStore creates an empty workspace store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		subscribers: make(map[int]func()),
		logger:      logger,
	}
}

// Subscribe registers fn to run after every completed mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// notify runs outside the state lock so subscribers can read the store.
func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// AddActivity appends an activity. Adding an id that already exists is a
// validation error and leaves the store unchanged.
func (s *Store) AddActivity(a domain.Activity) error {
	s.mu.Lock()
	if s.indexOfActivity(a.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("activity %q: %w", a.ID, apperrors.ErrDuplicateID)
	}
	s.activities = append(s.activities, a.Clone())
	s.mu.Unlock()

	s.logger.Debug("activity added", slog.String("id", a.ID))
	s.notify()
	return nil
}

// SetSelectedActivity moves the selection cursor. Existence is not checked;
// reads through a stale cursor simply report "not found".
func (s *Store) SetSelectedActivity(id string) {
	s.mu.Lock()
	s.selectedID = id
	s.mu.Unlock()

	s.notify()
}

// SelectedActivityID returns the raw selection cursor (possibly stale).
func (s *Store) SelectedActivityID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// SelectedActivity resolves the cursor to an activity copy.
func (s *Store) SelectedActivity() (domain.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfActivity(s.selectedID); i >= 0 {
		return s.activities[i].Clone(), true
	}
	return domain.Activity{}, false
}

// DuplicateActivity deep-copies the named activity under a fresh id and
// appends it. Returns the new id, or "" when the source does not exist.
func (s *Store) DuplicateActivity(id string) string {
	s.mu.Lock()
	i := s.indexOfActivity(id)
	if i < 0 {
		s.mu.Unlock()
		return ""
	}
	dup := s.activities[i].Duplicate()
	s.activities = append(s.activities, dup)
	s.mu.Unlock()

	s.logger.Debug("activity duplicated",
		slog.String("source", id),
		slog.String("id", dup.ID))
	s.notify()
	return dup.ID
}

// DeleteActivity removes the activity. No-op when absent.
func (s *Store) DeleteActivity(id string) {
	s.mu.Lock()
	i := s.indexOfActivity(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.activities = append(s.activities[:i], s.activities[i+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()

	s.logger.Debug("activity deleted", slog.String("id", id))
	s.notify()
}

// RenameActivity sets the display name and keeps the embedded request's name
// in sync. The two names never diverge. No-op when absent.
func (s *Store) RenameActivity(id, name string) {
	s.mu.Lock()
	i := s.indexOfActivity(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.activities[i].Name = name
	s.activities[i].Request.Name = name
	s.mu.Unlock()

	s.logger.Debug("activity renamed", slog.String("id", id), slog.String("name", name))
	s.notify()
}

// UpdateActivity merges the non-nil fields of upd into the named activity.
// No-op when absent.
func (s *Store) UpdateActivity(id string, upd ActivityUpdate) {
	s.mu.Lock()
	i := s.indexOfActivity(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if upd.URL != nil {
		s.activities[i].URL = *upd.URL
	}
	if upd.Request != nil {
		req := upd.Request.Clone()
		s.activities[i].Request = req
		s.activities[i].URL = req.URL
	}
	if upd.Response != nil {
		resp := upd.Response.Clone()
		s.activities[i].Response = &resp
	}
	s.mu.Unlock()

	s.notify()
}

// AttachResponse replaces the activity's response wholesale. Reports whether
// an activity with that id still existed; a response arriving for a deleted
// activity is dropped rather than recreating it.
func (s *Store) AttachResponse(id string, resp domain.Response) bool {
	s.mu.Lock()
	i := s.indexOfActivity(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	r := resp.Clone()
	s.activities[i].Response = &r
	s.mu.Unlock()

	s.logger.Debug("response attached",
		slog.String("id", id),
		slog.Int("status", resp.Status))
	s.notify()
	return true
}

// AddFolder creates a folder from the partial spec (defaults filled in) and
// returns the stored copy.
func (s *Store) AddFolder(partial domain.Folder) domain.Folder {
	f := domain.NewFolder(partial)

	s.mu.Lock()
	s.folders = append(s.folders, f)
	s.mu.Unlock()

	s.logger.Debug("folder added", slog.String("id", f.ID), slog.String("name", f.Name))
	s.notify()
	return f
}

// RenameFolder sets the folder name. No-op when absent.
func (s *Store) RenameFolder(id, name string) {
	s.mu.Lock()
	i := s.indexOfFolder(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.folders[i].Name = name
	s.mu.Unlock()

	s.logger.Debug("folder renamed", slog.String("id", id), slog.String("name", name))
	s.notify()
}

// DeleteFolder removes the folder, every descendant folder, and every
// activity parented anywhere inside that subtree. Cascade delete is the one
// policy this store implements; children are never promoted to the root.
// No-op when absent.
func (s *Store) DeleteFolder(id string) {
	s.mu.Lock()
	if s.indexOfFolder(id) < 0 {
		s.mu.Unlock()
		return
	}

	doomed := descendantFolderIDs(s.folders, id)

	var keptActivities []domain.Activity
	for _, a := range s.activities {
		if a.ParentID != "" && doomed[a.ParentID] {
			if s.selectedID == a.ID {
				s.selectedID = ""
			}
			continue
		}
		keptActivities = append(keptActivities, a)
	}
	s.activities = keptActivities

	var keptFolders []domain.Folder
	for _, f := range s.folders {
		if !doomed[f.ID] {
			keptFolders = append(keptFolders, f)
		}
	}
	s.folders = keptFolders
	s.mu.Unlock()

	s.logger.Debug("folder deleted", slog.String("id", id), slog.Int("cascaded", len(doomed)))
	s.notify()
}

// MoveNode reparents an activity or folder. An empty newParentID moves the
// node to the workspace root. Folder moves that would make a folder its own
// ancestor are rejected with ErrCycleDetected and change nothing. Moves of
// missing nodes are no-ops.
func (s *Store) MoveNode(nodeType NodeType, id, newParentID string) error {
	s.mu.Lock()
	switch nodeType {
	case NodeActivity:
		if i := s.indexOfActivity(id); i >= 0 {
			s.activities[i].ParentID = newParentID
		}
	case NodeFolder:
		i := s.indexOfFolder(id)
		if i < 0 {
			break
		}
		if wouldCreateCycle(s.folders, id, newParentID) {
			s.mu.Unlock()
			return fmt.Errorf("moving folder %q under %q: %w", id, newParentID, apperrors.ErrCycleDetected)
		}
		s.folders[i].ParentID = newParentID
	}
	s.mu.Unlock()

	s.logger.Debug("node moved",
		slog.String("type", string(nodeType)),
		slog.String("id", id),
		slog.String("parent", newParentID))
	s.notify()
	return nil
}

// Activities returns copies of all activities in insertion order.
func (s *Store) Activities() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Activity, len(s.activities))
	for i, a := range s.activities {
		out[i] = a.Clone()
	}
	return out
}

// Folders returns copies of all folders in insertion order.
func (s *Store) Folders() []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// ActivityByID returns a copy of the named activity.
func (s *Store) ActivityByID(id string) (domain.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfActivity(id); i >= 0 {
		return s.activities[i].Clone(), true
	}
	return domain.Activity{}, false
}

// FolderByID returns a copy of the named folder.
func (s *Store) FolderByID(id string) (domain.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfFolder(id); i >= 0 {
		return s.folders[i], true
	}
	return domain.Folder{}, false
}

// ActivitiesIn returns the activities whose parent is parentID ("" = root).
func (s *Store) ActivitiesIn(parentID string) []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Activity
	for _, a := range s.activities {
		if a.ParentID == parentID {
			out = append(out, a.Clone())
		}
	}
	return out
}

// FoldersIn returns the folders whose parent is parentID ("" = root).
func (s *Store) FoldersIn(parentID string) []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Folder
	for _, f := range s.folders {
		if f.ParentID == parentID {
			out = append(out, f)
		}
	}
	return out
}

// ReplaceAll swaps in a whole new workspace (pull flow, startup restore).
// Last write wins; there is no merge algorithm.
func (s *Store) ReplaceAll(activities []domain.Activity, folders []domain.Folder) {
	s.mu.Lock()
	s.activities = make([]domain.Activity, len(activities))
	for i, a := range activities {
		s.activities[i] = a.Clone()
	}
	s.folders = make([]domain.Folder, len(folders))
	copy(s.folders, folders)
	if s.indexOfActivity(s.selectedID) < 0 {
		s.selectedID = ""
	}
	s.mu.Unlock()

	s.logger.Debug("workspace replaced",
		slog.Int("activities", len(activities)),
		slog.Int("folders", len(folders)))
	s.notify()
}

// Merge upserts the given activities and folders by id: existing entries are
// overwritten, new ones appended. Used by the partial-import flow.
func (s *Store) Merge(activities []domain.Activity, folders []domain.Folder) {
	s.mu.Lock()
	for _, a := range activities {
		if i := s.indexOfActivity(a.ID); i >= 0 {
			s.activities[i] = a.Clone()
		} else {
			s.activities = append(s.activities, a.Clone())
		}
	}
	for _, f := range folders {
		if i := s.indexOfFolder(f.ID); i >= 0 {
			s.folders[i] = f
		} else {
			s.folders = append(s.folders, f)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("workspace merged",
		slog.Int("activities", len(activities)),
		slog.Int("folders", len(folders)))
	s.notify()
}

// callers must hold s.mu
func (s *Store) indexOfActivity(id string) int {
	if id == "" {
		return -1
	}
	for i, a := range s.activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// callers must hold s.mu
func (s *Store) indexOfFolder(id string) int {
	if id == "" {
		return -1
	}
	for i, f := range s.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}
