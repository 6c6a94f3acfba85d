package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
	"github.com/Apollo-Blaze/CallSensei/internal/logging"
)

func newTestStore() *Store {
	return NewStore(logging.NewNopLogger())
}

func newNamedActivity(name string) domain.Activity {
	a := domain.NewDefaultActivity()
	a.Name = name
	a.Request.Name = name
	return a
}

func TestAddActivity_DistinctIDs(t *testing.T) {
	store := newTestStore()

	var ids []string
	for i := 0; i < 5; i++ {
		a := domain.NewDefaultActivity()
		ids = append(ids, a.ID)
		require.NoError(t, store.AddActivity(a))
	}

	assert.Len(t, store.Activities(), 5)
	for _, id := range ids {
		_, ok := store.ActivityByID(id)
		assert.True(t, ok, "activity %s should be retrievable", id)
	}
}

func TestAddActivity_DuplicateIDRejected(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()

	require.NoError(t, store.AddActivity(a))
	err := store.AddActivity(a)

	assert.ErrorIs(t, err, apperrors.ErrDuplicateID)
	assert.Len(t, store.Activities(), 1, "failed add must not change state")
}

func TestDuplicateActivity(t *testing.T) {
	store := newTestStore()
	a := newNamedActivity("Login")
	a.ParentID = "folder-1"
	resp := domain.NewResponse(a.ID, 200, "200 OK", nil, "body", 12)
	a.Response = &resp
	require.NoError(t, store.AddActivity(a))

	newID := store.DuplicateActivity(a.ID)

	require.NotEmpty(t, newID)
	assert.NotEqual(t, a.ID, newID)

	dup, ok := store.ActivityByID(newID)
	require.True(t, ok)
	assert.Equal(t, a.ParentID, dup.ParentID)
	assert.Equal(t, a.Request.Method, dup.Request.Method)
	require.NotNil(t, dup.Response)
	assert.Equal(t, a.Response.Body, dup.Response.Body)

	// Duplicates land at the end of the collection.
	all := store.Activities()
	assert.Equal(t, newID, all[len(all)-1].ID)
}

func TestDuplicateActivity_MissingSource(t *testing.T) {
	store := newTestStore()
	assert.Empty(t, store.DuplicateActivity("nope"))
	assert.Empty(t, store.Activities())
}

func TestRenameActivity_KeepsRequestNameInSync(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))

	store.RenameActivity(a.ID, "Foo")

	got, ok := store.ActivityByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, "Foo", got.Name)
	assert.Equal(t, "Foo", got.Request.Name)
}

func TestDeleteActivity_ClearsSelection(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))
	store.SetSelectedActivity(a.ID)

	store.DeleteActivity(a.ID)

	assert.Empty(t, store.SelectedActivityID())
	_, ok := store.SelectedActivity()
	assert.False(t, ok)
}

func TestSelectedActivity_StaleCursor(t *testing.T) {
	store := newTestStore()
	store.SetSelectedActivity("ghost")

	_, ok := store.SelectedActivity()
	assert.False(t, ok, "stale cursor reads report not found")
}

func TestUpdateActivity_PerFieldMerge(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))

	req := a.Request.Clone()
	req.Method = "POST"
	req.URL = "https://example.com/x"
	store.UpdateActivity(a.ID, ActivityUpdate{Request: &req})

	got, _ := store.ActivityByID(a.ID)
	assert.Equal(t, "POST", got.Request.Method)
	assert.Equal(t, "https://example.com/x", got.URL, "url mirror follows the request")

	resp := domain.NewResponse(a.ID, 200, "200 OK", nil, "ok", 3)
	store.UpdateActivity(a.ID, ActivityUpdate{Response: &resp})

	got, _ = store.ActivityByID(a.ID)
	assert.Equal(t, "POST", got.Request.Method, "nil fields stay untouched")
	require.NotNil(t, got.Response)
}

func TestUpdateActivity_MissingIsNoOp(t *testing.T) {
	store := newTestStore()
	url := "https://example.com"
	store.UpdateActivity("ghost", ActivityUpdate{URL: &url})
	assert.Empty(t, store.Activities())
}

func TestAttachResponse_WholesaleReplacement(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))

	first := domain.NewResponse(a.ID, 500, "500 Internal Server Error",
		map[string]string{"X-First": "1"}, "first", 10)
	require.True(t, store.AttachResponse(a.ID, first))

	second := domain.NewResponse(a.ID, 200, "200 OK", nil, "second", 20)
	require.True(t, store.AttachResponse(a.ID, second))

	got, _ := store.ActivityByID(a.ID)
	require.NotNil(t, got.Response)
	assert.Equal(t, "second", got.Response.Body)
	assert.NotContains(t, got.Response.Headers, "X-First", "replaced, never merged")
}

func TestAttachResponse_DeletedActivity(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))
	store.DeleteActivity(a.ID)

	attached := store.AttachResponse(a.ID, domain.NewResponse(a.ID, 200, "200 OK", nil, "", 1))

	assert.False(t, attached, "stale in-flight response must not recreate the activity")
	assert.Empty(t, store.Activities())
}

func TestAddFolder_Defaults(t *testing.T) {
	store := newTestStore()

	f := store.AddFolder(domain.Folder{})

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, domain.DefaultFolderName, f.Name)

	stored, ok := store.FolderByID(f.ID)
	require.True(t, ok)
	assert.Equal(t, f, stored)
}

func TestDeleteFolder_CascadesSubtree(t *testing.T) {
	store := newTestStore()

	f := store.AddFolder(domain.Folder{Name: "F"})
	g := store.AddFolder(domain.Folder{Name: "G", ParentID: f.ID})
	sibling := store.AddFolder(domain.Folder{Name: "Sibling"})

	inG := domain.NewDefaultActivity()
	inG.ParentID = g.ID
	require.NoError(t, store.AddActivity(inG))

	atRoot := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(atRoot))

	store.SetSelectedActivity(inG.ID)
	store.DeleteFolder(f.ID)

	_, ok := store.FolderByID(f.ID)
	assert.False(t, ok)
	_, ok = store.FolderByID(g.ID)
	assert.False(t, ok, "descendant folders are cascade-deleted, not promoted")
	_, ok = store.ActivityByID(inG.ID)
	assert.False(t, ok, "activities inside the subtree are cascade-deleted")

	_, ok = store.FolderByID(sibling.ID)
	assert.True(t, ok)
	_, ok = store.ActivityByID(atRoot.ID)
	assert.True(t, ok)

	assert.Empty(t, store.SelectedActivityID(), "cascaded selection is cleared")
}

func TestMoveNode_ActivityReparent(t *testing.T) {
	store := newTestStore()
	f := store.AddFolder(domain.Folder{Name: "F"})
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))

	require.NoError(t, store.MoveNode(NodeActivity, a.ID, f.ID))
	got, _ := store.ActivityByID(a.ID)
	assert.Equal(t, f.ID, got.ParentID)

	require.NoError(t, store.MoveNode(NodeActivity, a.ID, ""))
	got, _ = store.ActivityByID(a.ID)
	assert.Empty(t, got.ParentID)
}

func TestMoveNode_FolderToRootAlwaysSucceeds(t *testing.T) {
	store := newTestStore()
	parent := store.AddFolder(domain.Folder{Name: "Parent"})
	child := store.AddFolder(domain.Folder{Name: "Child", ParentID: parent.ID})

	require.NoError(t, store.MoveNode(NodeFolder, child.ID, ""))

	got, _ := store.FolderByID(child.ID)
	assert.Empty(t, got.ParentID)
}

func TestMoveNode_RejectsDescendantTarget(t *testing.T) {
	store := newTestStore()

	// a > b > c
	a := store.AddFolder(domain.Folder{Name: "a"})
	b := store.AddFolder(domain.Folder{Name: "b", ParentID: a.ID})
	c := store.AddFolder(domain.Folder{Name: "c", ParentID: b.ID})

	tests := []struct {
		name string
		drag string
		drop string
	}{
		{"onto itself", a.ID, a.ID},
		{"onto direct child", a.ID, b.ID},
		{"onto grandchild", a.ID, c.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.MoveNode(NodeFolder, tt.drag, tt.drop)
			assert.ErrorIs(t, err, apperrors.ErrCycleDetected)

			// Tree unchanged
			gotA, _ := store.FolderByID(a.ID)
			gotB, _ := store.FolderByID(b.ID)
			gotC, _ := store.FolderByID(c.ID)
			assert.Empty(t, gotA.ParentID)
			assert.Equal(t, a.ID, gotB.ParentID)
			assert.Equal(t, b.ID, gotC.ParentID)
		})
	}
}

func TestMoveNode_MissingFolderIsNoOp(t *testing.T) {
	store := newTestStore()
	assert.NoError(t, store.MoveNode(NodeFolder, "ghost", ""))
}

func TestSubscribe_NotifiedOnMutation(t *testing.T) {
	store := newTestStore()

	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })

	require.NoError(t, store.AddActivity(domain.NewDefaultActivity()))
	assert.Equal(t, 1, calls)

	store.AddFolder(domain.Folder{})
	assert.Equal(t, 2, calls)

	unsubscribe()
	store.AddFolder(domain.Folder{})
	assert.Equal(t, 2, calls, "unsubscribed observers stay silent")
}

func TestSubscriber_CanReadStore(t *testing.T) {
	store := newTestStore()

	var observed int
	store.Subscribe(func() {
		observed = len(store.Activities())
	})

	require.NoError(t, store.AddActivity(domain.NewDefaultActivity()))
	assert.Equal(t, 1, observed, "notification fires after the mutation is visible")
}

func TestReplaceAll_ClearsStaleSelection(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(a))
	store.SetSelectedActivity(a.ID)

	replacement := domain.NewDefaultActivity()
	store.ReplaceAll([]domain.Activity{replacement}, nil)

	assert.Empty(t, store.SelectedActivityID())
	assert.Len(t, store.Activities(), 1)
}

func TestMerge_UpsertsByID(t *testing.T) {
	store := newTestStore()
	a := newNamedActivity("old")
	require.NoError(t, store.AddActivity(a))

	updated := a.Clone()
	updated.Name = "new"
	fresh := newNamedActivity("fresh")

	store.Merge([]domain.Activity{updated, fresh}, []domain.Folder{{ID: "f1", Name: "F"}})

	got, _ := store.ActivityByID(a.ID)
	assert.Equal(t, "new", got.Name)
	assert.Len(t, store.Activities(), 2)

	_, ok := store.FolderByID("f1")
	assert.True(t, ok)
}

func TestReaders_ReturnCopies(t *testing.T) {
	store := newTestStore()
	a := domain.NewDefaultActivity()
	a.Request.Headers["X-Key"] = "original"
	require.NoError(t, store.AddActivity(a))

	leaked := store.Activities()[0]
	leaked.Request.Headers["X-Key"] = "tampered"

	got, _ := store.ActivityByID(a.ID)
	assert.Equal(t, "original", got.Request.Headers["X-Key"])
}
