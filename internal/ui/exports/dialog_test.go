package exports

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/logging"
	"github.com/Apollo-Blaze/CallSensei/internal/storage"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

func newTestDialog(t *testing.T) (*Dialog, *workspace.Store, *storage.MemoryRepository) {
	t.Helper()
	app := test.NewApp()
	window := app.NewWindow("test")
	t.Cleanup(window.Close)

	store := workspace.NewStore(logging.NewNopLogger())
	repo := storage.NewMemoryRepository()
	return NewDialog(window, store, repo, logging.NewNopLogger()), store, repo
}

func TestDialog_SaveExportPersistsWorkspace(t *testing.T) {
	d, store, repo := newTestDialog(t)

	act := domain.NewDefaultActivity()
	act.Name = "list users"
	require.NoError(t, store.AddActivity(act))

	d.nameEntry.SetText("baseline")
	d.handleSave()

	doc, err := repo.LoadExport("baseline")
	require.NoError(t, err)
	require.Len(t, doc.Activities, 1)
	assert.Equal(t, "list users", doc.Activities[0].Name)

	// Saving refreshes the selector and clears the name field
	assert.Equal(t, []string{"baseline"}, d.exportList.Options)
	assert.Empty(t, d.nameEntry.Text)
}

func TestDialog_SaveWithoutNameDoesNothing(t *testing.T) {
	d, _, repo := newTestDialog(t)

	d.handleSave()

	names, err := repo.ListExports()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDialog_LoadExportReplacesWorkspace(t *testing.T) {
	d, store, repo := newTestDialog(t)

	saved := domain.NewDefaultActivity()
	saved.Name = "from export"
	doc := workspace.Serialize([]domain.Activity{saved}, nil)
	require.NoError(t, repo.SaveExport("baseline", doc))

	live := domain.NewDefaultActivity()
	live.Name = "will be replaced"
	require.NoError(t, store.AddActivity(live))

	d.loadExport("baseline")

	activities := store.Activities()
	require.Len(t, activities, 1)
	assert.Equal(t, "from export", activities[0].Name)
}

func TestDialog_LoadUnknownVersionKeepsWorkspace(t *testing.T) {
	d, store, repo := newTestDialog(t)

	doc := workspace.Serialize(nil, nil)
	doc.Version = 99
	require.NoError(t, repo.SaveExport("future", doc))

	live := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(live))

	d.loadExport("future")

	assert.Len(t, store.Activities(), 1, "bad export must not clear the workspace")
}

func TestDialog_DeleteExportRefreshesSelector(t *testing.T) {
	d, _, repo := newTestDialog(t)

	require.NoError(t, repo.SaveExport("old", workspace.Serialize(nil, nil)))
	d.reloadExports()
	require.Equal(t, []string{"old"}, d.exportList.Options)

	d.deleteExport("old")

	assert.Empty(t, d.exportList.Options)

	_, err := repo.LoadExport("old")
	assert.Error(t, err)
}

func TestDialog_SelectionEnablesButtons(t *testing.T) {
	d, _, repo := newTestDialog(t)

	require.NoError(t, repo.SaveExport("one", workspace.Serialize(nil, nil)))
	d.reloadExports()
	assert.True(t, d.loadBtn.Disabled())
	assert.True(t, d.deleteBtn.Disabled())

	d.exportList.SetSelected("one")

	assert.False(t, d.loadBtn.Disabled())
	assert.False(t, d.deleteBtn.Disabled())
}
