package github

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/logging"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
	"github.com/Apollo-Blaze/CallSensei/internal/storage"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

func newTestDialog(t *testing.T) (*SyncDialog, *workspace.Store, storage.Repository) {
	t.Helper()
	app := test.NewApp()
	window := app.NewWindow("test")
	t.Cleanup(window.Close)

	store := workspace.NewStore(logging.NewNopLogger())
	repo := storage.NewMemoryRepository()
	state := model.NewSyncState()

	return NewSyncDialog(window, store, repo, state, "env-token", logging.NewNopLogger()), store, repo
}

func TestSyncDialog_TargetFromEntries(t *testing.T) {
	d, _, _ := newTestDialog(t)

	d.ownerEntry.SetText("octo")
	d.repoEntry.SetText("workspaces")
	d.pathEntry.SetText("team.json")

	assert.Equal(t, domain.SyncTarget{
		Owner:    "octo",
		Repo:     "workspaces",
		FilePath: "team.json",
	}, d.target())
}

func TestSyncDialog_DefaultsPrefilled(t *testing.T) {
	d, _, _ := newTestDialog(t)

	assert.Equal(t, DefaultWorkspaceFile, d.pathEntry.Text)
	assert.Equal(t, "env-token", d.tokenEntry.Text)
}

func TestSyncDialog_ApplyDocument_Replace(t *testing.T) {
	d, store, _ := newTestDialog(t)

	local := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(local))

	remote := domain.NewDefaultActivity()
	remote.Name = "remote request"
	doc := workspace.Serialize([]domain.Activity{remote}, nil)

	d.applyDocument(doc, true)

	acts := store.Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, remote.ID, acts[0].ID)
}

func TestSyncDialog_ApplyDocument_Merge(t *testing.T) {
	d, store, _ := newTestDialog(t)

	local := domain.NewDefaultActivity()
	require.NoError(t, store.AddActivity(local))

	remote := domain.NewDefaultActivity()
	doc := workspace.Serialize([]domain.Activity{remote}, nil)

	d.applyDocument(doc, false)

	assert.Len(t, store.Activities(), 2)
}

func TestSyncDialog_ApplyDocument_BadVersionShowsNoChange(t *testing.T) {
	d, store, _ := newTestDialog(t)

	doc := workspace.Serialize(nil, nil)
	doc.Version = 2

	d.applyDocument(doc, true)

	assert.Empty(t, store.Activities())
}

func TestSyncDialog_RememberTarget_RefreshesRecent(t *testing.T) {
	d, _, repo := newTestDialog(t)

	target := domain.SyncTarget{Owner: "octo", Repo: "workspaces", FilePath: "team.json"}
	d.rememberTarget(target)

	saved, err := repo.GetRecentSyncTargets()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, target, saved[0])

	require.Len(t, d.recentSelect.Options, 1)
	assert.Equal(t, "octo/workspaces:team.json", d.recentSelect.Options[0])
}

func TestSyncDialog_RecentSelectionPrefillsForm(t *testing.T) {
	d, _, _ := newTestDialog(t)

	d.rememberTarget(domain.SyncTarget{Owner: "octo", Repo: "workspaces", FilePath: "team.json"})
	d.recentSelect.SetSelected("octo/workspaces:team.json")

	assert.Equal(t, "octo", d.ownerEntry.Text)
	assert.Equal(t, "workspaces", d.repoEntry.Text)
	assert.Equal(t, "team.json", d.pathEntry.Text)
}
