package github

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/githubsync"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
	"github.com/Apollo-Blaze/CallSensei/internal/storage"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// DefaultWorkspaceFile is the repository path offered for new sync targets.
const DefaultWorkspaceFile = "callsensei-workspace.json"

// Syncer is the remote side of workspace sync. Satisfied by
// *githubsync.Client; a stub stands in for it under test.
type Syncer interface {
	Pull(ctx context.Context, target domain.SyncTarget) (*githubsync.PullResult, error)
	Push(ctx context.Context, target domain.SyncTarget, doc domain.ExportDocument, message, sha string) (string, error)
}

// SyncDialog drives workspace push/pull against a GitHub repository file.
type SyncDialog struct {
	window fyne.Window
	store  *workspace.Store
	repo   storage.Repository
	state  *model.SyncState
	logger *slog.Logger

	// newSyncer builds a client for the token the user typed. Swapped in
	// tests.
	newSyncer func(token string) Syncer

	ownerEntry   *widget.Entry
	repoEntry    *widget.Entry
	pathEntry    *widget.Entry
	tokenEntry   *widget.Entry
	messageEntry *widget.Entry
	recentSelect *widget.Select
	recent       []domain.SyncTarget
}

// NewSyncDialog creates the sync dialog. defaultToken prefills the token
// field, typically from the environment.
func NewSyncDialog(window fyne.Window, store *workspace.Store, repo storage.Repository, state *model.SyncState, defaultToken string, logger *slog.Logger) *SyncDialog {
	d := &SyncDialog{
		window: window,
		store:  store,
		repo:   repo,
		state:  state,
		logger: logger,
		newSyncer: func(token string) Syncer {
			return githubsync.NewClient(token, logger)
		},
	}

	d.ownerEntry = widget.NewEntry()
	d.ownerEntry.SetPlaceHolder("owner")

	d.repoEntry = widget.NewEntry()
	d.repoEntry.SetPlaceHolder("repository")

	d.pathEntry = widget.NewEntry()
	d.pathEntry.SetText(DefaultWorkspaceFile)

	d.tokenEntry = widget.NewPasswordEntry()
	d.tokenEntry.SetPlaceHolder("personal access token")
	d.tokenEntry.SetText(defaultToken)

	d.messageEntry = widget.NewEntry()
	d.messageEntry.SetPlaceHolder(githubsync.DefaultCommitMessage)

	d.recentSelect = widget.NewSelect(nil, func(label string) {
		for _, target := range d.recent {
			if target.String() == label {
				d.ownerEntry.SetText(target.Owner)
				d.repoEntry.SetText(target.Repo)
				d.pathEntry.SetText(target.FilePath)
				break
			}
		}
	})
	d.recentSelect.PlaceHolder = "Recent targets"

	return d
}

// Show displays the sync dialog.
func (d *SyncDialog) Show() {
	d.reloadRecent()

	form := container.NewVBox(
		d.recentSelect,
		widget.NewSeparator(),
		widget.NewForm(
			widget.NewFormItem("Owner", d.ownerEntry),
			widget.NewFormItem("Repository", d.repoEntry),
			widget.NewFormItem("File path", d.pathEntry),
			widget.NewFormItem("Token", d.tokenEntry),
			widget.NewFormItem("Commit message", d.messageEntry),
		),
	)

	pullBtn := widget.NewButton("Pull", func() {
		d.handlePull()
	})
	pushBtn := widget.NewButton("Push", func() {
		d.handlePush()
	})
	pushBtn.Importance = widget.HighImportance

	buttons := container.NewGridWithColumns(2, pullBtn, pushBtn)
	content := container.NewBorder(nil, buttons, nil, nil, form)

	dlg := dialog.NewCustom("GitHub Sync", "Close", content, d.window)
	dlg.Resize(fyne.NewSize(440, 380))
	dlg.Show()
}

// reloadRecent refreshes the recent-targets dropdown from storage.
func (d *SyncDialog) reloadRecent() {
	targets, err := d.repo.GetRecentSyncTargets()
	if err != nil {
		d.logger.Warn("Failed to load recent sync targets", "error", err)
		return
	}
	d.recent = targets

	labels := make([]string, 0, len(targets))
	for _, target := range targets {
		labels = append(labels, target.String())
	}
	d.recentSelect.Options = labels
	d.recentSelect.Refresh()
}

func (d *SyncDialog) target() domain.SyncTarget {
	return domain.SyncTarget{
		Owner:    d.ownerEntry.Text,
		Repo:     d.repoEntry.Text,
		FilePath: d.pathEntry.Text,
	}
}

// handlePull fetches the remote document and asks how to integrate it.
func (d *SyncDialog) handlePull() {
	target := d.target()
	syncer := d.newSyncer(d.tokenEntry.Text)

	d.setSyncState("pulling", "Pulling "+target.String())

	go func() {
		result, err := syncer.Pull(context.Background(), target)
		fyne.Do(func() {
			if err != nil {
				d.setSyncState("error", err.Error())
				dialog.ShowError(err, d.window)
				return
			}
			d.setSyncState("idle", "")
			d.rememberTarget(target)
			d.showIntegrationChoice(result.Document)
		})
	}()
}

// showIntegrationChoice asks whether the pulled document replaces the
// workspace, merges into it, or is imported selectively.
func (d *SyncDialog) showIntegrationChoice(doc domain.ExportDocument) {
	summary := fmt.Sprintf("Pulled %d requests and %d folders.", len(doc.Activities), len(doc.Folders))

	options := widget.NewRadioGroup([]string{
		"Replace my workspace",
		"Merge into my workspace",
		"Pick requests to import",
	}, nil)
	options.SetSelected("Merge into my workspace")

	content := container.NewVBox(
		widget.NewLabel(summary),
		options,
	)

	dlg := dialog.NewCustomConfirm("Import Pulled Workspace", "Apply", "Cancel", content, func(apply bool) {
		if !apply {
			return
		}
		switch options.Selected {
		case "Replace my workspace":
			d.applyDocument(doc, true)
		case "Merge into my workspace":
			d.applyDocument(doc, false)
		case "Pick requests to import":
			d.showPartialImport(doc)
		}
	}, d.window)
	dlg.Resize(fyne.NewSize(360, 220))
	dlg.Show()
}

// showPartialImport lets the user tick individual requests; their folder
// chains come along automatically.
func (d *SyncDialog) showPartialImport(doc domain.ExportDocument) {
	checks := make([]*widget.Check, 0, len(doc.Activities))
	list := container.NewVBox()
	for _, act := range doc.Activities {
		label := act.Name
		if act.URL != "" && act.URL != act.Name {
			label += "  (" + act.URL + ")"
		}
		check := widget.NewCheck(label, nil)
		checks = append(checks, check)
		list.Add(check)
	}

	content := container.NewBorder(
		widget.NewLabel("Select requests to import:"),
		nil, nil, nil,
		container.NewScroll(list),
	)

	dlg := dialog.NewCustomConfirm("Partial Import", "Import", "Cancel", content, func(importIt bool) {
		if !importIt {
			return
		}
		var selected []string
		for i, check := range checks {
			if check.Checked {
				selected = append(selected, doc.Activities[i].ID)
			}
		}
		if len(selected) == 0 {
			return
		}
		subset, err := workspace.PartialImport(doc, selected)
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		d.applyDocument(subset, false)
	}, d.window)
	dlg.Resize(fyne.NewSize(420, 360))
	dlg.Show()
}

// applyDocument integrates a pulled document into the store.
func (d *SyncDialog) applyDocument(doc domain.ExportDocument, replace bool) {
	activities, folders, err := workspace.Deserialize(doc)
	if err != nil {
		dialog.ShowError(err, d.window)
		return
	}
	if replace {
		d.store.ReplaceAll(activities, folders)
	} else {
		d.store.Merge(activities, folders)
	}
}

// handlePush serializes the workspace and commits it to the target file.
// The current remote SHA is fetched first so an existing file updates
// instead of conflicting.
func (d *SyncDialog) handlePush() {
	target := d.target()
	syncer := d.newSyncer(d.tokenEntry.Text)
	doc := workspace.Serialize(d.store.Activities(), d.store.Folders())
	message := d.messageEntry.Text

	d.setSyncState("pushing", "Pushing "+target.String())

	go func() {
		ctx := context.Background()

		sha := ""
		if result, err := syncer.Pull(ctx, target); err == nil {
			sha = result.SHA
		} else {
			// Missing file means first push creates it
			d.logger.Debug("No existing remote file, will create", "target", target.String(), "error", err)
		}

		newSHA, err := syncer.Push(ctx, target, doc, message, sha)
		fyne.Do(func() {
			if err != nil {
				d.setSyncState("error", err.Error())
				dialog.ShowError(err, d.window)
				return
			}
			d.setSyncState("idle", "")
			d.rememberTarget(target)
			d.logger.Info("Workspace pushed", "target", target.String(), "sha", newSHA)
			dialog.ShowInformation("GitHub Sync", "Workspace pushed to "+target.String(), d.window)
		})
	}()
}

func (d *SyncDialog) rememberTarget(target domain.SyncTarget) {
	if err := d.repo.SaveRecentSyncTarget(target); err != nil {
		d.logger.Warn("Failed to save recent sync target", "error", err)
	}
	d.reloadRecent()
}

func (d *SyncDialog) setSyncState(state, message string) {
	_ = d.state.State.Set(state)
	_ = d.state.Message.Set(message)
}
