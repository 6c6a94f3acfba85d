package ui

import (
	"context"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/Apollo-Blaze/CallSensei/internal/ai"
	"github.com/Apollo-Blaze/CallSensei/internal/httpclient"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
	"github.com/Apollo-Blaze/CallSensei/internal/storage"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/aiassist"
	uierrors "github.com/Apollo-Blaze/CallSensei/internal/ui/errors"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/exports"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/github"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/patchreview"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/request"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/response"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/settings"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/sidebar"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// AppController defines the interface for app-level operations needed by the UI
type AppController interface {
	State() *model.ApplicationState
	Logger() *slog.Logger
	Store() *workspace.Store
	Storage() storage.Repository
	Executor() *httpclient.Executor
	Explainer() ai.Explainer // nil when no API key is configured
	GitHubToken() string
	ConfigureAI(apiKey, modelName string)
	SetRequestTimeout(seconds float64)
}

// MainWindow manages the main application window and its layout.
type MainWindow struct {
	window  fyne.Window
	fyneApp fyne.App
	state   *model.ApplicationState
	logger  *slog.Logger
	app     AppController

	// Panel widgets
	sidebarPanel  *sidebar.Panel
	requestPanel  *request.Panel
	responsePanel *response.Panel
	aiPanel       *aiassist.Panel
	statusBar     *uierrors.StatusBar

	// In-flight request cancellation. sendSeq identifies the current send
	// so a superseded goroutine cannot clear or cancel its successor.
	sendMu     sync.Mutex
	sendCancel context.CancelFunc
	sendSeq    uint64
}

// NewMainWindow creates a new main window with the application layout.
// The window is split horizontally with:
//   - Left side: workspace sidebar (folder/request tree)
//   - Right side: request editor (top), response + AI assistant (bottom)
//     with the sync status bar along the bottom edge
func NewMainWindow(fyneApp fyne.App, app AppController) *MainWindow {
	window := fyneApp.NewWindow("CallSensei")

	mw := &MainWindow{
		window:  window,
		fyneApp: fyneApp,
		state:   app.State(),
		logger:  app.Logger(),
		app:     app,
	}

	mw.sidebarPanel = sidebar.NewPanel(app.Store(), window, mw.logger)
	mw.requestPanel = request.NewPanel(mw.state.Request, app.Store(), mw.logger)
	mw.responsePanel = response.NewPanel(mw.state.Response)
	mw.aiPanel = aiassist.NewPanel(mw.state.AI)
	mw.statusBar = uierrors.NewStatusBar(mw.state.Sync)

	// Wire up callbacks
	mw.wireCallbacks()

	// Redraw the tree after any store mutation (rename on first send,
	// pulled workspaces, deletes)
	app.Store().Subscribe(func() {
		fyne.Do(func() {
			mw.sidebarPanel.Refresh()
		})
	})

	mw.SetContent()
	mw.setupMainMenu()
	mw.setupKeyboardShortcuts()

	window.Resize(fyne.NewSize(1280, 800))

	return mw
}

// wireCallbacks sets up all the event handlers and connects components
func (w *MainWindow) wireCallbacks() {
	w.sidebarPanel.SetOnActivitySelect(func(id string) {
		w.handleActivitySelect(id)
	})

	w.requestPanel.SetOnSend(func(opts httpclient.SendOptions) {
		w.handleSend(opts)
	})

	w.aiPanel.SetOnAsk(func(question string, history []ai.ChatTurn) {
		w.handleAsk(question, history)
	})
}

// handleActivitySelect loads the chosen activity into the editor panels.
func (w *MainWindow) handleActivitySelect(id string) {
	act, ok := w.app.Store().ActivityByID(id)
	if !ok {
		return
	}

	w.logger.Debug("Activity selected", "id", id, "name", act.Name)
	_ = w.state.SelectedActivityID.Set(id)

	w.requestPanel.SetActivity(act)

	if act.Response != nil {
		w.responsePanel.SetResponse(*act.Response)
	} else {
		w.responsePanel.Clear()
	}
	w.aiPanel.Clear()
}

// handleSend executes the request off the UI thread. The executor attaches
// the response to the activity and streams AI commentary through the sink.
func (w *MainWindow) handleSend(opts httpclient.SendOptions) {
	ctx, cancel := context.WithCancel(context.Background())

	w.sendMu.Lock()
	if w.sendCancel != nil {
		// One request in flight at a time; a new send supersedes it
		w.sendCancel()
	}
	w.sendCancel = cancel
	w.sendSeq++
	seq := w.sendSeq
	w.sendMu.Unlock()

	w.responsePanel.SetLoading(true)
	w.aiPanel.SetThinking(true)

	go func() {
		defer cancel()

		resp, err := w.app.Executor().Send(ctx, opts, func(message string) {
			fyne.Do(func() {
				w.aiPanel.SetExplanation(message)
			})
		})

		w.sendMu.Lock()
		superseded := w.sendSeq != seq
		if !superseded {
			w.sendCancel = nil
		}
		w.sendMu.Unlock()
		if superseded {
			// A newer send owns the panels now
			return
		}

		fyne.Do(func() {
			w.responsePanel.SetLoading(false)
			w.aiPanel.SetThinking(false)

			if err != nil {
				w.logger.Error("Request failed", "url", opts.URL, "error", err)
				w.responsePanel.SetError(err.Error())
				uierrors.ShowClassifiedError(err, w.window, func() {
					w.handleSend(opts)
				})
				return
			}

			w.responsePanel.SetResponse(*resp)
		})
	}()
}

// handleAsk answers a follow-up question about the selected activity.
func (w *MainWindow) handleAsk(question string, history []ai.ChatTurn) {
	explainer := w.app.Explainer()
	if explainer == nil {
		w.aiPanel.AppendTurn(question, "AI assistant is disabled. Add a Gemini API key in Preferences to enable it.")
		return
	}

	id, _ := w.state.SelectedActivityID.Get()
	act, ok := w.app.Store().ActivityByID(id)
	if !ok {
		w.aiPanel.AppendTurn(question, "Select a request first.")
		return
	}

	w.aiPanel.SetThinking(true)

	go func() {
		answer, err := explainer.Explain(context.Background(), ai.ExplainArgs{
			Request:      &act.Request,
			Response:     act.Response,
			UserQuestion: question,
			Mode:         ai.ModeChat,
			History:      history,
		})
		if err != nil {
			w.logger.Warn("AI chat failed", "error", err)
			answer = "AI assistant is unavailable: " + err.Error()
		}

		fyne.Do(func() {
			w.aiPanel.SetThinking(false)
			w.aiPanel.AppendTurn(question, answer)
		})
	}()
}

// cancelInFlight aborts the running request, if any.
func (w *MainWindow) cancelInFlight() {
	w.sendMu.Lock()
	cancel := w.sendCancel
	w.sendCancel = nil
	w.sendMu.Unlock()

	if cancel != nil {
		cancel()
		w.logger.Info("Request cancelled by user")
	}
}

// showSyncDialog opens the GitHub push/pull dialog. Pending editor changes
// are flushed first so the pushed document matches what the user sees.
func (w *MainWindow) showSyncDialog() {
	w.requestPanel.FlushPendingSave()
	dlg := github.NewSyncDialog(w.window, w.app.Store(), w.app.Storage(), w.state.Sync, w.app.GitHubToken(), w.logger)
	dlg.Show()
}

// showPatchDialog opens the suggested-changes applier. When the AI
// assistant is configured, the dialog can also draft a patch from the
// currently selected request and its last response.
func (w *MainWindow) showPatchDialog() {
	dlg := patchreview.NewDialog(w.window, w.logger)
	if fixer, ok := w.app.Explainer().(ai.CodeFixer); ok {
		dlg.SetGenerator(func(ctx context.Context, instruction string) (string, error) {
			args := ai.CodeFixArgs{Instruction: instruction}
			if act, ok := w.app.Store().SelectedActivity(); ok {
				args.Request = &act.Request
				args.Response = act.Response
			}
			return fixer.GenerateCodeFix(ctx, args)
		})
	}
	dlg.Show()
}

// showExportsDialog opens the named export/import dialog. Pending editor
// changes are flushed first so an export captures the latest draft.
func (w *MainWindow) showExportsDialog() {
	w.requestPanel.FlushPendingSave()
	dlg := exports.NewDialog(w.window, w.app.Store(), w.app.Storage(), w.logger)
	dlg.Show()
}

// showPreferences opens the preferences dialog.
func (w *MainWindow) showPreferences() {
	settings.ShowPreferencesDialog(w.fyneApp, w.window, settings.PreferencesCallbacks{
		OnThemeChange: func(mode string) {
			ApplyTheme(w.fyneApp, mode)
		},
		OnAIChange: func(apiKey, modelName string) {
			w.app.ConfigureAI(apiKey, modelName)
		},
		OnTimeout: func(seconds float64) {
			w.app.SetRequestTimeout(seconds)
		},
	})
}

// setupMainMenu builds the application menu bar.
func (w *MainWindow) setupMainMenu() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Request", func() {
			w.sidebarPanel.NewActivity()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export / Import Workspace...", func() {
			w.showExportsDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", func() {
			w.showPreferences()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("GitHub Sync...", func() {
			w.showSyncDialog()
		}),
		fyne.NewMenuItem("Apply Suggested Changes...", func() {
			w.showPatchDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Keyboard Shortcuts", func() {
			ShowShortcutDialog(w.window)
		}),
		fyne.NewMenuItem("About", func() {
			ShowAboutDialog(w.window)
		}),
	)

	w.window.SetMainMenu(fyne.NewMainMenu(fileMenu, toolsMenu, helpMenu))
}

// SetContent builds and sets the main window layout.
// Layout structure:
//
//	┌──────────────┬──────────────────────────────────┐
//	│              │        Request Editor            │
//	│  Workspace   ├─────────────────────┬────────────┤
//	│  Sidebar     │      Response       │    AI      │
//	│              │                     │ Assistant  │
//	├──────────────┴─────────────────────┴────────────┤
//	│                   Status Bar                    │
//	└─────────────────────────────────────────────────┘
func (w *MainWindow) SetContent() {
	bottomSplit := container.NewHSplit(
		w.responsePanel,
		w.aiPanel,
	)
	bottomSplit.SetOffset(0.6)

	rightPanel := container.NewVSplit(
		w.requestPanel,
		bottomSplit,
	)
	rightPanel.SetOffset(0.4)

	mainSplit := container.NewHSplit(
		w.sidebarPanel,
		rightPanel,
	)
	mainSplit.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		w.statusBar,
		nil, nil,
		mainSplit,
	)

	w.window.SetContent(content)
}

// Window returns the underlying Fyne window.
func (w *MainWindow) Window() fyne.Window {
	return w.window
}
