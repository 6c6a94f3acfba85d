package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"

	"github.com/Apollo-Blaze/CallSensei/internal/ai"
	"github.com/Apollo-Blaze/CallSensei/internal/httpclient"
	"github.com/Apollo-Blaze/CallSensei/internal/logging"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
	"github.com/Apollo-Blaze/CallSensei/internal/storage"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/components"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/settings"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// snapshotInterval is how long the app waits after the last workspace
// mutation before writing the snapshot to disk.
const snapshotInterval = 500 * time.Millisecond

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	fyneApp   fyne.App
	window    fyne.Window
	config    *Config
	logger    *slog.Logger
	storage   storage.Repository
	store     *workspace.Store
	state     *model.ApplicationState
	executor  *httpclient.Executor
	explainer ai.Explainer

	snapshotSaver *components.Debouncer
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(fyneApp fyne.App, cfg *Config) (*App, error) {
	// Initialize logger
	logger, err := logging.InitLogger("callsensei", cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Initializing CallSensei application",
		slog.Bool("debug", cfg.Debug),
		slog.String("storage_path", cfg.StoragePath),
	)

	// Initialize storage
	storagePath := cfg.StoragePath
	if storagePath == "" {
		storagePath, err = storage.DefaultStoragePath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine storage path: %w", err)
		}
	}

	repo := storage.NewJSONRepository(storagePath, logger)

	a := &App{
		fyneApp:       fyneApp,
		config:        cfg,
		logger:        logger,
		storage:       repo,
		store:         workspace.NewStore(logger),
		state:         model.NewApplicationState(),
		snapshotSaver: components.NewDebouncer(snapshotInterval),
	}

	// Preferences take priority over the environment for AI settings
	prefs := fyneApp.Preferences()
	apiKey := prefs.String(settings.PrefGeminiKey)
	if apiKey == "" {
		apiKey = cfg.GeminiAPIKey
	}
	modelName := prefs.StringWithFallback(settings.PrefGeminiModel, cfg.GeminiModel)

	a.explainer = a.buildExplainer(apiKey, modelName)

	timeout := time.Duration(prefs.FloatWithFallback(settings.PrefRequestTimeout, 30) * float64(time.Second))
	a.executor = httpclient.NewExecutor(a.store, a.explainer, timeout, logger)

	// Restore the last workspace snapshot, then autosave on every change
	a.restoreSnapshot()
	a.store.Subscribe(func() {
		a.snapshotSaver.Do(a.saveSnapshot)
	})

	// Flush any pending snapshot when the app shuts down
	fyneApp.Lifecycle().SetOnStopped(func() {
		a.snapshotSaver.Flush(a.saveSnapshot)
	})

	logger.Info("Application initialized successfully")

	return a, nil
}

// Run starts the application and displays the main window.
// This is a blocking call that runs the Fyne event loop.
func (a *App) Run(window fyne.Window) {
	a.window = window
	a.logger.Info("Starting application")
	a.window.ShowAndRun()
}

// State returns the application state for use by UI components.
func (a *App) State() *model.ApplicationState {
	return a.state
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Storage returns the storage repository.
func (a *App) Storage() storage.Repository {
	return a.storage
}

// Store returns the workspace store.
func (a *App) Store() *workspace.Store {
	return a.store
}

// Executor returns the request executor.
func (a *App) Executor() *httpclient.Executor {
	return a.executor
}

// Explainer returns the AI explainer, nil when the assistant is disabled.
func (a *App) Explainer() ai.Explainer {
	return a.explainer
}

// GitHubToken returns the sync token from the environment.
func (a *App) GitHubToken() string {
	return a.config.GitHubToken
}

// FyneApp returns the underlying Fyne application instance.
func (a *App) FyneApp() fyne.App {
	return a.fyneApp
}

// ConfigureAI rebuilds the explainer after the key or model changed in
// preferences. An empty key disables the assistant.
func (a *App) ConfigureAI(apiKey, modelName string) {
	a.explainer = a.buildExplainer(apiKey, modelName)
	a.executor.SetExplainer(a.explainer)
}

// SetRequestTimeout applies a new per-request timeout from preferences.
func (a *App) SetRequestTimeout(seconds float64) {
	a.executor.SetTimeout(time.Duration(seconds * float64(time.Second)))
}

func (a *App) buildExplainer(apiKey, modelName string) ai.Explainer {
	if apiKey == "" {
		a.logger.Info("AI assistant disabled, no API key configured")
		return nil
	}
	explainer, err := ai.NewGeminiExplainer(context.Background(), apiKey, modelName, a.logger)
	if err != nil {
		a.logger.Warn("Failed to initialize AI assistant", "error", err)
		return nil
	}
	a.logger.Info("AI assistant enabled", "model", modelName)
	return explainer
}

// restoreSnapshot loads the workspace saved by the previous session.
func (a *App) restoreSnapshot() {
	doc, err := a.storage.LoadSnapshot()
	if err != nil {
		a.logger.Warn("Failed to load workspace snapshot", "error", err)
		return
	}
	if doc == nil {
		a.logger.Debug("No workspace snapshot found, starting empty")
		return
	}

	activities, folders, err := workspace.Deserialize(*doc)
	if err != nil {
		a.logger.Warn("Workspace snapshot is not usable", "error", err)
		return
	}

	a.store.ReplaceAll(activities, folders)
	a.logger.Info("Workspace restored",
		slog.Int("activities", len(activities)),
		slog.Int("folders", len(folders)),
	)
}

// saveSnapshot persists the current workspace.
func (a *App) saveSnapshot() {
	doc := workspace.Serialize(a.store.Activities(), a.store.Folders())
	if err := a.storage.SaveSnapshot(doc); err != nil {
		a.logger.Error("Failed to save workspace snapshot", "error", err)
	}
}
