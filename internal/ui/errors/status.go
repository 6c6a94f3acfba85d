package errors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/model"
)

// StatusBar displays the GitHub sync status with a shape-changing icon
// indicator. Each state uses a distinct icon shape for accessibility
// (not color-only):
//   - Idle: empty radio button (circle outline)
//   - Pulling: download icon
//   - Pushing: upload icon
//   - Error: error icon (X shape)
type StatusBar struct {
	widget.BaseWidget

	state       *model.SyncState
	statusLabel *widget.Label
	indicator   *widget.Icon
}

// NewStatusBar creates a new status bar bound to the given sync state.
func NewStatusBar(state *model.SyncState) *StatusBar {
	label := widget.NewLabel("Ready")
	label.Truncation = fyne.TextTruncateEllipsis

	s := &StatusBar{
		state:       state,
		statusLabel: label,
		indicator:   widget.NewIcon(theme.RadioButtonIcon()),
	}
	s.ExtendBaseWidget(s)

	// Listen to state changes
	state.State.AddListener(binding.NewDataListener(s.updateStatus))
	state.Message.AddListener(binding.NewDataListener(s.updateStatus))

	// Set initial state
	s.updateStatus()

	return s
}

// updateStatus refreshes the status bar based on current state.
func (s *StatusBar) updateStatus() {
	stateStr, _ := s.state.State.Get()
	message, _ := s.state.Message.Get()

	switch stateStr {
	case "idle":
		s.indicator.SetResource(theme.RadioButtonIcon())
		if message == "" {
			s.statusLabel.SetText("Ready")
		} else {
			s.statusLabel.SetText(message)
		}

	case "pulling":
		s.indicator.SetResource(theme.DownloadIcon())
		if message == "" {
			s.statusLabel.SetText("Pulling...")
		} else {
			s.statusLabel.SetText(message)
		}

	case "pushing":
		s.indicator.SetResource(theme.UploadIcon())
		if message == "" {
			s.statusLabel.SetText("Pushing...")
		} else {
			s.statusLabel.SetText(message)
		}

	case "error":
		s.indicator.SetResource(theme.ErrorIcon())
		if message == "" {
			s.statusLabel.SetText("Sync Error")
		} else {
			s.statusLabel.SetText(message)
		}

	default:
		s.indicator.SetResource(theme.RadioButtonIcon())
		s.statusLabel.SetText("Unknown state")
	}

	s.statusLabel.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	statusContainer := container.NewHBox(
		s.indicator,
		s.statusLabel,
	)

	return widget.NewSimpleRenderer(statusContainer)
}

// SetState is a convenience method to update the sync state.
// State should be one of: "idle", "pulling", "pushing", "error"
func (s *StatusBar) SetState(state string, message string) {
	_ = s.state.State.Set(state)
	_ = s.state.Message.Set(message)
}
