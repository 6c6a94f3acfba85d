package request

import (
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/httpclient"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/components"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// autosaveInterval is how long the editor waits after the last keystroke
// before writing the draft back to the store.
const autosaveInterval = 300 * time.Millisecond

// Panel is the request editor: method, URL, headers, and body for the
// selected activity. Edits autosave into the store after a short debounce;
// Send flushes any pending save first so the executor always sees the
// latest draft.
type Panel struct {
	widget.BaseWidget

	state  *model.RequestState
	store  *workspace.Store
	logger *slog.Logger

	activityID string // activity currently loaded in the editor
	loading    bool   // suppresses widget callbacks during construction and SetActivity

	methodSelect *widget.Select
	urlEntry     *widget.Entry
	bodyEditor   *widget.Entry
	formatBtn    *widget.Button
	sendBtn      *widget.Button

	// Headers
	headerKeys binding.StringList
	headerVals binding.StringList
	headerList *widget.List
	keyEntry   *widget.Entry
	valEntry   *widget.Entry

	saver *components.Debouncer

	onSend func(opts httpclient.SendOptions)
}

// NewPanel creates a request editor bound to the shared request state.
func NewPanel(state *model.RequestState, store *workspace.Store, logger *slog.Logger) *Panel {
	p := &Panel{
		state:      state,
		store:      store,
		logger:     logger,
		loading:    true, // widgets are still being built; see SetSelected below
		headerKeys: binding.NewStringList(),
		headerVals: binding.NewStringList(),
		saver:      components.NewDebouncer(autosaveInterval),
	}

	p.methodSelect = widget.NewSelect(domain.Methods, func(method string) {
		if p.loading {
			return
		}
		_ = p.state.Method.Set(method)
		p.updateBodyEnabled(method)
		p.scheduleSave()
	})
	p.methodSelect.SetSelected("GET")

	p.urlEntry = widget.NewEntry()
	p.urlEntry.SetPlaceHolder("https://api.example.com/v1/resource")
	p.urlEntry.Bind(state.URL)

	p.bodyEditor = widget.NewMultiLineEntry()
	p.bodyEditor.SetPlaceHolder(`{"field": "value"}`)
	p.bodyEditor.Wrapping = fyne.TextWrapWord
	p.bodyEditor.Bind(state.Body)

	// Autosave on any edit to the URL or body bindings
	state.URL.AddListener(binding.NewDataListener(func() {
		if p.loading {
			return
		}
		p.scheduleSave()
	}))
	state.Body.AddListener(binding.NewDataListener(func() {
		if p.loading {
			return
		}
		p.scheduleSave()
	}))

	// Header list showing key-value pairs with per-row remove
	p.headerList = widget.NewList(
		func() int {
			return p.headerKeys.Length()
		},
		func() fyne.CanvasObject {
			removeBtn := widget.NewButtonWithIcon("", nil, nil)
			return container.NewBorder(nil, nil, nil, removeBtn,
				container.NewHBox(
					widget.NewLabel(""),
					widget.NewLabel(":"),
					widget.NewLabel(""),
				),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			border := obj.(*fyne.Container)
			removeBtn := border.Objects[1].(*widget.Button)
			row := border.Objects[0].(*fyne.Container)
			keyLabel := row.Objects[0].(*widget.Label)
			valLabel := row.Objects[2].(*widget.Label)

			key, _ := p.headerKeys.GetValue(id)
			val, _ := p.headerVals.GetValue(id)
			keyLabel.SetText(key)
			valLabel.SetText(val)

			removeBtn.SetText("✕")
			removeBtn.OnTapped = func() {
				p.removeHeader(id)
			}
		},
	)

	p.keyEntry = widget.NewEntry()
	p.keyEntry.SetPlaceHolder("Header name")

	p.valEntry = widget.NewEntry()
	p.valEntry.SetPlaceHolder("Header value")

	p.formatBtn = widget.NewButton("Format", func() {
		p.formatBody()
	})

	p.sendBtn = widget.NewButton("Send", func() {
		p.handleSend()
	})
	p.sendBtn.Importance = widget.HighImportance

	p.updateBodyEnabled("GET")
	p.loading = false

	p.ExtendBaseWidget(p)
	return p
}

// SetOnSend sets the callback for when Send is clicked.
func (p *Panel) SetOnSend(fn func(opts httpclient.SendOptions)) {
	p.onSend = fn
}

// SetActivity loads the given activity into the editor. A pending autosave
// for the previous activity is flushed first so edits are not lost.
func (p *Panel) SetActivity(act domain.Activity) {
	if p.activityID != "" && p.activityID != act.ID {
		p.saver.Flush(p.persist)
	}

	p.loading = true
	defer func() { p.loading = false }()

	p.activityID = act.ID

	method := act.Request.Method
	if method == "" {
		method = "GET"
	}
	_ = p.state.Method.Set(method)
	p.methodSelect.SetSelected(method)
	_ = p.state.URL.Set(act.Request.URL)
	_ = p.state.Body.Set(act.Request.Body)

	p.setHeaders(act.Request.Headers)
	p.updateBodyEnabled(method)
	p.headerList.Refresh()
}

// Clear empties the editor when no activity is selected.
func (p *Panel) Clear() {
	p.saver.Cancel()

	p.loading = true
	defer func() { p.loading = false }()

	p.activityID = ""
	_ = p.state.Method.Set("GET")
	p.methodSelect.SetSelected("GET")
	_ = p.state.URL.Set("")
	_ = p.state.Body.Set("")
	p.setHeaders(nil)
	p.updateBodyEnabled("GET")
	p.headerList.Refresh()
}

// TriggerSend programmatically triggers the send action (for keyboard shortcut)
func (p *Panel) TriggerSend() {
	p.handleSend()
}

// FocusURL moves keyboard focus to the URL entry.
func (p *Panel) FocusURL(canvas fyne.Canvas) {
	canvas.Focus(p.urlEntry)
}

// FlushPendingSave writes any debounced edit to the store immediately.
// Called before snapshots and sync pushes.
func (p *Panel) FlushPendingSave() {
	p.saver.Flush(p.persist)
}

// CreateRenderer returns the widget renderer
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	methodRow := container.NewBorder(
		nil, nil,
		p.methodSelect,
		p.sendBtn,
		p.urlEntry,
	)

	addHeaderBtn := widget.NewButton("+ Add Header", func() {
		p.addHeader()
	})

	headerEntry := container.NewBorder(
		nil, nil,
		nil, addHeaderBtn,
		container.NewGridWithColumns(2,
			p.keyEntry,
			p.valEntry,
		),
	)

	headersContent := container.NewBorder(
		nil,
		headerEntry,
		nil, nil,
		p.headerList,
	)

	formatBox := container.NewHBox(layout.NewSpacer(), p.formatBtn)
	bodyContent := container.NewBorder(
		nil,
		formatBox,
		nil, nil,
		container.NewMax(p.bodyEditor),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Body", bodyContent),
		container.NewTabItem("Headers", headersContent),
	)

	content := container.NewBorder(
		container.NewVBox(
			methodRow,
			widget.NewSeparator(),
		),
		nil, nil, nil,
		tabs,
	)

	return widget.NewSimpleRenderer(content)
}

// scheduleSave queues a debounced write of the draft back to the store.
func (p *Panel) scheduleSave() {
	if p.activityID == "" {
		return
	}
	p.saver.Do(p.persist)
}

// persist writes the current editor state into the selected activity.
func (p *Panel) persist() {
	id := p.activityID
	if id == "" {
		return
	}
	act, ok := p.store.ActivityByID(id)
	if !ok {
		return
	}

	req := act.Request.Clone()
	req.Method, _ = p.state.Method.Get()
	req.URL, _ = p.state.URL.Get()
	req.Body, _ = p.state.Body.Get()
	req.Headers = p.headersMap()

	p.store.UpdateActivity(id, workspace.ActivityUpdate{
		URL:     &req.URL,
		Request: &req,
	})
}

// handleSend flushes the draft and invokes the onSend callback.
func (p *Panel) handleSend() {
	if p.onSend == nil || p.activityID == "" {
		return
	}

	p.saver.Flush(p.persist)

	act, ok := p.store.ActivityByID(p.activityID)
	if !ok {
		return
	}

	method, _ := p.state.Method.Get()
	url, _ := p.state.URL.Get()
	body, _ := p.state.Body.Get()

	p.onSend(httpclient.SendOptions{
		Method:       method,
		URL:          url,
		Headers:      p.headersMap(),
		Body:         body,
		ActivityID:   p.activityID,
		ActivityName: act.Name,
	})
}

// formatBody pretty-prints the body editor content when it parses as JSON.
func (p *Panel) formatBody() {
	body, _ := p.state.Body.Get()
	if body == "" {
		return
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		p.logger.Debug("Body is not valid JSON, leaving as-is", "error", err)
		return
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return
	}
	_ = p.state.Body.Set(string(pretty))
}

// addHeader adds a new header row from the entry fields.
func (p *Panel) addHeader() {
	key := p.keyEntry.Text
	val := p.valEntry.Text

	if key == "" {
		return // Don't add empty keys
	}

	_ = p.headerKeys.Append(key)
	_ = p.headerVals.Append(val)

	p.keyEntry.SetText("")
	p.valEntry.SetText("")

	p.headerList.Refresh()
	p.scheduleSave()
}

// removeHeader deletes the header row at the given index.
func (p *Panel) removeHeader(index int) {
	keys, _ := p.headerKeys.Get()
	vals, _ := p.headerVals.Get()
	if index < 0 || index >= len(keys) {
		return
	}

	_ = p.headerKeys.Set(append(keys[:index:index], keys[index+1:]...))
	_ = p.headerVals.Set(append(vals[:index:index], vals[index+1:]...))

	p.headerList.Refresh()
	p.scheduleSave()
}

// setHeaders replaces the header lists with the given map. Map iteration
// order randomizes, so keys are sorted for a stable list.
func (p *Panel) setHeaders(headers map[string]string) {
	names := make([]string, 0, len(headers))
	for key := range headers {
		names = append(names, key)
	}
	sort.Strings(names)

	keys := make([]string, 0, len(headers))
	vals := make([]string, 0, len(headers))
	for _, key := range names {
		keys = append(keys, key)
		vals = append(vals, headers[key])
	}
	_ = p.headerKeys.Set(keys)
	_ = p.headerVals.Set(vals)
}

// headersMap builds the header map from the list bindings. Later duplicates
// of a key win, matching what the wire would do on assignment.
func (p *Panel) headersMap() map[string]string {
	headers := make(map[string]string)
	length := p.headerKeys.Length()
	for i := 0; i < length; i++ {
		key, _ := p.headerKeys.GetValue(i)
		val, _ := p.headerVals.GetValue(i)
		headers[key] = val
	}
	return headers
}

// updateBodyEnabled disables the body editor for methods that do not
// transmit a body.
func (p *Panel) updateBodyEnabled(method string) {
	if domain.AllowsBody(method) {
		p.bodyEditor.Enable()
		p.formatBtn.Enable()
	} else {
		p.bodyEditor.Disable()
		p.formatBtn.Disable()
	}
}
