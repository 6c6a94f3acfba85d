package response

import (
	"fmt"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
	"github.com/Apollo-Blaze/CallSensei/internal/ui/components"
)

// Panel displays the latest response for the selected activity: status
// line, timing, headers and body. JSON bodies get syntax coloring; other
// content types fall back to a selectable plain-text view.
type Panel struct {
	widget.BaseWidget

	state *model.ResponseState

	statusLabel   *widget.Label
	durationLabel *widget.Label
	sizeLabel     *widget.Label
	bodyText      *bodyViewer
	bodyRich      *widget.RichText
	bodyScroll    *container.Scroll
	bodyStack     *fyne.Container
	headersBox    *fyne.Container
	errorLabel    *widget.Label
	loadingBar    *widget.ProgressBarInfinite

	// Container for switching between placeholder, response and error views
	contentContainer *fyne.Container
	placeholder      *fyne.Container
	responseContent  *fyne.Container
	errorContent     *fyne.Container
}

// NewPanel creates a response panel bound to the application state.
func NewPanel(state *model.ResponseState) *Panel {
	p := &Panel{
		state: state,
	}
	p.ExtendBaseWidget(p)
	p.initializeComponents()
	p.setupBindings()
	return p
}

func (p *Panel) initializeComponents() {
	p.statusLabel = widget.NewLabel("")
	p.statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	p.durationLabel = widget.NewLabel("")
	p.sizeLabel = widget.NewLabel("")

	// Plain-text body view for non-JSON content
	p.bodyText = newBodyViewer()

	// Colored body view for JSON content
	p.bodyRich = widget.NewRichText()
	p.bodyRich.Wrapping = fyne.TextWrapWord

	p.bodyStack = container.NewStack(p.bodyText)
	p.bodyScroll = container.NewScroll(p.bodyStack)

	p.headersBox = container.NewVBox()

	p.loadingBar = widget.NewProgressBarInfinite()
	p.loadingBar.Hide()

	p.errorLabel = widget.NewLabel("")
	p.errorLabel.Wrapping = fyne.TextWrapWord

	placeholderLabel := widget.NewLabel("Send a request to see its response here")
	placeholderLabel.Alignment = fyne.TextAlignCenter
	p.placeholder = container.NewCenter(placeholderLabel)

	metaRow := container.NewHBox(
		p.statusLabel,
		widget.NewSeparator(),
		p.durationLabel,
		p.sizeLabel,
	)

	p.responseContent = container.NewBorder(
		container.NewVBox(
			metaRow,
			p.headersBox,
			widget.NewSeparator(),
		),
		nil, nil, nil,
		p.bodyScroll,
	)

	p.errorContent = container.NewBorder(
		widget.NewLabel("Error:"),
		nil, nil, nil,
		p.errorLabel,
	)

	p.contentContainer = container.NewStack(p.placeholder)
}

func (p *Panel) setupBindings() {
	p.statusLabel.Bind(p.state.StatusLine)
	p.durationLabel.Bind(p.state.Duration)
	p.sizeLabel.Bind(p.state.Size)

	p.state.Loading.AddListener(binding.NewDataListener(func() {
		loading, _ := p.state.Loading.Get()
		if loading {
			p.loadingBar.Start()
			p.loadingBar.Show()
		} else {
			p.loadingBar.Stop()
			p.loadingBar.Hide()
		}
	}))

	p.state.Error.AddListener(binding.NewDataListener(func() {
		errorMsg, _ := p.state.Error.Get()
		if errorMsg != "" {
			p.errorLabel.SetText(errorMsg)
			p.showError()
		}
	}))
}

// SetResponse renders a completed exchange.
func (p *Panel) SetResponse(resp domain.Response) {
	_ = p.state.Error.Set("")
	_ = p.state.StatusLine.Set(fmt.Sprintf("%d %s", resp.Status, resp.StatusText))
	_ = p.state.Duration.Set(fmt.Sprintf("%d ms", resp.Duration))
	_ = p.state.Size.Set(formatSize(resp.Size))
	_ = p.state.TextData.Set(resp.Body)

	p.setHeaders(resp.Headers)
	p.setBody(resp.Body, resp.ContentType)

	if resp.IsSuccess {
		p.statusLabel.Importance = widget.SuccessImportance
	} else {
		p.statusLabel.Importance = widget.DangerImportance
	}
	p.statusLabel.Refresh()

	p.showResponse()
}

// SetError shows an error message in place of a response.
func (p *Panel) SetError(message string) {
	_ = p.state.TextData.Set("")
	_ = p.state.StatusLine.Set("")
	_ = p.state.Duration.Set("")
	_ = p.state.Size.Set("")
	_ = p.state.Error.Set(message)
}

// SetLoading shows or hides the in-flight indicator.
func (p *Panel) SetLoading(loading bool) {
	_ = p.state.Loading.Set(loading)
}

// Clear returns the panel to its empty placeholder state.
func (p *Panel) Clear() {
	_ = p.state.Error.Set("")
	_ = p.state.StatusLine.Set("")
	_ = p.state.TextData.Set("")
	_ = p.state.Duration.Set("")
	_ = p.state.Size.Set("")
	p.contentContainer.Objects = []fyne.CanvasObject{p.placeholder}
	p.contentContainer.Refresh()
}

// setBody picks the display widget for the body based on content type.
func (p *Panel) setBody(body, contentType string) {
	if isJSONContentType(contentType) {
		pretty := prettyJSON(body)
		p.bodyRich.Segments = highlightJSON(pretty)
		p.bodyRich.Refresh()
		p.bodyStack.Objects = []fyne.CanvasObject{p.bodyRich}
	} else {
		p.bodyText.SetText(body)
		p.bodyStack.Objects = []fyne.CanvasObject{p.bodyText}
	}
	p.bodyStack.Refresh()
	p.bodyScroll.ScrollToTop()
}

// setHeaders rebuilds the collapsible headers section.
func (p *Panel) setHeaders(headers map[string]string) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := container.NewVBox()
	for _, name := range names {
		label := widget.NewLabel(name + ": " + headers[name])
		label.Wrapping = fyne.TextWrapWord
		rows.Add(label)
	}

	section := components.NewCountedSection("Headers", len(headers), rows)
	p.headersBox.Objects = []fyne.CanvasObject{section}
	p.headersBox.Refresh()
}

func (p *Panel) showResponse() {
	p.contentContainer.Objects = []fyne.CanvasObject{p.responseContent}
	p.contentContainer.Refresh()
}

func (p *Panel) showError() {
	p.contentContainer.Objects = []fyne.CanvasObject{p.errorContent}
	p.contentContainer.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(
		nil,
		p.loadingBar,
		nil, nil,
		p.contentContainer,
	)
	return widget.NewSimpleRenderer(content)
}

// MinSize implements fyne.Widget.
func (p *Panel) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// isJSONContentType reports whether the content type carries JSON,
// including suffixed types like application/problem+json.
func isJSONContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	ct = strings.TrimSpace(ct)
	return ct == "application/json" || strings.HasSuffix(ct, "+json")
}

// formatSize renders a byte count in a compact human unit.
func formatSize(bytes int) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
