package response

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
)

func sampleResponse() domain.Response {
	// StatusText carries only the reason phrase; the panel prepends the code
	return domain.NewResponse("req-1", 200, "OK",
		map[string]string{"Content-Type": "application/json"},
		`{"ok":true}`, 120)
}

func TestPanel_SetResponse_UpdatesState(t *testing.T) {
	test.NewApp()
	state := model.NewResponseState()
	panel := NewPanel(state)

	panel.SetResponse(sampleResponse())

	status, _ := state.StatusLine.Get()
	duration, _ := state.Duration.Get()
	size, _ := state.Size.Get()
	body, _ := state.TextData.Get()

	assert.Equal(t, "200 OK", status)
	assert.Equal(t, "120 ms", duration)
	assert.Equal(t, "11 B", size)
	assert.Equal(t, `{"ok":true}`, body)
	assert.Equal(t, widget.SuccessImportance, panel.statusLabel.Importance)
}

func TestPanel_SetResponse_FailureStatusStyling(t *testing.T) {
	test.NewApp()
	panel := NewPanel(model.NewResponseState())

	resp := domain.NewResponse("req-1", 404, "Not Found", nil, "gone", 30)
	panel.SetResponse(resp)

	assert.Equal(t, widget.DangerImportance, panel.statusLabel.Importance)
}

func TestPanel_JSONBodyUsesRichText(t *testing.T) {
	test.NewApp()
	panel := NewPanel(model.NewResponseState())

	panel.SetResponse(sampleResponse())

	require.Len(t, panel.bodyStack.Objects, 1)
	assert.Same(t, panel.bodyRich, panel.bodyStack.Objects[0])
	assert.NotEmpty(t, panel.bodyRich.Segments)
}

func TestPanel_PlainBodyUsesTextEntry(t *testing.T) {
	test.NewApp()
	panel := NewPanel(model.NewResponseState())

	resp := domain.NewResponse("req-1", 200, "OK",
		map[string]string{"Content-Type": "text/plain"}, "hello", 10)
	panel.SetResponse(resp)

	require.Len(t, panel.bodyStack.Objects, 1)
	assert.Same(t, panel.bodyText, panel.bodyStack.Objects[0])
	assert.Equal(t, "hello", panel.bodyText.Text)
}

func TestPanel_SetErrorSwitchesView(t *testing.T) {
	test.NewApp()
	state := model.NewResponseState()
	panel := NewPanel(state)

	panel.SetError("connection refused")

	require.Len(t, panel.contentContainer.Objects, 1)
	assert.Same(t, panel.errorContent, panel.contentContainer.Objects[0])
	assert.Equal(t, "connection refused", panel.errorLabel.Text)
}

func TestPanel_ClearShowsPlaceholder(t *testing.T) {
	test.NewApp()
	panel := NewPanel(model.NewResponseState())

	panel.SetResponse(sampleResponse())
	panel.Clear()

	require.Len(t, panel.contentContainer.Objects, 1)
	assert.Same(t, panel.placeholder, panel.contentContainer.Objects[0])
}

func TestBodyViewer_IgnoresEdits(t *testing.T) {
	test.NewApp()
	v := newBodyViewer()
	v.SetText("immutable body")

	v.TypedRune('x')
	v.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})

	assert.Equal(t, "immutable body", v.Text)
	assert.True(t, v.TextStyle.Monospace)
}

func TestIsJSONContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/problem+json", true},
		{"APPLICATION/JSON", true},
		{"text/html", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isJSONContentType(tt.contentType), tt.contentType)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "11 B", formatSize(11))
	assert.Equal(t, "2.0 KB", formatSize(2048))
	assert.Equal(t, "1.5 MB", formatSize(1536*1024))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON(`{"a":1}`))
	assert.Equal(t, "not json", prettyJSON("not json"))
}

func TestHighlightJSON_PromotesKeys(t *testing.T) {
	segments := highlightJSON(`{"name": "ada", "age": 36}`)
	require.NotEmpty(t, segments)

	// The first string token precedes a colon so it renders as a key
	var sawKeyColor bool
	for _, seg := range segments {
		text, ok := seg.(*widget.TextSegment)
		if !ok {
			continue
		}
		if text.Text == `"name"` {
			sawKeyColor = true
			assert.Equal(t, tokenColorName[jsonTokenKey], text.Style.ColorName)
		}
	}
	assert.True(t, sawKeyColor)
}
