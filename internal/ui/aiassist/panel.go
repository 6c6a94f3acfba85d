package aiassist

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/ai"
	"github.com/Apollo-Blaze/CallSensei/internal/model"
)

// Panel is the AI assistant view: the automatic explanation for the
// selected activity plus a follow-up question box. Answers accumulate as a
// conversation under the explanation.
type Panel struct {
	widget.BaseWidget

	state   *model.AIState
	history []ai.ChatTurn

	output        *widget.RichText
	outputScroll  *container.Scroll
	questionEntry *widget.Entry
	askBtn        *widget.Button
	thinkingBar   *widget.ProgressBarInfinite
	thinkingLabel *widget.Label

	onAsk func(question string, history []ai.ChatTurn)
}

// NewPanel creates the assistant panel bound to the shared AI state.
func NewPanel(state *model.AIState) *Panel {
	p := &Panel{
		state: state,
	}

	p.output = widget.NewRichTextFromMarkdown("")
	p.output.Wrapping = fyne.TextWrapWord
	p.outputScroll = container.NewScroll(p.output)

	p.questionEntry = widget.NewEntry()
	p.questionEntry.SetPlaceHolder("Ask about this request or response...")
	p.questionEntry.OnSubmitted = func(string) {
		p.handleAsk()
	}

	p.askBtn = widget.NewButton("Ask", func() {
		p.handleAsk()
	})

	p.thinkingBar = widget.NewProgressBarInfinite()
	p.thinkingBar.Hide()
	p.thinkingLabel = widget.NewLabel("Thinking...")
	p.thinkingLabel.Hide()

	// Re-render whenever the explanation binding changes
	state.Explanation.AddListener(binding.NewDataListener(func() {
		p.render()
	}))

	state.Thinking.AddListener(binding.NewDataListener(func() {
		thinking, _ := state.Thinking.Get()
		if thinking {
			p.thinkingBar.Start()
			p.thinkingBar.Show()
			p.thinkingLabel.Show()
			p.askBtn.Disable()
		} else {
			p.thinkingBar.Stop()
			p.thinkingBar.Hide()
			p.thinkingLabel.Hide()
			p.askBtn.Enable()
		}
	}))

	p.ExtendBaseWidget(p)
	return p
}

// SetOnAsk sets the callback for follow-up questions. The callback receives
// the conversation so far, excluding the new question.
func (p *Panel) SetOnAsk(fn func(question string, history []ai.ChatTurn)) {
	p.onAsk = fn
}

// SetExplanation replaces the explanation and resets the conversation.
// Called when a new response arrives or the selection changes.
func (p *Panel) SetExplanation(text string) {
	p.history = nil
	_ = p.state.Explanation.Set(text)
}

// AppendTurn records an answered follow-up question and re-renders.
func (p *Panel) AppendTurn(question, answer string) {
	p.history = append(p.history, ai.ChatTurn{Question: question, Answer: answer})
	p.render()
}

// History returns the conversation so far.
func (p *Panel) History() []ai.ChatTurn {
	turns := make([]ai.ChatTurn, len(p.history))
	copy(turns, p.history)
	return turns
}

// SetThinking toggles the in-progress indicator.
func (p *Panel) SetThinking(thinking bool) {
	_ = p.state.Thinking.Set(thinking)
}

// Clear empties the panel.
func (p *Panel) Clear() {
	p.history = nil
	_ = p.state.Explanation.Set("")
}

// CreateRenderer implements fyne.Widget.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	askRow := container.NewBorder(
		nil, nil,
		nil, p.askBtn,
		p.questionEntry,
	)

	content := container.NewBorder(
		widget.NewLabelWithStyle("AI Assistant", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(
			p.thinkingLabel,
			p.thinkingBar,
			askRow,
		),
		nil, nil,
		p.outputScroll,
	)

	return widget.NewSimpleRenderer(content)
}

func (p *Panel) handleAsk() {
	question := strings.TrimSpace(p.questionEntry.Text)
	if question == "" || p.onAsk == nil {
		return
	}
	p.questionEntry.SetText("")
	p.onAsk(question, p.History())
}

// render rebuilds the markdown view from the explanation and conversation.
func (p *Panel) render() {
	explanation, _ := p.state.Explanation.Get()

	var b strings.Builder
	b.WriteString(explanation)
	for _, turn := range p.history {
		b.WriteString("\n\n---\n\n")
		b.WriteString("**You:** " + turn.Question + "\n\n")
		b.WriteString(turn.Answer)
	}

	p.output.ParseMarkdown(b.String())
	p.outputScroll.ScrollToBottom()
}
