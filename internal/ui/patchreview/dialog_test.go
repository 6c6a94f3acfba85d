package patchreview

import (
	"context"
	"errors"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/logging"
	"github.com/Apollo-Blaze/CallSensei/internal/patch"
)

type stubApplier struct {
	previewResult []patch.FileChange
	previewErr    error
	applyCalls    int
}

func (s *stubApplier) Preview(string) ([]patch.FileChange, error) {
	return s.previewResult, s.previewErr
}

func (s *stubApplier) Apply(string) ([]patch.FileChange, error) {
	s.applyCalls++
	return s.previewResult, nil
}

func newTestDialog(t *testing.T, stub *stubApplier) *Dialog {
	t.Helper()
	app := test.NewApp()
	window := app.NewWindow("test")
	t.Cleanup(window.Close)

	d := NewDialog(window, logging.NewNopLogger())
	d.newApplier = func(string) applier { return stub }
	return d
}

func TestDialog_PreviewRequiresDirectory(t *testing.T) {
	stub := &stubApplier{previewResult: []patch.FileChange{{Path: "a.txt", Status: patch.StatusAdd}}}
	d := newTestDialog(t, stub)

	d.handlePreview()

	assert.Empty(t, d.previewChanges)
	assert.True(t, d.applyBtn.Disabled())
}

func TestDialog_PreviewPopulatesChanges(t *testing.T) {
	stub := &stubApplier{previewResult: []patch.FileChange{
		{Path: "src/a.go", Status: patch.StatusModify},
		{Path: "src/b.go", Status: patch.StatusAdd},
	}}
	d := newTestDialog(t, stub)
	d.setBaseDir(t.TempDir())

	d.handlePreview()

	require.Len(t, d.previewChanges, 2)
	assert.False(t, d.applyBtn.Disabled())
}

func TestDialog_PreviewErrorClearsChanges(t *testing.T) {
	stub := &stubApplier{previewErr: errors.New("no chunks")}
	d := newTestDialog(t, stub)
	d.setBaseDir(t.TempDir())

	d.handlePreview()

	assert.Empty(t, d.previewChanges)
	assert.True(t, d.applyBtn.Disabled())
}

func TestDialog_ChangingDirectoryInvalidatesPreview(t *testing.T) {
	stub := &stubApplier{previewResult: []patch.FileChange{{Path: "a.txt", Status: patch.StatusAdd}}}
	d := newTestDialog(t, stub)
	d.setBaseDir(t.TempDir())
	d.handlePreview()
	require.NotEmpty(t, d.previewChanges)

	d.setBaseDir(t.TempDir())

	assert.Empty(t, d.previewChanges)
	assert.True(t, d.applyBtn.Disabled())
}

func TestDialog_ApplyWithoutPreviewIsNoop(t *testing.T) {
	stub := &stubApplier{}
	d := newTestDialog(t, stub)
	d.setBaseDir(t.TempDir())

	d.handleApply()

	assert.Zero(t, stub.applyCalls)
}

func TestDialog_GenerateFillsPatchEntry(t *testing.T) {
	d := newTestDialog(t, &stubApplier{})
	d.SetGenerator(func(_ context.Context, instruction string) (string, error) {
		return "DELETE FILE: " + instruction, nil
	})

	row := d.buildGenerateRow().(*fyne.Container)
	entry := row.Objects[0].(*widget.Entry)
	button := row.Objects[1].(*widget.Button)

	entry.SetText("old.txt")
	test.Tap(button)

	require.Eventually(t, func() bool {
		return d.patchEntry.Text == "DELETE FILE: old.txt"
	}, time.Second, 10*time.Millisecond)
}

func TestDialog_GenerateEmptyInstructionIgnored(t *testing.T) {
	called := false
	d := newTestDialog(t, &stubApplier{})
	d.SetGenerator(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})

	row := d.buildGenerateRow().(*fyne.Container)
	test.Tap(row.Objects[1].(*widget.Button))

	assert.False(t, called)
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "A", statusBadge(patch.StatusAdd))
	assert.Equal(t, "M", statusBadge(patch.StatusModify))
	assert.Equal(t, "D", statusBadge(patch.StatusDelete))
}
