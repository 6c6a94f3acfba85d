// Package patch applies AI-suggested code changes to local files. It is a
// best-effort text transform, not a spec-compliant diff/patch
// implementation: reconstruction from hunk lines keeps added and context
// lines and ignores line offsets entirely.
package patch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
)

// Status describes what applying a chunk does to its file.
type Status string

const (
	StatusAdd    Status = "add"
	StatusModify Status = "modify"
	StatusDelete Status = "delete"
)

// FileChange is one planned or applied change.
type FileChange struct {
	Path   string
	Status Status
}

// Markers recognized while splitting a patch blob into chunks.
const (
	oldFilePrefix  = "--- "
	newFilePrefix  = "+++ "
	deletedMarker  = "/dev/null"
	deleteLinetag  = "DELETE FILE:"
	fullContentTag = "=== FILE:"
	fullContentEnd = "=== END"
)

// chunk is one recognized unit of a patch blob.
type chunk struct {
	path        string
	status      Status
	fullContent string // set for sentinel blocks
	hunkLines   []string
}

// Applier writes patch chunks into files under a base directory.
type Applier struct {
	baseDir string
	logger  *slog.Logger
}

// NewApplier creates an applier rooted at baseDir.
func NewApplier(baseDir string, logger *slog.Logger) *Applier {
	return &Applier{baseDir: baseDir, logger: logger}
}

// Preview parses patchText and reports what Apply would do, without
// touching the filesystem.
func (a *Applier) Preview(patchText string) ([]FileChange, error) {
	chunks, err := splitChunks(patchText)
	if err != nil {
		return nil, err
	}

	changes := make([]FileChange, 0, len(chunks))
	for _, c := range chunks {
		status := c.status
		if status != StatusDelete {
			target, err := a.resolvePath(c.path)
			if err != nil {
				return nil, err
			}
			if _, statErr := os.Stat(target); os.IsNotExist(statErr) {
				status = StatusAdd
			} else {
				status = StatusModify
			}
		}
		changes = append(changes, FileChange{Path: c.path, Status: status})
	}
	return changes, nil
}

// Apply writes every recognized chunk and returns the changes made.
// Chunks are applied in order; a failure stops the run and reports the
// changes already written.
func (a *Applier) Apply(patchText string) ([]FileChange, error) {
	chunks, err := splitChunks(patchText)
	if err != nil {
		return nil, err
	}

	var applied []FileChange
	for _, c := range chunks {
		target, err := a.resolvePath(c.path)
		if err != nil {
			return applied, err
		}

		switch c.status {
		case StatusDelete:
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return applied, fmt.Errorf("delete %s: %w", c.path, err)
			}
			a.logger.Info("patch deleted file", slog.String("path", c.path))
			applied = append(applied, FileChange{Path: c.path, Status: StatusDelete})

		default:
			content := c.fullContent
			if c.fullContent == "" && len(c.hunkLines) > 0 {
				content = reconstructFromHunks(c.hunkLines)
			}

			status := StatusModify
			if _, statErr := os.Stat(target); os.IsNotExist(statErr) {
				status = StatusAdd
			}

			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return applied, fmt.Errorf("create parent directory for %s: %w", c.path, err)
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return applied, fmt.Errorf("write %s: %w", c.path, err)
			}

			a.logger.Info("patch wrote file",
				slog.String("path", c.path),
				slog.String("status", string(status)),
				slog.Int("bytes", len(content)))
			applied = append(applied, FileChange{Path: c.path, Status: status})
		}
	}

	return applied, nil
}

// resolvePath joins a chunk path onto the base directory, rejecting
// absolute paths and traversal outside it.
func (a *Applier) resolvePath(relPath string) (string, error) {
	if relPath == "" {
		return "", apperrors.ValidationError{Field: "path", Message: "patch chunk has no file path"}
	}
	if filepath.IsAbs(relPath) {
		return "", apperrors.ValidationError{Field: "path", Message: fmt.Sprintf("absolute path %q not allowed", relPath)}
	}

	target := filepath.Join(a.baseDir, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(a.baseDir, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", apperrors.ValidationError{Field: "path", Message: fmt.Sprintf("path %q escapes the target directory", relPath)}
	}
	return target, nil
}

// splitChunks scans patchText for recognizable chunks. Returns
// ErrNoPatchChunks when nothing in the blob looks like a patch.
func splitChunks(patchText string) ([]chunk, error) {
	lines := strings.Split(patchText, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var chunks []chunk
	var current *chunk
	inFullContent := false
	var contentLines []string

	flush := func() {
		if current != nil {
			chunks = append(chunks, *current)
			current = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")

		if inFullContent {
			if strings.TrimSpace(trimmed) == fullContentEnd {
				current.fullContent = strings.Join(contentLines, "\n")
				if len(contentLines) > 0 {
					current.fullContent += "\n"
				}
				inFullContent = false
				flush()
				continue
			}
			contentLines = append(contentLines, trimmed)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, fullContentTag):
			flush()
			path := strings.TrimSpace(strings.TrimPrefix(trimmed, fullContentTag))
			current = &chunk{path: path, status: StatusModify}
			contentLines = nil
			inFullContent = true

		case strings.HasPrefix(trimmed, deleteLinetag):
			flush()
			path := strings.TrimSpace(strings.TrimPrefix(trimmed, deleteLinetag))
			chunks = append(chunks, chunk{path: path, status: StatusDelete})

		case strings.HasPrefix(trimmed, oldFilePrefix):
			flush()
			current = &chunk{status: StatusModify}

		case strings.HasPrefix(trimmed, newFilePrefix):
			target := strings.TrimSpace(strings.TrimPrefix(trimmed, newFilePrefix))
			if current == nil {
				current = &chunk{status: StatusModify}
			}
			if target == deletedMarker {
				// The old-file header carries the path for deletions,
				// but that form is rare from models; treat as
				// unrecognized unless a path was already seen.
				current.status = StatusDelete
			} else {
				current.path = normalizeDiffPath(target)
			}

		case strings.HasPrefix(trimmed, "@@"):
			// Hunk header; offsets are ignored

		case current != nil && len(trimmed) > 0 && (trimmed[0] == '+' || trimmed[0] == '-' || trimmed[0] == ' '):
			current.hunkLines = append(current.hunkLines, trimmed)

		case current != nil && trimmed == "":
			current.hunkLines = append(current.hunkLines, " ")
		}
	}

	if inFullContent && current != nil {
		// Unterminated sentinel block: take what was collected
		current.fullContent = strings.Join(contentLines, "\n")
		if len(contentLines) > 0 {
			current.fullContent += "\n"
		}
	}
	flush()

	valid := chunks[:0]
	for _, c := range chunks {
		if c.path != "" {
			valid = append(valid, c)
		}
	}

	if len(valid) == 0 {
		return nil, apperrors.ErrNoPatchChunks
	}
	return valid, nil
}

// normalizeDiffPath strips the conventional a/ and b/ prefixes.
func normalizeDiffPath(path string) string {
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}

// reconstructFromHunks builds file content from added and context lines,
// dropping removals. With a single complete hunk this yields the new file;
// with partial hunks it yields only those regions, which is the documented
// best-effort limitation.
func reconstructFromHunks(hunkLines []string) string {
	var b strings.Builder
	for _, line := range hunkLines {
		switch line[0] {
		case '+', ' ':
			b.WriteString(line[1:])
			b.WriteByte('\n')
		case '-':
			// dropped
		}
	}
	return b.String()
}
