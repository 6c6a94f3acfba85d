package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
)

// codeFixInstruction constrains the model to the chunk formats the patch
// applier understands.
const codeFixInstruction = `You are a coding assistant embedded in an HTTP client.
Produce file changes that fix the user's client code, using ONLY these formats:
- Full file replacement:
=== FILE: relative/path.ext
<complete file content>
=== END
- File deletion, on its own line:
DELETE FILE: relative/path.ext
- Or a standard unified diff with --- / +++ / @@ headers.
Paths must be relative. Output only the change chunks, no commentary.`

// CodeFixArgs describes a code-fix generation request. Request and Response
// give the model the traffic the user's code produced; Code is the snippet
// to fix and Instruction is what the user wants changed.
type CodeFixArgs struct {
	Request     *domain.Request
	Response    *domain.Response
	Code        string
	Instruction string
}

// CodeFixer generates patch text consumable by the patch applier.
type CodeFixer interface {
	GenerateCodeFix(ctx context.Context, args CodeFixArgs) (string, error)
}

// GenerateCodeFix asks the model for file changes in the applier's chunk
// formats.
func (e *GeminiExplainer) GenerateCodeFix(ctx context.Context, args CodeFixArgs) (string, error) {
	if strings.TrimSpace(args.Instruction) == "" {
		return "", fmt.Errorf("code fix: instruction is required")
	}

	prompt := buildCodeFixPrompt(args)

	e.logger.Debug("requesting code fix",
		slog.String("model", e.model),
		slog.Int("prompt_chars", len(prompt)))

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
		SystemInstruction: genai.NewContentFromText(
			codeFixInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate code fix: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("model returned no changes")
	}

	// Models like to wrap output in a fenced block despite instructions
	text = stripCodeFence(text)

	e.logger.Debug("received code fix", slog.Int("chars", len(text)))
	return text, nil
}

func buildCodeFixPrompt(args CodeFixArgs) string {
	b := &strings.Builder{}

	if args.Request != nil {
		writeRequest(b, args.Request)
	}
	if args.Response != nil {
		writeResponse(b, args.Response)
	}
	if args.Code != "" {
		fmt.Fprintf(b, "\nCurrent code:\n%s\n", truncateBody(args.Code))
	}
	fmt.Fprintf(b, "\nInstruction: %s\n", args.Instruction)

	return b.String()
}

// stripCodeFence unwraps a response that arrives as a single fenced block.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}
	last := len(lines) - 1
	if strings.TrimSpace(lines[last]) != "```" {
		return text
	}
	return strings.Join(lines[1:last], "\n")
}
