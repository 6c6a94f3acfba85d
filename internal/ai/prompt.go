package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
)

// maxBodyChars caps how much of a request or response body is embedded in a
// prompt. Large payloads add cost without adding signal.
const maxBodyChars = 2000

const systemInstruction = "You are an API assistant embedded in an HTTP request client. " +
	"Explain requests, responses, and errors in plain language. " +
	"Be concise and practical; suggest concrete fixes when something looks wrong."

// Mode selects what kind of explanation is requested.
type Mode string

const (
	// ModeAuto explains whatever is available: error first, then response,
	// then the request alone.
	ModeAuto Mode = "auto"
	// ModeRequest explains the request before it is sent.
	ModeRequest Mode = "request"
	// ModeResponse explains a received response.
	ModeResponse Mode = "response"
	// ModeChat answers a free-form question in the context of the
	// current request and response.
	ModeChat Mode = "chat"
)

// ChatTurn is one prior exchange in a conversation.
type ChatTurn struct {
	Question string
	Answer   string
}

// ExplainArgs carries everything a prompt can be built from. Request is
// required; the rest is optional depending on Mode.
type ExplainArgs struct {
	Request      *domain.Request
	Response     *domain.Response
	ErrorMessage string
	UserQuestion string
	Mode         Mode
	History      []ChatTurn
}

// buildPrompt renders args into the text sent to the model.
func buildPrompt(args ExplainArgs) string {
	var b strings.Builder

	mode := args.Mode
	if mode == "" || mode == ModeAuto {
		switch {
		case args.ErrorMessage != "":
			mode = ModeRequest
		case args.Response != nil:
			mode = ModeResponse
		default:
			mode = ModeRequest
		}
	}

	switch mode {
	case ModeResponse:
		b.WriteString("Explain this HTTP exchange. Summarize what the response means and flag anything unusual.\n\n")
	case ModeChat:
		b.WriteString("Answer the user's question about the HTTP request below.\n\n")
	default:
		if args.ErrorMessage != "" {
			b.WriteString("This HTTP request failed before a response was received. Explain the likely cause and how to fix it.\n\n")
		} else {
			b.WriteString("Explain what this HTTP request does and what kind of response to expect.\n\n")
		}
	}

	writeRequest(&b, args.Request)

	if args.ErrorMessage != "" {
		fmt.Fprintf(&b, "\nError: %s\n", args.ErrorMessage)
	}

	if mode != ModeRequest && args.Response != nil {
		writeResponse(&b, args.Response)
	}

	if mode == ModeChat {
		for _, turn := range args.History {
			fmt.Fprintf(&b, "\nUser: %s\nAssistant: %s\n", turn.Question, turn.Answer)
		}
		fmt.Fprintf(&b, "\nUser question: %s\n", args.UserQuestion)
	}

	return b.String()
}

func writeRequest(b *strings.Builder, req *domain.Request) {
	if req == nil {
		return
	}
	fmt.Fprintf(b, "Request:\n%s %s\n", req.Method, req.URL)
	writeHeaders(b, req.Headers)
	if domain.AllowsBody(req.Method) && req.Body != "" {
		fmt.Fprintf(b, "Body:\n%s\n", truncateBody(req.Body))
	}
}

func writeResponse(b *strings.Builder, resp *domain.Response) {
	fmt.Fprintf(b, "\nResponse:\nStatus: %d %s\n", resp.Status, resp.StatusText)
	fmt.Fprintf(b, "Duration: %dms, Size: %d bytes\n", resp.Duration, resp.Size)
	writeHeaders(b, resp.Headers)
	if resp.Body != "" {
		fmt.Fprintf(b, "Body:\n%s\n", truncateBody(resp.Body))
	}
}

// writeHeaders renders headers in sorted order so prompts are stable.
func writeHeaders(b *strings.Builder, headers map[string]string) {
	if len(headers) == 0 {
		return
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString("Headers:\n")
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, headers[k])
	}
}

func truncateBody(body string) string {
	if len(body) <= maxBodyChars {
		return body
	}
	return body[:maxBodyChars] + "\n... (truncated)"
}
