package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Apollo-Blaze/CallSensei/internal/ai"
	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// analyzingMessage is shown in the explanation pane while a request is in
// flight, before the model reply replaces it.
const analyzingMessage = "Analyzing request..."

// SendOptions describes one request execution. ActivityID ties the eventual
// response back to the tree node it belongs to.
type SendOptions struct {
	Method       string
	URL          string
	Headers      map[string]string
	Body         string
	ActivityID   string
	ActivityName string
}

// Executor sends HTTP requests and correlates responses back into the store.
type Executor struct {
	mu        sync.RWMutex
	client    *http.Client
	store     *workspace.Store
	explainer ai.Explainer
	logger    *slog.Logger
}

// NewExecutor creates an executor. explainer may be nil when no AI key is
// configured; explanations are then skipped silently.
func NewExecutor(store *workspace.Store, explainer ai.Explainer, timeout time.Duration, logger *slog.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		client:    &http.Client{Timeout: timeout},
		store:     store,
		explainer: explainer,
		logger:    logger,
	}
}

// SetExplainer swaps the explainer, typically after the API key changed in
// preferences. A nil explainer disables explanations.
func (e *Executor) SetExplainer(explainer ai.Explainer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.explainer = explainer
}

// SetTimeout replaces the per-request timeout for future sends.
func (e *Executor) SetTimeout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.client = &http.Client{Timeout: timeout}
}

func (e *Executor) httpClient() *http.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.client
}

func (e *Executor) currentExplainer() ai.Explainer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.explainer
}

// Send executes the request described by opts, attaches the resulting
// response to the activity, and streams explanation text to explainSink.
//
// When the activity still carries its placeholder name, a successful send
// renames it to the request URL. If the activity was deleted while the
// request was in flight the response is dropped.
//
// explainSink may be nil. It is called from the calling goroutine.
func (e *Executor) Send(ctx context.Context, opts SendOptions, explainSink func(string)) (*domain.Response, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, apperrors.ValidationError{Field: "url", Message: "URL must not be empty"}
	}

	if explainSink != nil {
		explainSink(analyzingMessage)
	}

	req, err := e.buildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	e.logger.Info("sending request",
		slog.String("method", opts.Method),
		slog.String("url", opts.URL),
		slog.String("activity_id", opts.ActivityID))

	start := time.Now()
	httpResp, err := e.httpClient().Do(req)
	if err != nil {
		e.logger.Warn("request failed",
			slog.String("url", opts.URL),
			slog.String("error", err.Error()))
		e.explainFailure(ctx, opts, err, explainSink)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRequestFailed, err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		e.explainFailure(ctx, opts, err, explainSink)
		return nil, fmt.Errorf("read response body: %w", err)
	}
	durationMs := time.Since(start).Milliseconds()

	resp := domain.NewResponse(
		opts.ActivityID,
		httpResp.StatusCode,
		statusText(httpResp),
		flattenHeaders(httpResp.Header),
		string(bodyBytes),
		durationMs,
	)

	e.logger.Info("received response",
		slog.Int("status", resp.Status),
		slog.Int64("duration_ms", resp.Duration),
		slog.Int("size", resp.Size))

	if attached := e.store.AttachResponse(opts.ActivityID, resp); !attached {
		e.logger.Debug("dropping response for deleted activity",
			slog.String("activity_id", opts.ActivityID))
		return &resp, nil
	}

	e.renameOnFirstSend(opts)
	e.explainResponse(ctx, opts, &resp, explainSink)

	return &resp, nil
}

func (e *Executor) buildRequest(ctx context.Context, opts SendOptions) (*http.Request, error) {
	var body io.Reader
	if domain.AllowsBody(opts.Method) && opts.Body != "" {
		body = strings.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, value := range opts.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		req.Header.Set(key, value)
	}

	return req, nil
}

// renameOnFirstSend gives a still-unnamed activity its URL as a name.
func (e *Executor) renameOnFirstSend(opts SendOptions) {
	name := strings.TrimSpace(opts.ActivityName)
	if name != "" && name != domain.DefaultActivityName {
		return
	}
	e.store.RenameActivity(opts.ActivityID, opts.URL)
}

func (e *Executor) explainResponse(ctx context.Context, opts SendOptions, resp *domain.Response, sink func(string)) {
	explainer := e.currentExplainer()
	if explainer == nil || sink == nil {
		return
	}

	text, err := explainer.Explain(ctx, ai.ExplainArgs{
		Request:  requestFromOptions(opts),
		Response: resp,
		Mode:     ai.ModeResponse,
	})
	if err != nil {
		e.logger.Warn("explanation failed", slog.String("error", err.Error()))
		sink(fmt.Sprintf("Request completed with status %d. AI explanation unavailable: %s",
			resp.Status, apperrors.ClassifyError(err).Message))
		return
	}
	sink(text)
}

func (e *Executor) explainFailure(ctx context.Context, opts SendOptions, sendErr error, sink func(string)) {
	if sink == nil {
		return
	}

	classified := apperrors.ClassifyError(sendErr)
	fallback := "Failed to send request: " + classified.Message

	explainer := e.currentExplainer()
	if explainer == nil {
		sink(fallback)
		return
	}

	text, err := explainer.Explain(ctx, ai.ExplainArgs{
		Request:      requestFromOptions(opts),
		ErrorMessage: sendErr.Error(),
		Mode:         ai.ModeRequest,
	})
	if err != nil {
		e.logger.Warn("failure explanation failed", slog.String("error", err.Error()))
		sink(fallback)
		return
	}
	sink(text)
}

func requestFromOptions(opts SendOptions) *domain.Request {
	return &domain.Request{
		ID:      opts.ActivityID,
		Method:  opts.Method,
		URL:     opts.URL,
		Headers: opts.Headers,
		Body:    opts.Body,
		Name:    opts.ActivityName,
	}
}

// flattenHeaders keeps the first value of each header, matching how the
// response pane displays them.
func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) > 0 {
			flat[key] = values[0]
		}
	}
	return flat
}

// statusText strips the numeric prefix Go includes in Response.Status,
// leaving just the reason phrase.
func statusText(resp *http.Response) string {
	text := resp.Status
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if strings.HasPrefix(text, prefix) {
		return text[len(prefix):]
	}
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
