package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/ai"
	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
	"github.com/Apollo-Blaze/CallSensei/internal/logging"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

type stubExplainer struct {
	reply string
	err   error
	calls []ai.ExplainArgs
}

func (s *stubExplainer) Explain(_ context.Context, args ai.ExplainArgs) (string, error) {
	s.calls = append(s.calls, args)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestExecutor(t *testing.T, explainer ai.Explainer) (*Executor, *workspace.Store) {
	t.Helper()
	store := workspace.NewStore(logging.NewNopLogger())
	return NewExecutor(store, explainer, 5*time.Second, logging.NewNopLogger()), store
}

func addActivity(t *testing.T, store *workspace.Store, method, url string) domain.Activity {
	t.Helper()
	act := domain.NewDefaultActivity()
	act.Request.Method = method
	act.URL = url
	act.Request.URL = url
	require.NoError(t, store.AddActivity(act))
	return act
}

func TestSend_AttachesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)

	resp, err := exec.Send(context.Background(), SendOptions{
		Method:       "GET",
		URL:          server.URL,
		ActivityID:   act.ID,
		ActivityName: act.Name,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "OK", resp.StatusText)
	assert.True(t, resp.IsSuccess)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, `{"ok":true}`, resp.Body)
	assert.GreaterOrEqual(t, resp.Duration, int64(0))

	stored, ok := store.ActivityByID(act.ID)
	require.True(t, ok)
	require.NotNil(t, stored.Response)
	assert.Equal(t, act.ID, stored.Response.RequestID)
}

func TestSend_GetBodyNotTransmitted(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)

	_, err := exec.Send(context.Background(), SendOptions{
		Method:     "GET",
		URL:        server.URL,
		Body:       `{"should":"not be sent"}`,
		ActivityID: act.ID,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestSend_PostBodyTransmitted(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "POST", server.URL)

	resp, err := exec.Send(context.Background(), SendOptions{
		Method:     "POST",
		URL:        server.URL,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"name":"Ada"}`,
		ActivityID: act.ID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ada"}`, string(received))
	assert.True(t, resp.IsSuccess)
}

func TestSend_ErrorStatusIsNotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)

	resp, err := exec.Send(context.Background(), SendOptions{
		Method:     "GET",
		URL:        server.URL,
		ActivityID: act.ID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status)
	assert.False(t, resp.IsSuccess)

	// Error statuses still attach, only transport failures do not
	stored, ok := store.ActivityByID(act.ID)
	require.True(t, ok)
	require.NotNil(t, stored.Response)
	assert.Equal(t, 404, stored.Response.Status)
}

func TestSend_RenamesPlaceholderToURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)
	require.Equal(t, domain.DefaultActivityName, act.Name)

	_, err := exec.Send(context.Background(), SendOptions{
		Method:       "GET",
		URL:          server.URL,
		ActivityID:   act.ID,
		ActivityName: act.Name,
	}, nil)
	require.NoError(t, err)

	stored, ok := store.ActivityByID(act.ID)
	require.True(t, ok)
	assert.Equal(t, server.URL, stored.Name)
	assert.Equal(t, server.URL, stored.Request.Name)
}

func TestSend_KeepsCustomName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)
	store.RenameActivity(act.ID, "Fetch users")

	_, err := exec.Send(context.Background(), SendOptions{
		Method:       "GET",
		URL:          server.URL,
		ActivityID:   act.ID,
		ActivityName: "Fetch users",
	}, nil)
	require.NoError(t, err)

	stored, ok := store.ActivityByID(act.ID)
	require.True(t, ok)
	assert.Equal(t, "Fetch users", stored.Name)
}

func TestSend_DeletedActivityDropsResponse(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)

	done := make(chan struct{})
	var resp *domain.Response
	var sendErr error
	go func() {
		defer close(done)
		resp, sendErr = exec.Send(context.Background(), SendOptions{
			Method:     "GET",
			URL:        server.URL,
			ActivityID: act.ID,
		}, nil)
	}()

	store.DeleteActivity(act.ID)
	close(release)
	<-done

	require.NoError(t, sendErr)
	require.NotNil(t, resp)

	_, ok := store.ActivityByID(act.ID)
	assert.False(t, ok)
	assert.Empty(t, store.Activities())
}

func TestSend_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	exec, store := newTestExecutor(t, nil)
	act := addActivity(t, store, "GET", server.URL)

	var sinkMessages []string
	resp, err := exec.Send(context.Background(), SendOptions{
		Method:     "GET",
		URL:        server.URL,
		ActivityID: act.ID,
	}, func(msg string) { sinkMessages = append(sinkMessages, msg) })

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.Nil(t, resp)

	// Prior response state untouched
	stored, ok := store.ActivityByID(act.ID)
	require.True(t, ok)
	assert.Nil(t, stored.Response)

	require.Len(t, sinkMessages, 2)
	assert.Equal(t, analyzingMessage, sinkMessages[0])
	assert.Contains(t, sinkMessages[1], "Failed to send request")
}

func TestSend_EmptyURLRejected(t *testing.T) {
	exec, _ := newTestExecutor(t, nil)

	_, err := exec.Send(context.Background(), SendOptions{Method: "GET", URL: "  "}, nil)
	require.Error(t, err)

	var vErr apperrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestSend_ExplainerReceivesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "hello")
	}))
	defer server.Close()

	explainer := &stubExplainer{reply: "This request fetched a greeting."}
	exec, store := newTestExecutor(t, explainer)
	act := addActivity(t, store, "GET", server.URL)

	var sinkMessages []string
	_, err := exec.Send(context.Background(), SendOptions{
		Method:     "GET",
		URL:        server.URL,
		ActivityID: act.ID,
	}, func(msg string) { sinkMessages = append(sinkMessages, msg) })
	require.NoError(t, err)

	require.Len(t, sinkMessages, 2)
	assert.Equal(t, analyzingMessage, sinkMessages[0])
	assert.Equal(t, "This request fetched a greeting.", sinkMessages[1])

	require.Len(t, explainer.calls, 1)
	assert.Equal(t, ai.ModeResponse, explainer.calls[0].Mode)
	require.NotNil(t, explainer.calls[0].Response)
	assert.Equal(t, 200, explainer.calls[0].Response.Status)
}

func TestSend_ExplainerFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	explainer := &stubExplainer{err: errors.New("quota exceeded")}
	exec, store := newTestExecutor(t, explainer)
	act := addActivity(t, store, "GET", server.URL)

	var sinkMessages []string
	_, err := exec.Send(context.Background(), SendOptions{
		Method:     "GET",
		URL:        server.URL,
		ActivityID: act.ID,
	}, func(msg string) { sinkMessages = append(sinkMessages, msg) })
	require.NoError(t, err)

	require.Len(t, sinkMessages, 2)
	assert.Contains(t, sinkMessages[1], "AI explanation unavailable")
}

func TestFlattenHeaders_FirstValueWins(t *testing.T) {
	header := http.Header{}
	header.Add("Set-Cookie", "a=1")
	header.Add("Set-Cookie", "b=2")
	header.Set("Content-Type", "text/plain")

	flat := flattenHeaders(header)
	assert.Equal(t, "a=1", flat["Set-Cookie"])
	assert.Equal(t, "text/plain", flat["Content-Type"])
}
