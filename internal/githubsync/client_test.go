package githubsync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	apperrors "github.com/Apollo-Blaze/CallSensei/internal/errors"
	"github.com/Apollo-Blaze/CallSensei/internal/logging"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

func testTarget() domain.SyncTarget {
	return domain.SyncTarget{Owner: "octo", Repo: "workspaces", FilePath: "team.json"}
}

func testDocument(t *testing.T) domain.ExportDocument {
	t.Helper()
	act := domain.NewDefaultActivity()
	act.URL = "https://api.example.com/ping"
	act.Request.URL = act.URL
	doc := workspace.Serialize([]domain.Activity{act}, nil)
	doc.ExportedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return doc
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := newClientWithHTTP(server.Client(), server.URL+"/", logging.NewNopLogger())
	require.NoError(t, err)
	return client
}

func TestPull_DecodesContent(t *testing.T) {
	doc := testDocument(t)
	encoded, err := workspace.Encode(doc)
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v3/repos/octo/workspaces/contents/team.json", r.URL.Path)

		payload := map[string]any{
			"type":     "file",
			"encoding": "base64",
			"name":     "team.json",
			"path":     "team.json",
			"sha":      "abc123",
			"content":  base64.StdEncoding.EncodeToString(encoded),
		}
		json.NewEncoder(w).Encode(payload)
	})

	client := newTestClient(t, handler)
	result, err := client.Pull(context.Background(), testTarget())
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.SHA)
	assert.Equal(t, domain.ExportVersion, result.Document.Version)
	require.Len(t, result.Document.Activities, 1)
	assert.Equal(t, doc.Activities[0].ID, result.Document.Activities[0].ID)
}

func TestPull_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Not Found"}`)
	})

	client := newTestClient(t, handler)
	_, err := client.Pull(context.Background(), testTarget())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "octo/workspaces:team.json")
}

func TestPull_InvalidDocument(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"type":     "file",
			"encoding": "base64",
			"sha":      "abc123",
			"content":  base64.StdEncoding.EncodeToString([]byte("not json")),
		}
		json.NewEncoder(w).Encode(payload)
	})

	client := newTestClient(t, handler)
	_, err := client.Pull(context.Background(), testTarget())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse workspace file")
}

func TestPush_CreatesWithoutSHA(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/api/v3/repos/octo/workspaces/contents/team.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		fmt.Fprint(w, `{"content":{"sha":"newsha1"}}`)
	})

	client := newTestClient(t, handler)
	sha, err := client.Push(context.Background(), testTarget(), testDocument(t), "", "")
	require.NoError(t, err)

	assert.Equal(t, "newsha1", sha)
	assert.Equal(t, DefaultCommitMessage, gotBody["message"])
	_, hasSHA := gotBody["sha"]
	assert.False(t, hasSHA)

	// Content travels base64-encoded
	raw, err := base64.StdEncoding.DecodeString(gotBody["content"].(string))
	require.NoError(t, err)
	decoded, err := workspace.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.ExportVersion, decoded.Version)
}

func TestPush_UpdatesWithSHA(t *testing.T) {
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"content":{"sha":"newsha2"}}`)
	})

	client := newTestClient(t, handler)
	sha, err := client.Push(context.Background(), testTarget(), testDocument(t), "sync workspace", "oldsha")
	require.NoError(t, err)

	assert.Equal(t, "newsha2", sha)
	assert.Equal(t, "oldsha", gotBody["sha"])
	assert.Equal(t, "sync workspace", gotBody["message"])
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name   string
		target domain.SyncTarget
		field  string
	}{
		{"missing owner", domain.SyncTarget{Repo: "r", FilePath: "p"}, "owner"},
		{"missing repo", domain.SyncTarget{Owner: "o", FilePath: "p"}, "repo"},
		{"missing path", domain.SyncTarget{Owner: "o", Repo: "r"}, "filePath"},
		{"traversal path", domain.SyncTarget{Owner: "o", Repo: "r", FilePath: "../escape.json"}, "filePath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTarget(tt.target)
			require.Error(t, err)

			var vErr apperrors.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	assert.NoError(t, validateTarget(testTarget()))
}
