package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestDefaults(t *testing.T) {
	req := NewRequest()

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, DefaultActivityName, req.Name)
	assert.NotNil(t, req.Headers)
	assert.False(t, req.Timestamp.IsZero())
}

func TestAllowsBody(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"GET", false},
		{"POST", true},
		{"PUT", true},
		{"PATCH", true},
		{"DELETE", false},
		{"HEAD", false},
		{"OPTIONS", false},
	}

	for _, tt := range tests {
		if got := AllowsBody(tt.method); got != tt.want {
			t.Errorf("AllowsBody(%q) = %v, want %v", tt.method, got, tt.want)
		}
	}
}

func TestNewResponseDerivedFields(t *testing.T) {
	resp := NewResponse("req-1", 201, "201 Created",
		map[string]string{"content-type": "application/json"},
		`{"ok":true}`, 42)

	assert.Equal(t, 11, resp.Size)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.True(t, resp.IsSuccess)

	notFound := NewResponse("req-1", 404, "404 Not Found", nil, "", 5)
	assert.False(t, notFound.IsSuccess)
	assert.NotNil(t, notFound.Headers)
}

func TestIsSuccessStatusBoundaries(t *testing.T) {
	assert.False(t, IsSuccessStatus(199))
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(299))
	assert.False(t, IsSuccessStatus(300))
}

func TestActivityDuplicate(t *testing.T) {
	a := NewDefaultActivity()
	a.Name = "Login"
	a.Request.Name = "Login"
	a.Request.Headers["Authorization"] = "Bearer x"
	a.ParentID = "folder-1"
	resp := NewResponse(a.ID, 200, "200 OK", nil, "hello", 10)
	a.Response = &resp

	dup := a.Duplicate()

	assert.NotEqual(t, a.ID, dup.ID)
	assert.Equal(t, "Login (copy)", dup.Name)
	assert.Equal(t, dup.Name, dup.Request.Name)
	assert.Equal(t, a.ParentID, dup.ParentID)
	assert.Equal(t, a.Request.Headers, dup.Request.Headers)
	assert.Equal(t, a.Response.Body, dup.Response.Body)

	// Deep copy: mutating the duplicate must not touch the source
	dup.Request.Headers["Authorization"] = "changed"
	assert.Equal(t, "Bearer x", a.Request.Headers["Authorization"])
}

func TestNewFolderDefaults(t *testing.T) {
	f := NewFolder(Folder{})
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, DefaultFolderName, f.Name)
	assert.Empty(t, f.ParentID)

	named := NewFolder(Folder{ID: "keep-me", Name: "APIs", ParentID: "p"})
	assert.Equal(t, "keep-me", named.ID)
	assert.Equal(t, "APIs", named.Name)
	assert.Equal(t, "p", named.ParentID)
}
