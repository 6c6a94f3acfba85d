package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultActivityName is the placeholder name given to freshly created
// requests. Sending a request whose activity still carries this name (or no
// name at all) renames the activity to the request URL.
const DefaultActivityName = "New Request"

// Methods lists the HTTP methods the request editor offers.
var Methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Request is the user-editable definition of one HTTP request.
type Request struct {
	ID        string            `json:"id"`
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body"`
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"name"`
}

// NewRequest creates a Request with defaults populated: a fresh id, GET
// method, empty header map, creation timestamp, and the placeholder name.
func NewRequest() Request {
	return Request{
		ID:        uuid.New().String(),
		Method:    "GET",
		URL:       "",
		Headers:   map[string]string{},
		Body:      "",
		Timestamp: time.Now().UTC(),
		Name:      DefaultActivityName,
	}
}

// AllowsBody reports whether the method transmits a request body.
// GET/DELETE (and the rest) silently drop any body the editor holds.
func AllowsBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// Clone returns a deep copy of the request (its header map is not shared).
func (r Request) Clone() Request {
	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = v
	}
	c := r
	c.Headers = headers
	return c
}
