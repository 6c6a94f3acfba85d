package domain

import "github.com/google/uuid"

// Activity is the primary unit of work: one saved HTTP request plus its most
// recent response. The embedded Request is owned exclusively by the activity;
// Response is absent until the request has been sent at least once.
type Activity struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Request  Request   `json:"request"`
	Response *Response `json:"response,omitempty"`
	ParentID string    `json:"parentId,omitempty"` // folder id; empty = workspace root
}

// NewActivity creates an Activity wrapping the given request. The display
// name mirrors the request name and the URL mirrors the request URL.
func NewActivity(req Request) Activity {
	return Activity{
		ID:      req.ID,
		Name:    req.Name,
		URL:     req.URL,
		Request: req,
	}
}

// NewDefaultActivity creates an Activity around a fresh default request.
func NewDefaultActivity() Activity {
	return NewActivity(NewRequest())
}

// Clone returns a deep copy of the activity; the request and response are
// not shared with the original.
func (a Activity) Clone() Activity {
	c := a
	c.Request = a.Request.Clone()
	if a.Response != nil {
		resp := a.Response.Clone()
		c.Response = &resp
	}
	return c
}

// Duplicate returns a deep copy under a freshly generated id with the name
// marked as a copy. The duplicate keeps the source's parent folder.
func (a Activity) Duplicate() Activity {
	c := a.Clone()
	c.ID = uuid.New().String()
	c.Request.ID = c.ID
	if c.Name != "" {
		c.Name += " (copy)"
		c.Request.Name = c.Name
	}
	return c
}
