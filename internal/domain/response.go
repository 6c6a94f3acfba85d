package domain

import "strings"

// Response is an immutable snapshot of one completed HTTP exchange. It is
// attached to the activity that produced it and wholesale-replaced by the
// next send for that activity.
type Response struct {
	RequestID   string            `json:"requestId"`
	Status      int               `json:"status"`
	StatusText  string            `json:"statusText"`
	Headers     map[string]string `json:"headers"`
	Body        string            `json:"body"`
	Duration    int64             `json:"duration"` // milliseconds
	Size        int               `json:"size"`     // byte length of Body
	ContentType string            `json:"contentType"`
	IsSuccess   bool              `json:"isSuccess"`
}

// NewResponse builds a Response, deriving Size, ContentType and IsSuccess
// from the raw exchange data.
func NewResponse(requestID string, status int, statusText string, headers map[string]string, body string, durationMs int64) Response {
	if headers == nil {
		headers = map[string]string{}
	}
	return Response{
		RequestID:   requestID,
		Status:      status,
		StatusText:  statusText,
		Headers:     headers,
		Body:        body,
		Duration:    durationMs,
		Size:        len(body),
		ContentType: ExtractContentType(headers),
		IsSuccess:   IsSuccessStatus(status),
	}
}

// IsSuccessStatus reports whether status is in the 2xx range.
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// ExtractContentType returns the Content-Type header value, tolerating any
// key casing. Empty when absent.
func ExtractContentType(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return ""
}

// Clone returns a deep copy of the response.
func (r Response) Clone() Response {
	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[k] = v
	}
	c := r
	c.Headers = headers
	return c
}
