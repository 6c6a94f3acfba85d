package errors

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed, can retry
	SeverityFatal                        // Application must exit
)

// ErrorAction represents a user action that can be taken in response to an error.
type ErrorAction struct {
	Label   string
	Handler func()
}

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string        // Short user-facing title
	Message  string        // Detailed user-facing message
	Recovery []string      // Suggested actions (bullet points)
	Actions  []ErrorAction // Buttons for user actions
	Details  string        // Technical details (collapsed by default)
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts a standard error into a UIError with appropriate
// severity, title, message, and recovery suggestions. Transport errors from
// net/http unwrap through *url.Error, so the net-level checks below see the
// underlying cause.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	// Check if already a UIError
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout), isNetTimeout(err):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Timeout",
			Message:  "The server took too long to respond.",
			Recovery: []string{"Try again", "Increase the timeout setting"},
			Actions:  []ErrorAction{{Label: "Retry"}, {Label: "Settings"}},
		}

	case errors.Is(err, context.Canceled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Request Cancelled",
			Message:  "The operation was cancelled.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrUserCancelled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Cancelled",
			Message:  "Operation cancelled by user.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrDuplicateID):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Duplicate Id",
			Message:  "An item with this id already exists in the workspace.",
			Recovery: []string{"Reload the workspace and try again"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrCycleDetected):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Invalid Move",
			Message:  "A folder cannot be moved into itself or one of its subfolders.",
			Recovery: []string{"Pick a different destination folder"},
		}

	case errors.Is(err, ErrUnsupportedVersion):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Unsupported Export Version",
			Message:  "The pulled document was produced by an incompatible version of CallSensei.",
			Recovery: []string{"Update CallSensei", "Re-export the workspace from the other machine"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrNoPatchChunks):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Nothing To Apply",
			Message:  "The AI output did not contain any recognizable file changes.",
			Recovery: []string{"Ask the assistant to produce a diff or full file content"},
		}

	case isDNSFailure(err):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Host Not Found",
			Message:  "The hostname could not be resolved.",
			Recovery: []string{
				"Check the URL for typos",
				"Check your network connection",
			},
			Actions: []ErrorAction{{Label: "Retry"}},
		}

	case errors.Is(err, syscall.ECONNREFUSED):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Connection Refused",
			Message:  "Nothing is listening at that address.",
			Recovery: []string{
				"Check that the server is running",
				"Verify the address and port",
			},
			Actions: []ErrorAction{{Label: "Retry"}},
		}

	case isTLSFailure(err):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "TLS Error",
			Message:  "The secure connection could not be established.",
			Recovery: []string{
				"Check the server certificate",
				"Try http:// if the server does not use TLS",
			},
			Details: err.Error(),
		}
	}

	// Validation errors
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Validation Error",
			Message:  validationErr.Message,
			Recovery: []string{"Correct the field value and try again"},
			Details:  validationErr.Error(),
		}
	}

	// A bare *url.Error that matched nothing above still gets a transport title.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Failed",
			Message:  "The request could not be completed.",
			Recovery: []string{"Check the URL", "Try again"},
			Details:  err.Error(),
		}
	}

	// Default fallback for unknown errors
	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Details:  err.Error(),
	}
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSFailure(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isTLSFailure(err error) bool {
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	// crypto/x509 errors surface as value types with no common interface;
	// fall back to a substring check on the chain.
	return strings.Contains(err.Error(), "x509:") || strings.Contains(err.Error(), "tls:")
}
