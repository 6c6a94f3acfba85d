package errors

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifyError_Timeout(t *testing.T) {
	uiErr := ClassifyError(context.DeadlineExceeded)
	assert.Equal(t, "Request Timeout", uiErr.Title)
	assert.Equal(t, SeverityError, uiErr.Severity)
}

func TestClassifyError_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("moving folder %q: %w", "f1", ErrCycleDetected)
	uiErr := ClassifyError(err)
	assert.Equal(t, "Invalid Move", uiErr.Title)
	assert.Equal(t, SeverityWarning, uiErr.Severity)
}

func TestClassifyError_DNSThroughURLError(t *testing.T) {
	// The shape net/http produces for a resolution failure.
	err := &url.Error{
		Op:  "Get",
		URL: "https://no-such-host.invalid/",
		Err: &net.DNSError{Err: "no such host", Name: "no-such-host.invalid", IsNotFound: true},
	}
	uiErr := ClassifyError(err)
	assert.Equal(t, "Host Not Found", uiErr.Title)
}

func TestClassifyError_ConnectionRefused(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "http://127.0.0.1:1/",
		Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
	}
	uiErr := ClassifyError(err)
	assert.Equal(t, "Connection Refused", uiErr.Title)
}

func TestClassifyError_UnsupportedVersion(t *testing.T) {
	uiErr := ClassifyError(fmt.Errorf("version 2: %w", ErrUnsupportedVersion))
	assert.Equal(t, "Unsupported Export Version", uiErr.Title)
}

func TestClassifyError_ValidationError(t *testing.T) {
	uiErr := ClassifyError(ValidationError{Field: "url", Message: "URL must not be empty"})
	assert.Equal(t, "Validation Error", uiErr.Title)
	assert.Equal(t, "URL must not be empty", uiErr.Message)
}

func TestClassifyError_PassthroughUIError(t *testing.T) {
	original := &UIError{Title: "Custom", Severity: SeverityInfo}
	assert.Same(t, original, ClassifyError(original))
}

func TestClassifyError_UnknownFallback(t *testing.T) {
	uiErr := ClassifyError(fmt.Errorf("boom"))
	assert.Equal(t, "Unexpected Error", uiErr.Title)
	assert.Equal(t, "boom", uiErr.Details)
}
