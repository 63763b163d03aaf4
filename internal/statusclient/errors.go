package statusclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates the server rejected the API key
	ErrTypeAuth
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed or incomplete response
	ErrTypeParse
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening on the server address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// StatusError is a failed status fetch. Every kind is terminal for the
// refresh that caused it; the controller never retries.
type StatusError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Server     string    // Server base URL (for context)
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *StatusError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a specific error type
func ClassifyNetworkError(err error, server string) *StatusError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &StatusError{Type: ErrTypeTimeout, Message: "request timed out", Err: err, Server: server}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &StatusError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
			Server:  server,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &StatusError{Type: ErrTypeConnectionRefused, Message: "server refused connection", Err: err, Server: server}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err, server)
	}

	return &StatusError{Type: ErrTypeNetwork, Message: "network error occurred", Err: err, Server: server}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *StatusError {
	classified := ClassifyNetworkError(err, "")
	if classified == nil {
		return &StatusError{Type: ErrTypeNetwork, Message: message}
	}
	classified.Message = message
	return classified
}

// NewAuthError creates an authentication error
func NewAuthError(statusCode int, message string) *StatusError {
	return &StatusError{Type: ErrTypeAuth, Message: message, StatusCode: statusCode}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *StatusError {
	return &StatusError{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *StatusError {
	return &StatusError{Type: ErrTypeParse, Message: message, Err: err}
}

func asStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	ok := errors.As(err, &se)
	return se, ok
}

// IsNetworkError checks if an error is a transport failure (including timeout, connection refused and DNS)
func IsNetworkError(err error) bool {
	if se, ok := asStatusError(err); ok {
		switch se.Type {
		case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
			return true
		}
	}
	return false
}

// IsTimeout checks if an error is a request timeout
func IsTimeout(err error) bool {
	se, ok := asStatusError(err)
	return ok && se.Type == ErrTypeTimeout
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	se, ok := asStatusError(err)
	return ok && se.Type == ErrTypeAuth
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	se, ok := asStatusError(err)
	return ok && se.Type == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	se, ok := asStatusError(err)
	return ok && se.Type == ErrTypeParse
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	se, ok := asStatusError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch se.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The status server did not respond in time.",
			"Troubleshooting:",
			"  • Check that the Raspberry Pi is powered on and reachable",
			"  • raspi-gpio can be slow on a busy host, try again",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The status server refused the connection.",
			"Troubleshooting:",
			"  • Start it with: gpiostatus serve",
			"  • Verify the server address and port",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the server hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of hostname",
			"  • Run gpiostatus scan to find servers on the local network",
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"The server rejected the API key.",
			"Troubleshooting:",
			"  • Pass the key with --api-key",
			"  • Or store it: gpiostatus settings set api_key <key>",
		}, "\n")

	case ErrTypeHTTP:
		if se.StatusCode >= 500 {
			return fmt.Sprintf("The server failed to read the GPIO state (HTTP %d). Check its log.", se.StatusCode)
		}
		return fmt.Sprintf("The server returned HTTP error %d. Check the server URL.", se.StatusCode)

	case ErrTypeParse:
		return "The server response is not a GPIO status payload. Check the server URL."

	default:
		return "Network communication failed. Check your network connection."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	se, ok := asStatusError(err)
	if !ok {
		return err.Error()
	}

	switch se.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - is gpiostatus serve running?"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeAuth:
		return "Authentication failed - check the API key"
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", se.StatusCode)
	case ErrTypeParse:
		return "Failed to parse server response"
	default:
		return "Network error - check connection"
	}
}
