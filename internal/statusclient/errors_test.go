package statusclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"
)

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"deadline", context.DeadlineExceeded, ErrTypeTimeout},
		{"dns", &net.DNSError{Name: "pi.local", Err: "no such host"}, ErrTypeDNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ErrTypeConnectionRefused},
		{"other", errors.New("boom"), ErrTypeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err, "http://pi")
			if got.Type != tt.want {
				t.Errorf("ClassifyNetworkError() type = %v, want %v", got.Type, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error does not wrap the cause")
			}
		})
	}

	if ClassifyNetworkError(nil, "") != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	err := fmt.Errorf("refresh 3: %w", NewAuthError(401, "bad key"))
	if !IsAuthError(err) {
		t.Error("IsAuthError() misses a wrapped error")
	}
	if IsHTTPError(err) || IsParseError(err) || IsNetworkError(err) {
		t.Error("auth error matched another predicate")
	}
}

func TestErrorString(t *testing.T) {
	err := NewParseError("failed to parse", errors.New("unexpected EOF"))
	if got := err.Error(); got != "Parse Error: failed to parse (caused by: unexpected EOF)" {
		t.Errorf("Error() = %q", got)
	}
	if got := NewHTTPError(404, "not found").Error(); got != "HTTP Error: not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestHints(t *testing.T) {
	for _, err := range []error{
		NewAuthError(401, "x"),
		NewHTTPError(500, "x"),
		NewHTTPError(404, "x"),
		NewParseError("x", nil),
		ClassifyNetworkError(context.DeadlineExceeded, ""),
		ClassifyNetworkError(&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ""),
	} {
		if GetTroubleshootingHint(err) == "" || GetShortErrorMessage(err) == "" {
			t.Errorf("empty hint for %v", err)
		}
	}

	if got := GetShortErrorMessage(NewHTTPError(503, "x")); !strings.Contains(got, "503") {
		t.Errorf("GetShortErrorMessage() = %q", got)
	}
	if got := GetShortErrorMessage(errors.New("plain")); got != "plain" {
		t.Errorf("GetShortErrorMessage(plain) = %q", got)
	}
}
