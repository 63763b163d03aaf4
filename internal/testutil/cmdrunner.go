package testutil

import (
	"context"
	"strings"
	"sync"
)

// CommandRunner matches hostgpio.CommandRunner.
// Defined here to avoid import cycles.
type CommandRunner interface {
	Exec(ctx context.Context, args ...string) ([]byte, error)
}

// Ensure MockRunner implements CommandRunner.
var _ CommandRunner = (*MockRunner)(nil)

// MockRunner simulates host command execution. Responses are matched by
// argument prefix, with "*" as a wildcard element.
type MockRunner struct {
	mu       sync.Mutex
	handlers []mockHandler
	calls    [][]string

	// Default response when no handler matches
	DefaultOutput []byte
	DefaultError  error
}

type mockHandler struct {
	pattern []string
	output  []byte
	err     error
}

// NewMockRunner creates a new mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// On registers a response for commands matching pattern. The last matching
// registration wins.
func (m *MockRunner) On(pattern []string, output string, err error) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, mockHandler{pattern: pattern, output: []byte(output), err: err})
	return m
}

// Exec implements hostgpio.CommandRunner.
func (m *MockRunner) Exec(ctx context.Context, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), args...))

	for i := len(m.handlers) - 1; i >= 0; i-- {
		if matchArgs(args, m.handlers[i].pattern) {
			return m.handlers[i].output, m.handlers[i].err
		}
	}
	return m.DefaultOutput, m.DefaultError
}

// CallCount returns the number of calls matching the pattern.
func (m *MockRunner) CallCount(pattern []string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.calls {
		if matchArgs(call, pattern) {
			count++
		}
	}
	return count
}

// Calls returns every recorded invocation joined with spaces.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

func matchArgs(args, pattern []string) bool {
	if len(args) < len(pattern) {
		return false
	}
	for i, p := range pattern {
		if p != "*" && p != args[i] {
			return false
		}
	}
	return true
}
