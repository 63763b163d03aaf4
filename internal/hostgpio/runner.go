package hostgpio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/muurk/gpiostatus/internal/logging"
)

// CommandRunner abstracts command execution on the host.
// Implementations can be real (exec) or mock (for testing).
type CommandRunner interface {
	// Exec runs a command and returns its stdout.
	Exec(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner executes commands using os/exec.
type ExecRunner struct{}

// Exec implements CommandRunner.
func (ExecRunner) Exec(ctx context.Context, args ...string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command specified")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil && stderr.Len() > 0 {
		err = fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	logging.LogCommand(args, stdout.Bytes(), time.Since(start), err)
	return stdout.Bytes(), err
}

// commandExists checks if a command is available in PATH.
func commandExists(ctx context.Context, runner CommandRunner, name string) bool {
	_, err := runner.Exec(ctx, "which", name)
	return err == nil
}
