package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snapfriend/snapfriend/pkg/log"
)

// Runner executes an external command and captures its output.
// Implementations must be safe for serial reuse across requests.
type Runner interface {
	// Run executes argv[0] with the remaining arguments. A non-zero exit
	// status is returned as *ExitError carrying the captured output.
	Run(ctx context.Context, argv ...string) (stdout string, err error)
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Argv   []string
	Code   int
	Stdout string
	Stderr string
}

// Error returns the captured stderr when present, since that is the text
// relayed to clients for diagnostics.
func (e *ExitError) Error() string {
	if strings.TrimSpace(e.Stderr) != "" {
		return strings.TrimSpace(e.Stderr)
	}
	return fmt.Sprintf("%s exited with code %d", strings.Join(e.Argv, " "), e.Code)
}

// ExecRunner runs commands on the host via os/exec.
type ExecRunner struct {
	logger zerolog.Logger
}

// NewExecRunner creates a new host command runner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{logger: log.WithComponent("subp")}
}

// Run executes the command synchronously, capturing stdout and stderr.
func (r *ExecRunner) Run(ctx context.Context, argv ...string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("no command specified")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		code := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			return "", fmt.Errorf("failed to run %s: %w", argv[0], err)
		}
		return stdout.String(), &ExitError{
			Argv:   argv,
			Code:   code,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
	}

	r.logger.Debug().
		Strs("argv", argv).
		Str("stderr", strings.TrimSpace(stderr.String())).
		Msg("command completed")

	return stdout.String(), nil
}
