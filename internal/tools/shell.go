package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ExitCodeTimeout is reported when a command is killed by the timeout.
	ExitCodeTimeout = 124
	// ExitCodeStartFailed is reported when the shell could not be started.
	ExitCodeStartFailed = -1

	truncatedMarker = "\n[truncated]"
)

// ShellReport is the outcome of one shell command.
type ShellReport struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Timeout  time.Duration
}

// String renders the report in the form the model is shown.
func (r ShellReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Exit Code: %d\n", r.ExitCode)
	b.WriteString("--- STDOUT ---\n")
	b.WriteString(strings.TrimRight(r.Stdout, "\n"))
	b.WriteString("\n--- STDERR ---\n")
	b.WriteString(strings.TrimRight(r.Stderr, "\n"))
	if r.TimedOut {
		fmt.Fprintf(&b, "\nError: Command timed out after %d seconds.", int(r.Timeout.Round(time.Second)/time.Second))
	}
	return b.String()
}

// Shell runs commands through sh -c in a fixed working directory.
type Shell struct {
	workDir   string
	timeout   time.Duration
	maxOutput int
}

// NewShell creates a Shell. A zero timeout means 30s; a zero maxOutput disables truncation.
func NewShell(workDir string, timeout time.Duration, maxOutput int) *Shell {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Shell{workDir: workDir, timeout: timeout, maxOutput: maxOutput}
}

// Run executes command and always returns a report. It never returns an error for a failing command.
func (s *Shell) Run(ctx context.Context, command string) ShellReport {
	report := ShellReport{Command: command, Timeout: s.timeout}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = s.workDir
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	report.Stdout = s.truncate(stdout.String())
	report.Stderr = s.truncate(stderr.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		report.ExitCode = 0
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		report.ExitCode = ExitCodeTimeout
		report.TimedOut = true
	case errors.As(err, &exitErr):
		report.ExitCode = exitErr.ExitCode()
	default:
		report.ExitCode = ExitCodeStartFailed
		if report.Stderr != "" {
			report.Stderr += "\n"
		}
		report.Stderr += err.Error()
	}
	return report
}

func (s *Shell) truncate(out string) string {
	if s.maxOutput <= 0 || len(out) <= s.maxOutput {
		return out
	}
	cut := s.maxOutput
	// Never split a multi-byte character.
	for cut > 0 && !utf8.RuneStart(out[cut]) {
		cut--
	}
	return out[:cut] + truncatedMarker
}

// Execute is the executor behind the command-line tools.
func (s *Shell) Execute(ctx context.Context, args map[string]any) (string, error) {
	command, _ := args["command"].(string)
	if strings.TrimSpace(command) == "" {
		return "Error: No command provided.", nil
	}
	return s.Run(ctx, command).String(), nil
}

// Fixed returns an executor that always runs command, ignoring the arguments.
func (s *Shell) Fixed(command string) ExecutorFunc {
	return func(ctx context.Context, _ map[string]any) (string, error) {
		return s.Run(ctx, command).String(), nil
	}
}

// RAMUsageCommand returns the memory report command for the host OS.
func RAMUsageCommand() string {
	if runtime.GOOS == "darwin" {
		return "vm_stat"
	}
	return "free -h"
}

// ProcessListCommand returns the process listing command.
func ProcessListCommand() string {
	return "ps aux"
}
