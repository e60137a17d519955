package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes one command line inside a working directory
type CommandRunner interface {
	// Run returns the combined output and exit status. err is non-nil only
	// when the command could not be started at all.
	Run(ctx context.Context, workingDir string, commandLine string) (string, int, error)
}

// ShellRunner runs "<Program> <commandLine>" through "<Shell> -c"
type ShellRunner struct {
	Shell   string
	Program string
	logger  Logger
}

// NewShellRunner creates a runner for program invoked through shell
func NewShellRunner(shell, program string, logger Logger) *ShellRunner {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &ShellRunner{
		Shell:   shell,
		Program: program,
		logger:  logger,
	}
}

func (sr *ShellRunner) Run(ctx context.Context, workingDir string, commandLine string) (string, int, error) {
	line := strings.TrimSpace(sr.Program + " " + commandLine)
	sr.logger.Debug("running command", "dir", workingDir, "command", line)

	//nolint:gosec // G204: the command line is what the user asked to replay
	cmd := exec.CommandContext(ctx, sr.Shell, "-c", line)
	cmd.Dir = workingDir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err == nil {
		return buf.String(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return buf.String(), exitErr.ExitCode(), nil
	}
	return buf.String(), -1, fmt.Errorf("failed to start %s: %w", sr.Shell, err)
}

// JoinArgs rebuilds a single command line from argv. Arguments containing
// whitespace, or empty ones, are double-quoted so the shell keeps them whole.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\r\v\f") {
		return arg
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '\\', '$', '`':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
