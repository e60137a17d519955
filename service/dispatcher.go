package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nanaki-93/grit/model"
)

// RunResult contains statistics about a fan-out
type RunResult struct {
	Ran       []string
	Skipped   []string
	Failed    []string
	TotalTime string
}

// Dispatcher replays a command inside registered repositories
type Dispatcher struct {
	registry RegistryService
	runner   CommandRunner
	out      io.Writer
	logger   Logger
}

// NewDispatcher creates a dispatcher writing banners and command output to out
func NewDispatcher(registry RegistryService, runner CommandRunner, out io.Writer, logger Logger) *Dispatcher {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &Dispatcher{
		registry: registry,
		runner:   runner,
		out:      out,
		logger:   logger,
	}
}

// RunOn runs args inside the first member named name. The Root pseudo-entry
// is a member unless ignore_root is set, so it shadows a stored entry named Root.
func (d *Dispatcher) RunOn(ctx context.Context, name string, args []string) error {
	doc, err := d.registry.Load()
	if err != nil {
		return err
	}

	repo, ok := findMember(doc.Members(), name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrRepoNotFound)
	}

	_, err = d.runIn(ctx, repo, d.registry.Resolve(repo.Path), JoinArgs(args))
	var skip *skipError
	if errors.As(err, &skip) {
		return fmt.Errorf("%s (%s): %w", name, repo.Path, ErrRepoNotFound)
	}
	return err
}

func findMember(members []model.Repository, name string) (model.Repository, bool) {
	for _, repo := range members {
		if repo.Name == name {
			return repo, true
		}
	}
	return model.Repository{}, false
}

// RunAll runs args inside every member in registration order. Members whose
// path cannot be entered are reported and skipped; non-zero exits are
// recorded but never stop the batch.
func (d *Dispatcher) RunAll(ctx context.Context, args []string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{
		Ran:     []string{},
		Skipped: []string{},
		Failed:  []string{},
	}

	doc, err := d.registry.Load()
	if err != nil {
		return nil, err
	}

	commandLine := JoinArgs(args)
	for _, repo := range doc.Members() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		dir := d.registry.Resolve(repo.Path)
		code, err := d.runIn(ctx, repo, dir, commandLine)
		var skip *skipError
		switch {
		case errors.As(err, &skip):
			fmt.Fprintf(d.out, "skipping %s: %s: %v\n", repo.Banner(), repo.Path, skip.err)
			result.Skipped = append(result.Skipped, repo.Name)
		case err != nil:
			d.logger.Error("command failed to start", "repository", repo.Name, "error", err)
			result.Failed = append(result.Failed, repo.Name)
		case code != 0:
			result.Failed = append(result.Failed, repo.Name)
		default:
			result.Ran = append(result.Ran, repo.Name)
		}
	}

	result.TotalTime = time.Since(start).Round(time.Millisecond).String()
	d.logger.Debug("run completed",
		"ran", len(result.Ran),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"took", result.TotalTime)
	return result, nil
}

// skipError marks a member whose directory could not be entered.
type skipError struct {
	err error
}

func (e *skipError) Error() string { return e.err.Error() }

func (e *skipError) Unwrap() error { return e.err }

// runIn enters dir, runs commandLine and prints it framed by banners. The
// previous working directory is restored before returning.
func (d *Dispatcher) runIn(ctx context.Context, repo model.Repository, dir string, commandLine string) (int, error) {
	restore, err := enterDir(dir)
	if err != nil {
		return 0, &skipError{err: err}
	}
	defer restore()

	fmt.Fprintf(d.out, "==> %s (%s) <==\n", repo.Banner(), repo.Path)
	output, code, err := d.runner.Run(ctx, dir, commandLine)
	if output != "" {
		fmt.Fprint(d.out, output)
		if output[len(output)-1] != '\n' {
			fmt.Fprintln(d.out)
		}
	}
	if err != nil {
		return code, err
	}
	if code != 0 {
		fmt.Fprintf(d.out, "<== %s exited with status %d\n", repo.Banner(), code)
	}
	return code, nil
}

// enterDir changes into dir and returns a func that changes back.
func enterDir(dir string) (func(), error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, err
	}
	return func() {
		_ = os.Chdir(prev)
	}, nil
}
