package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RepoState describes the checked-out state of a working copy
type RepoState struct {
	Branch   string
	Head     string
	Detached bool
	Empty    bool
}

// GitService defines read-only inspection of git repositories
type GitService interface {
	Inspect(ctx context.Context, path string) (*RepoState, error)
}

// GitModelService implements GitService with go-git
type GitModelService struct {
	logger Logger
}

// NewGitService creates a new git service
func NewGitService(logger Logger) GitService {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &GitModelService{
		logger: logger,
	}
}

// Inspect opens the repository at path and reports its HEAD
func (gs *GitModelService) Inspect(ctx context.Context, repoPath string) (*RepoState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			gs.logger.Debug("repository has no commits", "repo", repoPath)
			return &RepoState{Empty: true}, nil
		}
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	state := &RepoState{
		Head:     head.Hash().String(),
		Detached: !head.Name().IsBranch(),
	}
	if !state.Detached {
		state.Branch = head.Name().Short()
	}
	return state, nil
}

// ShortHead returns the abbreviated HEAD hash
func (s *RepoState) ShortHead() string {
	if len(s.Head) > 7 {
		return s.Head[:7]
	}
	return s.Head
}
