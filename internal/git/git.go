// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git records applied edits as commits and reverts them. Commits
// made here carry a trailer so Undo never rewinds a user's own commit.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

const (
	toolTrailer    = "Edited-By: go-fileeditor <noreply@go-fileeditor>"
	dirtyCommitMsg = "chore: save uncommitted changes before edit\n\n" + toolTrailer
)

// ErrNotToolCommit is returned when undo targets a commit not made by
// go-fileeditor.
var ErrNotToolCommit = errors.New("not a go-fileeditor commit")

// ErrDirtyWorkTree is returned when uncommitted changes exist and DirtyCommit is false.
var ErrDirtyWorkTree = errors.New("uncommitted changes exist")

// ErrNoGit is returned when the working directory is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// Config configures git integration behavior.
type Config struct {
	WorkDir     string // Directory edits resolve against; may be below the repository root
	DirtyCommit bool   // Commit dirty files before edits instead of refusing
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo    *gogit.Repository
	cfg     Config
	workDir string // Absolute WorkDir
	root    string // Absolute worktree root
}

// Open opens the git repository containing the configured work directory.
// Returns ErrNoGit if there is none.
func Open(cfg Config) (*Repo, error) {
	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.WorkDir, err)
	}

	r, err := gogit.PlainOpenWithOptions(workDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	return &Repo{
		repo:    r,
		cfg:     cfg,
		workDir: workDir,
		root:    wt.Filesystem.Root(),
	}, nil
}

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged).
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// IsToolCommit checks whether the HEAD commit was made by go-fileeditor.
func (r *Repo) IsToolCommit() (bool, error) {
	msg, err := r.lastCommitMessage()
	if err != nil {
		return false, err
	}
	return strings.Contains(msg, toolTrailer), nil
}

// repoPath maps an edited path, relative to WorkDir or absolute, onto a
// slash-separated path relative to the worktree root.
func (r *Repo) repoPath(name string) (string, error) {
	abs := name
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.workDir, name)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the repository %s", name, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// lastCommitMessage returns the message of the HEAD commit.
func (r *Repo) lastCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("getting commit: %w", err)
	}
	return commit.Message, nil
}
