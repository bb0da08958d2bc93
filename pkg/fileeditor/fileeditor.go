// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fileeditor is the public interface of go-fileeditor, a patch
// engine that applies LLM-written edits to files. Edits arrive as text in
// one of three formats: whole files, SEARCH/REPLACE blocks, or unified
// diffs. Every call returns a single status string whose leading word
// ("Successfully" or "Error") tells the caller the outcome.
package fileeditor

import (
	"context"
	"errors"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Error types for the fileeditor API.
var (
	ErrInvalidConfig   = errors.New("invalid config")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Config configures an Editor instance.
type Config struct {
	WorkDir           string      // Directory relative edit paths resolve against (default: process working directory)
	DryRun            bool        // Apply to an in-memory overlay and report a diff instead of writing
	Commit            bool        // Commit the edited files after a successful call
	CommitSummary     string      // Commit subject summary; generated from the edits when empty
	DirtyCommit       bool        // With Commit, save uncommitted changes first instead of refusing
	MatchHints        bool        // Append the closest matching region to failed SEARCH blocks
	HintMinSimilarity float64     // Minimum similarity for a hint (default 0.5)
	HintMaxLines      int         // Maximum lines shown per hint (default 20)
	Logger            *zap.Logger // Structured logger (default: no-op)
	Fs                afero.Fs    // Filesystem to edit (default: the OS filesystem)
}

// Result holds the outcome of one call.
type Result struct {
	Success     bool     // True if at least one file was edited
	Message     string   // Per-unit errors, newline-joined, or a success summary
	EditedFiles []string // Edited paths in order; a path repeats if edited twice
	Preview     string   // Unified diff of the changes when DryRun is set
	Commit      string   // Hash of the commit recording the edits, if any
}

// Editor applies edits and writes files. Calls are independent and an
// Editor keeps no state between them. Concurrent calls that touch the same
// path race; callers serialize edits per path.
type Editor interface {
	// Apply parses edits in the given format ("whole", "diff" or "udiff";
	// "" means "diff"), applies every block it finds, and returns the
	// status string.
	Apply(ctx context.Context, format, edits string) string

	// ApplyResult is Apply with a structured result. The error is non-nil
	// only when the call could not run (bad format, dirty work tree) or
	// its commit failed.
	ApplyResult(ctx context.Context, format, edits string) (*Result, error)

	// Save writes content to filePath without parsing. Mode "w" (or "")
	// replaces the file and "a" appends to it.
	Save(ctx context.Context, content, filePath, mode string) string

	// Execute runs one tool call: a direct write when Content or FilePath
	// is set, otherwise Apply.
	Execute(ctx context.Context, p Params) string
}
