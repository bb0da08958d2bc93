// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types holds the edit units, results, and diagnostics shared by the
// parser, the appliers, and the public API.
package types

import (
	"fmt"
	"strings"
)

// DevNull is the path a unified diff header uses for "no file".
const DevNull = "/dev/null"

// Format selects how an edit description is interpreted.
type Format int

const (
	FormatDiff  Format = iota // SEARCH/REPLACE blocks
	FormatWhole               // Whole-file rewrites
	FormatUdiff               // Unified diff hunks
)

func (f Format) String() string {
	switch f {
	case FormatDiff:
		return "diff"
	case FormatWhole:
		return "whole"
	case FormatUdiff:
		return "udiff"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format tag to a Format. The empty tag means diff.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "diff":
		return FormatDiff, nil
	case "whole":
		return FormatWhole, nil
	case "udiff":
		return FormatUdiff, nil
	default:
		return FormatDiff, fmt.Errorf("unknown edit format %q (want whole, diff or udiff)", s)
	}
}

// SearchReplaceUnit replaces the first occurrence of Search with Replace.
// An empty Search on a missing file creates the file with Replace.
type SearchReplaceUnit struct {
	Path    string // Target file path
	Search  string // Original text, each line newline-terminated
	Replace string // Replacement text, each line newline-terminated
	Line    int    // Line of the opening fence in the edit text (1-based)
}

// WholeFileUnit overwrites Path with Content.
type WholeFileUnit struct {
	Path    string
	Content string
	Line    int
}

// LineKind tags a line inside a unified diff hunk.
type LineKind int

const (
	LineContext LineKind = iota // Leading space
	LineAdd                     // Leading '+'
	LineRemove                  // Leading '-'
)

func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineAdd:
		return "add"
	case LineRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// HunkLine is one tagged line of a hunk, without its prefix.
type HunkLine struct {
	Kind LineKind
	Text string
}

// UnifiedDiffUnit is one fenced diff block: a header pair and the lines of
// all of its hunks, in order.
type UnifiedDiffUnit struct {
	OldPath string // Path from the "---" header
	NewPath string // Path from the "+++" header
	Lines   []HunkLine
	Line    int
}

// Path returns the file the unit targets: the "+++" side unless it is
// DevNull, in which case the "---" side.
func (u UnifiedDiffUnit) Path() string {
	if u.NewPath != "" && u.NewPath != DevNull {
		return u.NewPath
	}
	return u.OldPath
}

// Counts returns the number of added and removed lines.
func (u UnifiedDiffUnit) Counts() (added, removed int) {
	for _, l := range u.Lines {
		switch l.Kind {
		case LineAdd:
			added++
		case LineRemove:
			removed++
		}
	}
	return added, removed
}

// EditResult is the aggregate outcome of one apply call.
type EditResult struct {
	Success     bool     // At least one file was edited
	Message     string   // Newline-joined per-unit errors, or a summary
	EditedFiles []string // In the order units succeeded; may repeat
}

// MatchStage identifies which matching strategy located the search text.
type MatchStage int

const (
	StageExact       MatchStage = iota // Verbatim substring
	StageLineTrimmed                   // Line window, trailing whitespace ignored
	StageNone                          // No match found
)

func (s MatchStage) String() string {
	switch s {
	case StageExact:
		return "exact"
	case StageLineTrimmed:
		return "line_trimmed"
	case StageNone:
		return "none"
	default:
		return "unknown"
	}
}

// Diagnostic describes why search text could not be located. The closest
// region is informational; it is never applied.
type Diagnostic struct {
	FilePath         string  // File where the match was attempted
	SearchText       string  // What we searched for
	ClosestMatch     string  // Best partial match found (empty if none)
	Similarity       float64 // Similarity score of closest match
	ClosestLineStart int     // Starting line of the closest match (1-based)
	ClosestLineEnd   int     // Ending line of the closest match (1-based)
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("No changes made to %s - search text not found", d.FilePath)
}

// ApplyResult describes the outcome of applying a single unit.
type ApplyResult struct {
	FilePath string     // Path as written in the edit text
	Stage    MatchStage // Which matching stage succeeded (StageExact when no matching was needed)
	Created  bool       // The file did not exist before
}

// Applier applies one unit of each format to the filesystem. Failures are
// returned as errors; a *Diagnostic means the search text was not found.
type Applier interface {
	ApplyWhole(unit WholeFileUnit) (*ApplyResult, error)
	ApplySearchReplace(unit SearchReplaceUnit) (*ApplyResult, error)
	ApplyUnifiedDiff(unit UnifiedDiffUnit) (*ApplyResult, error)
}

// WriteMode selects how a direct write opens its target.
type WriteMode string

const (
	WriteTruncate WriteMode = "w"
	WriteAppend   WriteMode = "a"
)

// ParseWriteMode maps "w" or "a" to a WriteMode. The empty string means "w".
func ParseWriteMode(s string) (WriteMode, error) {
	switch s {
	case "", "w":
		return WriteTruncate, nil
	case "a":
		return WriteAppend, nil
	default:
		return WriteTruncate, fmt.Errorf("unknown write mode %q (want w or a)", s)
	}
}
