// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editformat extracts typed edit units from LLM response text and
// routes them to the applier for their format.
package editformat

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

const (
	markerSearch  = "<<<<<<< SEARCH"
	markerDivider = "======="
	markerReplace = ">>>>>>> REPLACE"

	diffInfo = "diff"
)

// ParseError describes a block that looked like an edit but could not be
// turned into a unit.
type ParseError struct {
	Line    int    // Line where the block starts (1-based)
	Message string // What went wrong
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// NoEditsFoundError is returned when the text holds no valid block for the
// requested format. It aborts the whole call.
type NoEditsFoundError struct {
	Format types.Format
	Errors []*ParseError // Malformed blocks seen while scanning
}

func (e *NoEditsFoundError) Error() string {
	var msg string
	switch e.Format {
	case types.FormatWhole:
		msg = "No valid file blocks found. Format should be: filename.ext followed by ``` code ```"
	case types.FormatUdiff:
		msg = "No valid diff blocks found. Format should be: ```diff with --- and +++ headers and @@ hunks ```"
	default:
		msg = "No valid search/replace blocks found. Format should be: filename.ext followed by ``` <<<<<<< SEARCH ... ======= ... >>>>>>> REPLACE ```"
	}
	for _, pe := range e.Errors {
		msg += "\n" + pe.Error()
	}
	return msg
}

// ParseResult holds the units extracted for one format.
type ParseResult[U any] struct {
	Units       []U           // Units in the order their blocks appear
	Errors      []*ParseError // Blocks that were recognized but are unusable
	BlocksFound int           // Blocks recognized for the format
}

// ParseWhole extracts whole-file blocks: a filename line followed by a
// fenced block holding the complete file content.
func ParseWhole(text string) (*ParseResult[types.WholeFileUnit], error) {
	lines := splitLines(text)
	result := &ParseResult[types.WholeFileUnit]{}

	for i := 0; i < len(lines); {
		b, ok := nextFence(lines, i)
		if !ok {
			break
		}
		if b.filename == "" {
			i = b.next()
			continue
		}
		if !b.closed {
			result.Errors = append(result.Errors, &ParseError{
				Line:    b.line(),
				Message: fmt.Sprintf("unclosed block for %s: missing closing ```", b.filename),
			})
			i = b.next()
			continue
		}

		result.Units = append(result.Units, types.WholeFileUnit{
			Path:    b.filename,
			Content: joinLines(b.body),
			Line:    b.line(),
		})
		result.BlocksFound++
		i = b.end
	}

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{Format: types.FormatWhole, Errors: result.Errors}
	}
	return result, nil
}

// ParseSearchReplace extracts SEARCH/REPLACE blocks. Each block is a
// filename line, a fence, the three markers, and a closing fence. Several
// SEARCH/REPLACE pairs may share one fence. Search and replace text may
// hold fences of their own; only a fence after a REPLACE marker closes the
// block.
func ParseSearchReplace(text string) (*ParseResult[types.SearchReplaceUnit], error) {
	lines := splitLines(text)
	result := &ParseResult[types.SearchReplaceUnit]{}

	for i := 0; i < len(lines); {
		b, ok := nextFence(lines, i)
		if !ok {
			break
		}
		if b.filename == "" || len(b.body) == 0 || !isMarker(b.body[0], markerSearch) {
			i = b.next()
			continue
		}

		units, end, perr := searchReplacePairs(lines, b)
		if perr != nil {
			result.Errors = append(result.Errors, perr)
			i = b.next()
			continue
		}

		result.Units = append(result.Units, units...)
		result.BlocksFound++
		i = end
	}

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{Format: types.FormatDiff, Errors: result.Errors}
	}
	return result, nil
}

// searchReplacePairs reads the SEARCH/REPLACE pairs that follow the opening
// fence of b, returning them with the index of the first line after the
// closing fence. Fence lines between markers belong to the text. The block
// is rejected whole if any pair is malformed.
func searchReplacePairs(lines []string, b *fencedBlock) ([]types.SearchReplaceUnit, int, *ParseError) {
	fail := func(idx int, msg string) *ParseError {
		return &ParseError{Line: idx + 1, Message: fmt.Sprintf("%s: %s", b.filename, msg)}
	}

	var units []types.SearchReplaceUnit
	for i := b.open + 1; i < len(lines); {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			i++
			continue
		case b.closedBy(lines[i]):
			return units, i + 1, nil
		case !isMarker(lines[i], markerSearch):
			return nil, 0, fail(i, "unexpected text after "+markerReplace)
		}
		start := i
		i++

		// Markers belong to this pair only up to the next SEARCH.
		limit := indexMarker(lines, i, markerSearch)
		if limit < 0 {
			limit = len(lines)
		}
		divider := indexMarker(lines[:limit], i, markerDivider)
		if divider < 0 {
			return nil, 0, fail(start, "unclosed block: missing "+markerDivider+" divider")
		}
		replace := indexMarker(lines[:limit], divider+1, markerReplace)
		if replace < 0 {
			return nil, 0, fail(start, "unclosed block: missing "+markerReplace+" marker")
		}

		units = append(units, types.SearchReplaceUnit{
			Path:    b.filename,
			Search:  joinLines(lines[i:divider]),
			Replace: joinLines(lines[divider+1 : replace]),
			Line:    b.line(),
		})
		i = replace + 1
	}

	return nil, 0, fail(len(lines)-1, "missing closing ``` after "+markerReplace)
}

// ParseUnifiedDiff extracts every fenced block tagged diff. The filename
// comes from the first ---/+++ header pair; the lines of all @@ hunks are
// tagged by their prefix and everything outside a hunk is ignored.
func ParseUnifiedDiff(text string) (*ParseResult[types.UnifiedDiffUnit], error) {
	lines := splitLines(text)
	result := &ParseResult[types.UnifiedDiffUnit]{}

	for i := 0; i < len(lines); {
		b, ok := nextFence(lines, i)
		if !ok {
			break
		}
		if !strings.EqualFold(b.info, diffInfo) {
			i = b.next()
			continue
		}
		if !b.closed {
			result.Errors = append(result.Errors, &ParseError{
				Line:    b.line(),
				Message: "unclosed diff block: missing closing ```",
			})
			i = b.next()
			continue
		}

		result.BlocksFound++
		i = b.end

		unit := parseDiffBody(b.body)
		unit.Line = b.line()
		if p := unit.Path(); p == "" || p == types.DevNull {
			result.Errors = append(result.Errors, &ParseError{
				Line:    b.line(),
				Message: "Could not determine filename from diff",
			})
			continue
		}
		result.Units = append(result.Units, unit)
	}

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{Format: types.FormatUdiff, Errors: result.Errors}
	}
	return result, nil
}

// parseDiffBody reads the header pair and hunk lines of one diff block.
func parseDiffBody(body []string) types.UnifiedDiffUnit {
	var unit types.UnifiedDiffUnit

	for i := 0; i+1 < len(body); i++ {
		if strings.HasPrefix(body[i], "--- ") && strings.HasPrefix(body[i+1], "+++ ") {
			unit.OldPath, unit.NewPath = headerPaths(body[i][4:], body[i+1][4:])
			break
		}
	}

	inHunk := false
	for _, line := range body {
		if strings.HasPrefix(line, "@@") {
			inHunk = true
			continue
		}
		if !inHunk || line == "" {
			continue
		}
		switch line[0] {
		case ' ':
			unit.Lines = append(unit.Lines, types.HunkLine{Kind: types.LineContext, Text: line[1:]})
		case '-':
			unit.Lines = append(unit.Lines, types.HunkLine{Kind: types.LineRemove, Text: line[1:]})
		case '+':
			unit.Lines = append(unit.Lines, types.HunkLine{Kind: types.LineAdd, Text: line[1:]})
		}
	}
	return unit
}

// headerPaths cleans the two header paths: a trailing tab-separated
// timestamp is dropped, and a git-style a/ and b/ prefix pair is removed.
func headerPaths(oldRaw, newRaw string) (oldPath, newPath string) {
	clean := func(s string) string {
		if idx := strings.IndexByte(s, '\t'); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}
	oldPath, newPath = clean(oldRaw), clean(newRaw)

	oldGit := strings.HasPrefix(oldPath, "a/") || oldPath == types.DevNull
	newGit := strings.HasPrefix(newPath, "b/") || newPath == types.DevNull
	if oldGit && newGit && oldPath != newPath {
		oldPath = strings.TrimPrefix(oldPath, "a/")
		newPath = strings.TrimPrefix(newPath, "b/")
	}
	return oldPath, newPath
}

// isMarker checks if a line matches a marker, allowing leading/trailing whitespace.
func isMarker(line, marker string) bool {
	return strings.TrimSpace(line) == marker
}

// indexMarker returns the index of the first line at or after from that
// matches marker, or -1.
func indexMarker(lines []string, from int, marker string) int {
	for i := from; i < len(lines); i++ {
		if isMarker(lines[i], marker) {
			return i
		}
	}
	return -1
}
