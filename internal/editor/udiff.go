// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

// ApplyUnifiedDiff applies the hunk lines of one diff block. A missing file
// is created from the added lines alone. An existing file is patched with
// applyHunk and written back with its own line separator.
func (e *Editor) ApplyUnifiedDiff(unit types.UnifiedDiffUnit) (*types.ApplyResult, error) {
	name := unit.Path()
	if name == "" || name == types.DevNull {
		return nil, fmt.Errorf("could not determine filename from diff")
	}

	path := e.resolve(name)
	existed, err := e.exists(path)
	if err != nil {
		return nil, err
	}

	if !existed {
		var added []string
		for _, l := range unit.Lines {
			if l.Kind == types.LineAdd {
				added = append(added, l.Text)
			}
		}
		content := strings.Join(added, "\n")
		if len(added) > 0 {
			content += "\n"
		}
		if err := e.writeFile(path, []byte(content)); err != nil {
			return nil, err
		}
		e.log().Debug("created file from diff", zap.String("path", name), zap.Int("lines", len(added)))
		return &types.ApplyResult{FilePath: name, Stage: types.StageExact, Created: true}, nil
	}

	data, err := afero.ReadFile(e.fs(), path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	lines, sep, trailing := splitFile(string(data))
	patched := applyHunk(lines, unit.Lines)

	out := strings.Join(patched, sep)
	if trailing && len(patched) > 0 {
		out += sep
	}
	if err := e.writeFile(path, []byte(out)); err != nil {
		return nil, err
	}

	added, removed := unit.Counts()
	e.log().Debug("applied diff",
		zap.String("path", name),
		zap.Int("added", added),
		zap.Int("removed", removed),
		zap.Int("lines_before", len(lines)),
		zap.Int("lines_after", len(patched)))
	return &types.ApplyResult{FilePath: name, Stage: types.StageExact}, nil
}

// applyHunk walks the hunk with a cursor into lines. A context line moves
// the cursor past the nearest matching line at or after it; a remove line
// deletes the nearest matching line at or after the cursor without moving
// it; an add line is inserted at the cursor, which then advances. Lines
// compare equal when they match after stripping trailing whitespace, and
// the first match wins. On files with repeated lines a drifted hunk can
// anchor on the wrong copy.
func applyHunk(lines []string, hunk []types.HunkLine) []string {
	out := slices.Clone(lines)
	cursor := 0

	for _, hl := range hunk {
		switch hl.Kind {
		case types.LineContext:
			if j := seekLine(out, cursor, hl.Text); j >= 0 {
				cursor = j + 1
			}
		case types.LineRemove:
			if j := seekLine(out, cursor, hl.Text); j >= 0 {
				out = slices.Delete(out, j, j+1)
			}
		case types.LineAdd:
			out = slices.Insert(out, cursor, hl.Text)
			cursor++
		}
	}
	return out
}

// seekLine returns the index of the first line at or after from that
// matches text, or -1.
func seekLine(lines []string, from int, text string) int {
	want := trimRight(text)
	for j := from; j < len(lines); j++ {
		if trimRight(lines[j]) == want {
			return j
		}
	}
	return -1
}

// splitFile splits file content into lines, reporting the line separator
// in use and whether the content ended with one. Lines are split on "\n"
// with any "\r" before it dropped, so mixed endings split correctly; the
// separator is the more common of "\r\n" and "\n".
func splitFile(content string) (lines []string, sep string, trailing bool) {
	crlf := strings.Count(content, "\r\n")
	sep = "\n"
	if crlf > strings.Count(content, "\n")-crlf {
		sep = "\r\n"
	}
	if content == "" {
		return nil, sep, false
	}
	trailing = strings.HasSuffix(content, "\n")
	lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, sep, trailing
}
