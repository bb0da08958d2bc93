// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"strings"
	"unicode"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// matchResult holds the outcome of a single match attempt.
type matchResult struct {
	start int              // Byte offset of the match start in the content
	end   int              // Byte offset of the match end in the content
	stage types.MatchStage // Which stage found the match
}

// findMatch runs the exact stage and then the line-trimmed stage against
// content. Returns nil if neither matches.
func findMatch(content, search string) *matchResult {
	if m := exactMatch(content, search); m != nil {
		return m
	}
	return lineTrimmedMatch(content, search)
}

// exactMatch finds the lowest-offset verbatim occurrence of search. The
// empty string matches at offset 0.
func exactMatch(content, search string) *matchResult {
	idx := strings.Index(content, search)
	if idx < 0 {
		return nil
	}
	return &matchResult{
		start: idx,
		end:   idx + len(search),
		stage: types.StageExact,
	}
}

// lineTrimmedMatch slides a window of the search's line count over the
// content lines and returns the first window whose lines equal the search
// lines once trailing whitespace is stripped from both. The match covers
// whole lines, including the newline of the last one.
func lineTrimmedMatch(content, search string) *matchResult {
	searchLines := contentLines(search)
	if len(searchLines) == 0 {
		return nil
	}
	for i := range searchLines {
		searchLines[i] = trimRight(searchLines[i])
	}

	lines := contentLines(content)
	n := len(searchLines)
	for i := 0; i+n <= len(lines); i++ {
		match := true
		for j := 0; j < n; j++ {
			if trimRight(lines[i+j]) != searchLines[j] {
				match = false
				break
			}
		}
		if match {
			end := byteOffsetOfLine(lines, i+n)
			if end > len(content) {
				end = len(content)
			}
			return &matchResult{
				start: byteOffsetOfLine(lines, i),
				end:   end,
				stage: types.StageLineTrimmed,
			}
		}
	}
	return nil
}

// splice replaces the matched region of content with replace. For a
// line-trimmed match the replacement takes the region's line ending, and a
// region without a final newline does not gain one.
func (m *matchResult) splice(content, replace string) string {
	if m.stage == types.StageLineTrimmed {
		region := content[m.start:m.end]
		if strings.Contains(region, "\r\n") && !strings.Contains(replace, "\r\n") {
			replace = strings.ReplaceAll(replace, "\n", "\r\n")
		}
		if !strings.HasSuffix(region, "\n") {
			replace = strings.TrimSuffix(strings.TrimSuffix(replace, "\n"), "\r")
		}
	}
	return content[:m.start] + replace + content[m.end:]
}

// findClosestMatch finds the best partial match in content for diagnostics.
// Returns the closest match text, its similarity, and line range.
func findClosestMatch(content, search string) (closest string, sim float64, lineStart, lineEnd int) {
	lines := contentLines(content)
	searchLen := len(contentLines(search))
	if searchLen == 0 || len(lines) == 0 {
		return "", 0, 0, 0
	}
	if searchLen > len(lines) {
		searchLen = len(lines)
	}

	target := strings.TrimSuffix(search, "\n")
	var bestSim float64
	var bestStart int
	for i := 0; i+searchLen <= len(lines); i++ {
		candidate := strings.Join(lines[i:i+searchLen], "\n")
		if s := similarity(candidate, target); s > bestSim {
			bestSim = s
			bestStart = i
		}
	}

	if bestSim == 0 {
		return "", 0, 0, 0
	}
	closest = strings.Join(lines[bestStart:bestStart+searchLen], "\n")
	return closest, bestSim, bestStart + 1, bestStart + searchLen
}

// similarity computes the Levenshtein-based similarity ratio between two strings
// using the go-diff library. Returns a value between 0.0 and 1.0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// contentLines splits s into lines without a phantom empty line after a
// terminal newline. The empty string has no lines.
func contentLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// byteOffsetOfLine returns the byte offset of the start of line idx
// in the content reconstructed from lines.
func byteOffsetOfLine(lines []string, idx int) int {
	offset := 0
	for i := 0; i < idx; i++ {
		offset += len(lines[i]) + 1 // +1 for newline
	}
	return offset
}
