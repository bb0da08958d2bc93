// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editformat

import "strings"

const fenceRune = '`'

// fencedBlock is one triple-backtick region found in the edit text.
type fencedBlock struct {
	open     int      // Index of the opening fence line (0-based)
	end      int      // Index of the first line after the closing fence
	indent   int      // Indentation of the opening fence
	ticks    int      // Backtick count of the opening fence
	info     string   // Language tag after the opening backticks
	filename string   // Cleaned filename from the line above, "" if none
	body     []string // Lines between the fences
	closed   bool     // False if the text ended before a closing fence
}

// line returns the 1-based line number of the opening fence.
func (b *fencedBlock) line() int {
	return b.open + 1
}

// next returns where scanning resumes after the block. An unclosed block
// only consumes its opening line so later fences are still found.
func (b *fencedBlock) next() int {
	if b.closed {
		return b.end
	}
	return b.open + 1
}

// splitLines normalizes line endings and splits text into lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// fence reports whether line is a fence marker, returning its indentation,
// backtick count, and info string.
func fence(line string) (indent, ticks int, info string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	indent = len(line) - len(trimmed)
	for ticks < len(trimmed) && trimmed[ticks] == fenceRune {
		ticks++
	}
	if ticks < 3 {
		return 0, 0, "", false
	}
	return indent, ticks, strings.TrimSpace(trimmed[ticks:]), true
}

// closes reports whether line closes a fence opened with the given
// indentation and backtick count. A closing fence carries no info string
// and is not indented deeper than its opener.
func closes(line string, openIndent, openTicks int) bool {
	indent, ticks, info, ok := fence(line)
	return ok && info == "" && ticks >= openTicks && indent <= openIndent
}

// closedBy reports whether line closes b.
func (b *fencedBlock) closedBy(line string) bool {
	return closes(line, b.indent, b.ticks)
}

// nextFence finds the first opening fence at or after index from and reads
// its body up to the matching closing fence.
func nextFence(lines []string, from int) (*fencedBlock, bool) {
	for i := from; i < len(lines); i++ {
		indent, ticks, info, ok := fence(lines[i])
		if !ok {
			continue
		}

		b := &fencedBlock{open: i, indent: indent, ticks: ticks, info: info, end: len(lines)}
		if i > 0 {
			b.filename = filenameFromLine(lines[i-1])
		}
		for j := i + 1; j < len(lines); j++ {
			if closes(lines[j], indent, ticks) {
				b.closed = true
				b.end = j + 1
				break
			}
			b.body = append(b.body, lines[j])
		}
		return b, true
	}
	return nil, false
}

// maxFilenameWords bounds how many words a filename line may have before
// it is read as a sentence.
const maxFilenameWords = 5

// filenameFromLine cleans a filename line. A line that is itself a fence
// marker is never a filename, and neither is a sentence: several words
// ending in '.', '!', '?' or an unquoted ':', or more than maxFilenameWords
// words. Paths with spaces such as "Release Notes.md" are kept.
func filenameFromLine(line string) string {
	if _, _, _, ok := fence(line); ok {
		return ""
	}
	raw := strings.TrimSpace(line)
	inner := strings.TrimSuffix(raw, ":")
	s := strings.Trim(inner, "`*")
	quoted := s != inner
	s = strings.TrimSpace(strings.TrimSuffix(s, ":"))

	if words := len(strings.Fields(s)); words > 1 {
		if words > maxFilenameWords || strings.HasSuffix(s, ".") ||
			strings.ContainsAny(raw[len(raw)-1:], ".!?") ||
			(strings.HasSuffix(raw, ":") && !quoted) {
			return ""
		}
	}
	return s
}

// joinLines terminates each line with a newline and concatenates them.
func joinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
