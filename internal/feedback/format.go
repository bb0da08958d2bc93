// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package feedback formats edit failures into follow-up hints for the LLM
// that produced the edits.
package feedback

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

const defaultMinSimilarity = 0.5

// FormatConfig configures mismatch hints.
type FormatConfig struct {
	MinSimilarity float64 // Closest matches below this score are not shown (default 0.5)
	MaxLines      int     // Maximum region lines to show; 0 shows all
}

// FormatMismatch renders the diagnostic's closest region with numbered
// lines so the caller can correct its SEARCH text. It returns "" when there
// is no region worth showing.
func FormatMismatch(d *types.Diagnostic, cfg FormatConfig) string {
	minSim := cfg.MinSimilarity
	if minSim == 0 {
		minSim = defaultMinSimilarity
	}
	if d == nil || d.ClosestMatch == "" || d.Similarity < minSim {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Closest match in %s at lines %d-%d (similarity %.2f):\n",
		d.FilePath, d.ClosestLineStart, d.ClosestLineEnd, d.Similarity))
	buf.WriteString("```\n")
	buf.WriteString(numberLines(d.ClosestMatch, d.ClosestLineStart, cfg.MaxLines))
	buf.WriteString("```")
	return buf.String()
}

// numberLines prefixes each line with its 1-based number, starting at first.
func numberLines(text string, first, maxLines int) string {
	lines := strings.Split(text, "\n")
	truncated := 0
	if maxLines > 0 && len(lines) > maxLines {
		truncated = len(lines) - maxLines
		lines = lines[:maxLines]
	}

	var buf strings.Builder
	for i, line := range lines {
		buf.WriteString(fmt.Sprintf("%4d │ %s\n", first+i, line))
	}
	if truncated > 0 {
		buf.WriteString(fmt.Sprintf("     … (%d more lines)\n", truncated))
	}
	return buf.String()
}
