// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

const (
	maxSubjectLength = 72
	maxSubjectFiles  = 2
	defaultType      = "chore"
)

// commitTypes maps summary keywords to conventional commit types.
var commitTypes = []struct {
	keywords []string
	prefix   string
}{
	{[]string{"fix", "bug", "repair", "patch", "resolve", "correct"}, "fix"},
	{[]string{"refactor", "restructure", "reorganize", "clean up", "simplify", "rename"}, "refactor"},
	{[]string{"test", "coverage"}, "test"},
	{[]string{"doc", "docs", "comment", "readme", "documentation"}, "docs"},
	{[]string{"style", "format", "lint", "whitespace"}, "style"},
	{[]string{"perf", "performance", "optimize", "speed"}, "perf"},
	{[]string{"ci", "pipeline", "workflow"}, "ci"},
	{[]string{"build", "dependency", "deps", "module"}, "build"},
	{[]string{"add", "create", "implement", "new", "feature", "introduce"}, "feat"},
}

// pathTypes classifies an edited file by its path. The first match wins.
var pathTypes = []struct {
	prefix string
	match  func(p string) bool
}{
	{"ci", func(p string) bool {
		return strings.HasPrefix(p, ".github/workflows/") || path.Base(p) == ".gitlab-ci.yml"
	}},
	{"test", func(p string) bool {
		base := path.Base(p)
		return strings.HasSuffix(base, "_test.go") ||
			strings.HasPrefix(base, "test_") ||
			strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") ||
			strings.HasPrefix(p, "tests/") || strings.Contains(p, "/tests/")
	}},
	{"build", func(p string) bool {
		switch path.Base(p) {
		case "go.mod", "go.sum", "Makefile", "Dockerfile", "package.json",
			"requirements.txt", "pyproject.toml", "setup.py", "Cargo.toml":
			return true
		}
		return false
	}},
	{"docs", func(p string) bool {
		ext := strings.ToLower(path.Ext(p))
		return ext == ".md" || ext == ".rst" || strings.HasPrefix(p, "docs/")
	}},
}

// GenerateMessage creates a conventional commit message for an edit call.
// The commit type comes from summary keywords when a summary is given,
// otherwise from the edited paths. The message ends with the tool trailer
// that Undo looks for.
func GenerateMessage(summary string, format types.Format, files []string) string {
	files = uniqueFiles(files)

	var commitType string
	if strings.TrimSpace(summary) != "" {
		commitType = inferCommitType(summary)
	} else {
		commitType = inferPathType(files)
		summary = fmt.Sprintf("apply %s edits to %s", format, describeFiles(files))
	}

	msg := buildSubject(commitType, summary)
	if body := buildBody(files); body != "" {
		msg += "\n\n" + body
	}
	return msg + "\n\n" + toolTrailer
}

// inferCommitType determines the conventional commit type from summary
// keywords.
func inferCommitType(summary string) string {
	lower := strings.ToLower(summary)
	for _, ct := range commitTypes {
		for _, kw := range ct.keywords {
			if containsWord(lower, kw) {
				return ct.prefix
			}
		}
	}
	return defaultType
}

// inferPathType returns a type only when every file agrees on it.
func inferPathType(files []string) string {
	if len(files) == 0 {
		return defaultType
	}
	var found string
	for _, f := range files {
		t := classifyPath(filepath.ToSlash(f))
		if t == "" || (found != "" && t != found) {
			return defaultType
		}
		found = t
	}
	return found
}

func classifyPath(p string) string {
	for _, pt := range pathTypes {
		if pt.match(p) {
			return pt.prefix
		}
	}
	return ""
}

// containsWord checks whether text contains keyword as a whole word
// (bounded by non-letter characters or string edges). For multi-word
// keywords like "clean up", it falls back to substring matching.
func containsWord(text, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		leftOK := start == 0 || !unicode.IsLetter(rune(text[start-1]))
		rightOK := end == len(text) || !unicode.IsLetter(rune(text[end]))
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

// describeFiles names up to two files, or counts them.
func describeFiles(files []string) string {
	switch {
	case len(files) == 0:
		return "no files"
	case len(files) <= maxSubjectFiles:
		return strings.Join(files, ", ")
	default:
		return fmt.Sprintf("%d files", len(files))
	}
}

// buildSubject creates the first line of the commit message.
// Format: "type: summary" (max 72 chars).
func buildSubject(commitType, summary string) string {
	summary = strings.TrimSpace(summary)
	if summary != "" {
		summary = strings.ToLower(summary[:1]) + summary[1:]
	}
	summary = strings.TrimRight(summary, ".")

	subject := fmt.Sprintf("%s: %s", commitType, summary)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

// buildBody lists the edited files.
func buildBody(files []string) string {
	if len(files) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("Edited files:\n")
	for _, f := range files {
		buf.WriteString(fmt.Sprintf("- %s\n", f))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// uniqueFiles drops repeated paths, keeping first-seen order.
func uniqueFiles(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
