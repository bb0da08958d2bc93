// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

const root = "/work"

// newMemEditor returns an Editor over an in-memory filesystem seeded with
// files, keyed by path relative to root.
func newMemEditor(t *testing.T, files map[string]string) (*Editor, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0o755))
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return &Editor{Fs: fs, Root: root}, fs
}

func readMem(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(root, name))
	require.NoError(t, err)
	return string(data)
}

func TestEditor_ApplySearchReplace(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		search      string
		replace     string
		wantContent string
		wantStage   types.MatchStage
	}{
		{
			name:        "exact match",
			fileContent: "timeout: 30\nretries: 3\n",
			search:      "retries: 3\n",
			replace:     "retries: 5\n",
			wantContent: "timeout: 30\nretries: 5\n",
			wantStage:   types.StageExact,
		},
		{
			name:        "replaces only the first occurrence",
			fileContent: "a: 1\nb: 2\na: 1\n",
			search:      "a: 1\n",
			replace:     "a: 99\n",
			wantContent: "a: 99\nb: 2\na: 1\n",
			wantStage:   types.StageExact,
		},
		{
			name:        "exact match inside a line",
			fileContent: "print(\"hello\")\n",
			search:      "hello",
			replace:     "goodbye",
			wantContent: "print(\"goodbye\")\n",
			wantStage:   types.StageExact,
		},
		{
			name:        "trailing whitespace in file",
			fileContent: "def f():   \n    return 1\t\nx = 2\n",
			search:      "def f():\n    return 1\n",
			replace:     "def f():\n    return 2\n",
			wantContent: "def f():\n    return 2\nx = 2\n",
			wantStage:   types.StageLineTrimmed,
		},
		{
			name:        "trailing whitespace in search",
			fileContent: "alpha\nbeta\n",
			search:      "beta  \n",
			replace:     "gamma\n",
			wantContent: "alpha\ngamma\n",
			wantStage:   types.StageLineTrimmed,
		},
		{
			name:        "CRLF file keeps its line endings",
			fileContent: "one\r\ntwo\r\nthree\r\n",
			search:      "one\ntwo\n",
			replace:     "uno\ndos\n",
			wantContent: "uno\r\ndos\r\nthree\r\n",
			wantStage:   types.StageLineTrimmed,
		},
		{
			name:        "last line without newline stays without one",
			fileContent: "a\nb  ",
			search:      "b\n",
			replace:     "B\n",
			wantContent: "a\nB",
			wantStage:   types.StageLineTrimmed,
		},
		{
			name:        "empty replace deletes the region",
			fileContent: "keep\ndrop\nkeep too\n",
			search:      "drop\n",
			replace:     "",
			wantContent: "keep\nkeep too\n",
			wantStage:   types.StageExact,
		},
		{
			name:        "empty search on an existing file prepends",
			fileContent: "body\n",
			search:      "",
			replace:     "header\n",
			wantContent: "header\nbody\n",
			wantStage:   types.StageExact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fs := newMemEditor(t, map[string]string{"f.txt": tt.fileContent})

			result, err := e.ApplySearchReplace(types.SearchReplaceUnit{
				Path: "f.txt", Search: tt.search, Replace: tt.replace,
			})
			require.NoError(t, err)
			assert.Equal(t, "f.txt", result.FilePath)
			assert.Equal(t, tt.wantStage, result.Stage)
			assert.False(t, result.Created)
			assert.Equal(t, tt.wantContent, readMem(t, fs, "f.txt"))
		})
	}
}

func TestEditor_ApplySearchReplace_NotFound(t *testing.T) {
	original := "line one\nline two\nline three\n"
	e, fs := newMemEditor(t, map[string]string{"f.txt": original})

	_, err := e.ApplySearchReplace(types.SearchReplaceUnit{
		Path: "f.txt", Search: "line twoo\n", Replace: "line 2\n",
	})
	require.Error(t, err)

	var diag *types.Diagnostic
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, "f.txt", diag.FilePath)
	assert.Equal(t, "line twoo\n", diag.SearchText)
	assert.Equal(t, "line two", diag.ClosestMatch)
	assert.Equal(t, 2, diag.ClosestLineStart)
	assert.Equal(t, 2, diag.ClosestLineEnd)
	assert.Equal(t, "No changes made to f.txt - search text not found", err.Error())

	assert.Equal(t, original, readMem(t, fs, "f.txt"))
}

func TestEditor_ApplySearchReplace_NoOpIsNotFound(t *testing.T) {
	e, fs := newMemEditor(t, map[string]string{"f.txt": "same\n"})

	_, err := e.ApplySearchReplace(types.SearchReplaceUnit{Path: "f.txt", Search: "same\n", Replace: "same\n"})
	var diag *types.Diagnostic
	assert.True(t, errors.As(err, &diag))
	assert.Equal(t, "same\n", readMem(t, fs, "f.txt"))
}

func TestEditor_ApplySearchReplace_CreatesFile(t *testing.T) {
	tests := []struct {
		name   string
		search string
	}{
		{"empty search", ""},
		{"blank search", "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fs := newMemEditor(t, nil)

			result, err := e.ApplySearchReplace(types.SearchReplaceUnit{
				Path: "pkg/sub/new.go", Search: tt.search, Replace: "package sub\n",
			})
			require.NoError(t, err)
			assert.True(t, result.Created)
			assert.Equal(t, "package sub\n", readMem(t, fs, "pkg/sub/new.go"))
		})
	}
}

func TestEditor_ApplySearchReplace_MissingFile(t *testing.T) {
	e, _ := newMemEditor(t, nil)

	_, err := e.ApplySearchReplace(types.SearchReplaceUnit{Path: "nope.txt", Search: "x\n", Replace: "y\n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestEditor_ApplySearchReplace_Directory(t *testing.T) {
	e, fs := newMemEditor(t, nil)
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "dir"), 0o755))

	_, err := e.ApplySearchReplace(types.SearchReplaceUnit{Path: "dir", Search: "", Replace: "x\n"})
	assert.ErrorContains(t, err, "is a directory")
}

func TestEditor_ApplyWhole(t *testing.T) {
	e, fs := newMemEditor(t, nil)
	unit := types.WholeFileUnit{Path: "a/b/c.py", Content: "x = 1\n"}

	result, err := e.ApplyWhole(unit)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "x = 1\n", readMem(t, fs, "a/b/c.py"))

	// Applying the same unit again leaves the same content.
	result, err = e.ApplyWhole(unit)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, "x = 1\n", readMem(t, fs, "a/b/c.py"))
}

func TestEditor_ApplyWhole_Overwrites(t *testing.T) {
	e, fs := newMemEditor(t, map[string]string{"f.txt": "a long original file\nwith two lines\n"})

	_, err := e.ApplyWhole(types.WholeFileUnit{Path: "f.txt", Content: "short\n"})
	require.NoError(t, err)
	assert.Equal(t, "short\n", readMem(t, fs, "f.txt"))
}

func TestEditor_AbsolutePathIgnoresRoot(t *testing.T) {
	e, fs := newMemEditor(t, nil)

	_, err := e.ApplyWhole(types.WholeFileUnit{Path: "/elsewhere/f.txt", Content: "x\n"})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/elsewhere/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
	assert.Equal(t, "/elsewhere/f.txt", e.Resolve("/elsewhere/f.txt"))
	assert.Equal(t, filepath.Join(root, "rel.txt"), e.Resolve("rel.txt"))
}

func hunk(lines ...string) []types.HunkLine {
	out := make([]types.HunkLine, 0, len(lines))
	for _, l := range lines {
		kind := types.LineContext
		switch l[0] {
		case '+':
			kind = types.LineAdd
		case '-':
			kind = types.LineRemove
		}
		out = append(out, types.HunkLine{Kind: kind, Text: l[1:]})
	}
	return out
}

func TestEditor_ApplyUnifiedDiff(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		lines       []types.HunkLine
		wantContent string
	}{
		{
			name:        "replace one line",
			fileContent: "a\nb\nc\n",
			lines:       hunk(" a", "-b", "+B", " c"),
			wantContent: "a\nB\nc\n",
		},
		{
			name:        "line count grows by added minus removed",
			fileContent: "a\nb\nc\n",
			lines:       hunk(" a", "-b", "+B1", "+B2", " c"),
			wantContent: "a\nB1\nB2\nc\n",
		},
		{
			name:        "context only is a no-op",
			fileContent: "a\nb\nc\n",
			lines:       hunk(" a", " b"),
			wantContent: "a\nb\nc\n",
		},
		{
			name:        "hunk drifted below its context",
			fileContent: "x\ny\na\nb\nc\n",
			lines:       hunk(" a", "-b", "+B", " c"),
			wantContent: "x\ny\na\nB\nc\n",
		},
		{
			name:        "missing context line is skipped",
			fileContent: "a\nb\nc\n",
			lines:       hunk(" gone", " a", "-b", "+B"),
			wantContent: "a\nB\nc\n",
		},
		{
			name:        "trailing whitespace ignored when locating",
			fileContent: "a  \nb\t\nc\n",
			lines:       hunk(" a", "-b", "+B"),
			wantContent: "a  \nB\nc\n",
		},
		{
			name:        "add at end of file",
			fileContent: "a\nb\n",
			lines:       hunk(" a", " b", "+c"),
			wantContent: "a\nb\nc\n",
		},
		{
			name:        "no trailing newline preserved",
			fileContent: "a\nb",
			lines:       hunk(" a", "-b", "+B"),
			wantContent: "a\nB",
		},
		{
			name:        "mixed endings locate LF lines",
			fileContent: "a\r\nb\nc\r\nd\r\n",
			lines:       hunk(" a", "-b", "+B", " c"),
			wantContent: "a\r\nB\r\nc\r\nd\r\n",
		},
		{
			name:        "CRLF preserved",
			fileContent: "a\r\nb\r\n",
			lines:       hunk(" a", "-b", "+c"),
			wantContent: "a\r\nc\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fs := newMemEditor(t, map[string]string{"f.txt": tt.fileContent})

			result, err := e.ApplyUnifiedDiff(types.UnifiedDiffUnit{
				OldPath: "f.txt", NewPath: "f.txt", Lines: tt.lines,
			})
			require.NoError(t, err)
			assert.Equal(t, "f.txt", result.FilePath)
			assert.False(t, result.Created)
			assert.Equal(t, tt.wantContent, readMem(t, fs, "f.txt"))
		})
	}
}

func TestEditor_ApplyUnifiedDiff_LineCount(t *testing.T) {
	original := "one\ntwo\nthree\nfour\nfive\n"
	e, fs := newMemEditor(t, map[string]string{"f.txt": original})

	unit := types.UnifiedDiffUnit{
		OldPath: "f.txt",
		NewPath: "f.txt",
		Lines:   hunk(" one", "-two", "-three", "+2", "+3", "+3.5", " four"),
	}
	_, err := e.ApplyUnifiedDiff(unit)
	require.NoError(t, err)

	added, removed := unit.Counts()
	got := readMem(t, fs, "f.txt")
	assert.Equal(t, strings.Count(original, "\n")+added-removed, strings.Count(got, "\n"))
	assert.Equal(t, "one\n2\n3\n3.5\nfour\nfive\n", got)
}

func TestEditor_ApplyUnifiedDiff_CreatesFile(t *testing.T) {
	e, fs := newMemEditor(t, nil)

	result, err := e.ApplyUnifiedDiff(types.UnifiedDiffUnit{
		OldPath: types.DevNull,
		NewPath: "docs/new.md",
		Lines:   hunk("+# Title", "+", "+body"),
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "docs/new.md", result.FilePath)
	assert.Equal(t, "# Title\n\nbody\n", readMem(t, fs, "docs/new.md"))
}

func TestEditor_ApplyUnifiedDiff_NoFilename(t *testing.T) {
	e, _ := newMemEditor(t, nil)

	tests := []types.UnifiedDiffUnit{
		{Lines: hunk("+x")},
		{OldPath: types.DevNull, NewPath: types.DevNull, Lines: hunk("+x")},
	}
	for _, unit := range tests {
		_, err := e.ApplyUnifiedDiff(unit)
		assert.ErrorContains(t, err, "could not determine filename from diff")
	}
}

func TestApplyHunk_RemoveDoesNotMoveCursor(t *testing.T) {
	got := applyHunk([]string{"a", "b", "c"}, hunk("-a", "+A"))
	assert.Equal(t, []string{"A", "b", "c"}, got)
}

func TestApplyHunk_DoesNotModifyInput(t *testing.T) {
	lines := []string{"a", "b"}
	_ = applyHunk(lines, hunk(" a", "-b", "+c"))
	assert.Equal(t, []string{"a", "b"}, lines)
}

func TestSplitFile(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantLines    []string
		wantSep      string
		wantTrailing bool
	}{
		{"empty", "", nil, "\n", false},
		{"LF with trailing", "a\nb\n", []string{"a", "b"}, "\n", true},
		{"LF without trailing", "a\nb", []string{"a", "b"}, "\n", false},
		{"CRLF", "a\r\nb\r\n", []string{"a", "b"}, "\r\n", true},
		{"single blank line", "\n", []string{""}, "\n", true},
		{"mixed, mostly CRLF", "a\r\nb\nc\r\n", []string{"a", "b", "c"}, "\r\n", true},
		{"mixed, mostly LF", "a\nb\r\nc\n", []string{"a", "b", "c"}, "\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, sep, trailing := splitFile(tt.in)
			assert.Equal(t, tt.wantLines, lines)
			assert.Equal(t, tt.wantSep, sep)
			assert.Equal(t, tt.wantTrailing, trailing)
		})
	}
}

func TestEditor_Save(t *testing.T) {
	e, fs := newMemEditor(t, nil)

	path, err := e.Save("logs/out.txt", "first\n", types.WriteTruncate)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "logs", "out.txt"), path)

	_, err = e.Save("logs/out.txt", "second\n", types.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", readMem(t, fs, "logs/out.txt"))

	_, err = e.Save("logs/out.txt", "replaced\n", types.WriteTruncate)
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", readMem(t, fs, "logs/out.txt"))
}

func TestEditor_SaveAppendCreates(t *testing.T) {
	e, fs := newMemEditor(t, nil)

	_, err := e.Save("new.txt", "x", types.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, "x", readMem(t, fs, "new.txt"))
}

func TestEditor_OsFs(t *testing.T) {
	dir := t.TempDir()
	e := &Editor{Root: dir}

	_, err := e.ApplyWhole(types.WholeFileUnit{Path: "sub/f.txt", Content: "hello\n"})
	require.NoError(t, err)
	assert.Nil(t, e.Fs, "zero-value Editor must not be modified by a call")

	got, err := os.ReadFile(filepath.Join(dir, "sub", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))

	entries, err := os.ReadDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestFindMatch(t *testing.T) {
	content := "func a() {\n\treturn 1  \n}\n"

	m := findMatch(content, "\treturn 1  \n")
	require.NotNil(t, m)
	assert.Equal(t, types.StageExact, m.stage)

	m = findMatch(content, "\treturn 1\n")
	require.NotNil(t, m)
	assert.Equal(t, types.StageLineTrimmed, m.stage)
	assert.Equal(t, "\treturn 1  \n", content[m.start:m.end])

	assert.Nil(t, findMatch(content, "\treturn 2\n"))
}

func TestLineTrimmedMatch_LeadingWhitespaceMatters(t *testing.T) {
	assert.Nil(t, lineTrimmedMatch("    x = 1\n", "x = 1\n"))
}

func TestFindClosestMatch(t *testing.T) {
	content := "line one\nline two\nline three\n"

	closest, sim, lineStart, lineEnd := findClosestMatch(content, "line twoo\n")
	assert.Equal(t, "line two", closest)
	assert.Greater(t, sim, 0.8)
	assert.Equal(t, 2, lineStart)
	assert.Equal(t, 2, lineEnd)

	closest, sim, _, _ = findClosestMatch("", "x\n")
	assert.Empty(t, closest)
	assert.Zero(t, sim)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("hello", "hello"))
	assert.Equal(t, 0.0, similarity("", "hello"))
	assert.Equal(t, 0.0, similarity("hello", ""))
	assert.Greater(t, similarity("hello world", "hello worl"), 0.8)
}

func TestAtomicWrite_PreservesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.sh")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o755))

	require.NoError(t, atomicWrite(afero.NewOsFs(), path, []byte("new")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestAtomicWrite_CopyOnWriteLeavesBase(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/work/f.txt", []byte("base\n"), 0o644))
	layer := afero.NewCopyOnWriteFs(base, afero.NewMemMapFs())

	require.NoError(t, atomicWrite(layer, "/work/f.txt", []byte("edited\n")))

	got, err := afero.ReadFile(layer, "/work/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "edited\n", string(got))

	got, err = afero.ReadFile(base, "/work/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "base\n", string(got))
}
