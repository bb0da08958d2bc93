// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editor applies parsed edit units to files: whole-file rewrites,
// search/replace with exact and line-trimmed matching, and drift-tolerant
// unified diff hunks.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

// Editor applies edit units to an afero filesystem. It keeps no state
// between calls; the zero value writes to the OS filesystem relative to the
// process working directory.
type Editor struct {
	Fs     afero.Fs    // Filesystem to edit; the OS filesystem if nil
	Root   string      // Directory relative paths resolve against; "" for the working directory
	Logger *zap.Logger // Logger for per-unit outcomes; a no-op logger if nil
}

// osFs backs an Editor whose Fs is nil.
var osFs = afero.NewOsFs()

// Verify interface compliance at compile time.
var _ types.Applier = (*Editor)(nil)

// ApplyWhole overwrites the target with the unit's content, creating parent
// directories as needed.
func (e *Editor) ApplyWhole(unit types.WholeFileUnit) (*types.ApplyResult, error) {
	path := e.resolve(unit.Path)
	existed, err := e.exists(path)
	if err != nil {
		return nil, err
	}

	if err := e.writeFile(path, []byte(unit.Content)); err != nil {
		return nil, err
	}

	e.log().Debug("wrote whole file",
		zap.String("path", unit.Path),
		zap.Int("bytes", len(unit.Content)),
		zap.Bool("created", !existed))
	return &types.ApplyResult{FilePath: unit.Path, Stage: types.StageExact, Created: !existed}, nil
}

// ApplySearchReplace replaces the first match of the unit's search text.
// A missing file with empty search text is created with the replacement as
// its content. A search that matches nothing returns a *types.Diagnostic and
// leaves the file untouched.
func (e *Editor) ApplySearchReplace(unit types.SearchReplaceUnit) (*types.ApplyResult, error) {
	path := e.resolve(unit.Path)
	existed, err := e.exists(path)
	if err != nil {
		return nil, err
	}

	if !existed && strings.TrimSpace(unit.Search) == "" {
		if err := e.writeFile(path, []byte(unit.Replace)); err != nil {
			return nil, err
		}
		e.log().Debug("created file from empty search", zap.String("path", unit.Path))
		return &types.ApplyResult{FilePath: unit.Path, Stage: types.StageExact, Created: true}, nil
	}

	data, err := afero.ReadFile(e.fs(), path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", unit.Path, err)
	}
	content := string(data)

	m := findMatch(content, unit.Search)
	if m == nil {
		return nil, e.buildDiagnostic(unit.Path, content, unit.Search)
	}

	updated := m.splice(content, unit.Replace)
	if updated == content {
		return nil, e.buildDiagnostic(unit.Path, content, unit.Search)
	}

	if err := e.writeFile(path, []byte(updated)); err != nil {
		return nil, err
	}

	e.log().Debug("applied search/replace",
		zap.String("path", unit.Path),
		zap.Stringer("stage", m.stage))
	return &types.ApplyResult{FilePath: unit.Path, Stage: m.stage}, nil
}

// buildDiagnostic constructs a structured diagnostic when both matching
// stages fail.
func (e *Editor) buildDiagnostic(filePath, content, search string) *types.Diagnostic {
	closest, sim, lineStart, lineEnd := findClosestMatch(content, search)
	e.log().Debug("search text not found",
		zap.String("path", filePath),
		zap.Float64("closest_similarity", sim),
		zap.Int("closest_line", lineStart))
	return &types.Diagnostic{
		FilePath:         filePath,
		SearchText:       search,
		ClosestMatch:     closest,
		Similarity:       sim,
		ClosestLineStart: lineStart,
		ClosestLineEnd:   lineEnd,
	}
}

// resolve maps a unit path onto the filesystem.
func (e *Editor) resolve(path string) string {
	if e.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.Root, path)
}

// Resolve returns the filesystem path an edit path refers to.
func (e *Editor) Resolve(path string) string {
	return e.resolve(path)
}

func (e *Editor) exists(path string) (bool, error) {
	info, err := e.fs().Stat(path)
	if err == nil {
		if info.IsDir() {
			return false, fmt.Errorf("%s is a directory", path)
		}
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}

// writeFile creates the parent directories of path and replaces its
// content atomically.
func (e *Editor) writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := e.fs().MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := atomicWrite(e.fs(), path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (e *Editor) fs() afero.Fs {
	if e.Fs == nil {
		return osFs
	}
	return e.Fs
}

func (e *Editor) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
