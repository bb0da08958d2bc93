// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

// Save writes content to path without parsing, creating parent directories
// as needed. WriteTruncate replaces the file; WriteAppend adds to its end.
// It returns the resolved path that was written.
func (e *Editor) Save(path, content string, mode types.WriteMode) (string, error) {
	target := e.resolve(path)
	dir := filepath.Dir(target)
	if err := e.fs().MkdirAll(dir, 0o755); err != nil {
		return target, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	switch mode {
	case types.WriteAppend:
		if err := appendFile(e.fs(), target, []byte(content)); err != nil {
			return target, fmt.Errorf("appending to %s: %w", target, err)
		}
	default:
		if err := atomicWrite(e.fs(), target, []byte(content)); err != nil {
			return target, fmt.Errorf("writing %s: %w", target, err)
		}
	}

	e.log().Debug("saved file",
		zap.String("path", target),
		zap.String("mode", string(mode)),
		zap.Int("bytes", len(content)))
	return target, nil
}
