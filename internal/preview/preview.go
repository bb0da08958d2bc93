// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package preview renders the changes a dry run made to an overlay
// filesystem as unified diffs against the untouched base.
package preview

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

const defaultContext = 3

// Previewer compares files between a base and an edited filesystem.
type Previewer struct {
	Base    afero.Fs                 // Filesystem before the edits
	Edited  afero.Fs                 // Filesystem after the edits
	Resolve func(name string) string // Maps an edited-file name to its path; identity if nil
	Context int                      // Context lines per hunk (default 3)
}

// Render returns one unified diff per distinct name, in first-seen order.
// Files whose content did not change are omitted.
func (p *Previewer) Render(names []string) (string, error) {
	seen := make(map[string]bool, len(names))
	var buf strings.Builder
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		d, err := p.File(name)
		if err != nil {
			return "", err
		}
		buf.WriteString(d)
	}
	return buf.String(), nil
}

// File returns the unified diff for one file. A file missing from the base
// is diffed against /dev/null.
func (p *Previewer) File(name string) (string, error) {
	path := name
	if p.Resolve != nil {
		path = p.Resolve(name)
	}

	before, existed, err := readOptional(p.Base, path)
	if err != nil {
		return "", err
	}
	after, _, err := readOptional(p.Edited, path)
	if err != nil {
		return "", err
	}
	if existed && before == after {
		return "", nil
	}

	from := "a/" + name
	if !existed {
		from = "/dev/null"
	}
	ctx := p.Context
	if ctx == 0 {
		ctx = defaultContext
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: from,
		ToFile:   "b/" + name,
		Context:  ctx,
	})
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", name, err)
	}
	return diff, nil
}

func readOptional(fs afero.Fs, path string) (string, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), true, nil
}
