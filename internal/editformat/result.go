// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editformat

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

// Aggregator collects per-unit outcomes of one Apply call. The zero value
// is ready to use.
type Aggregator struct {
	edited []string
	errs   []string
}

// Success records an edited file. Paths are kept in order, duplicates
// included.
func (a *Aggregator) Success(path string) {
	a.edited = append(a.edited, path)
}

// Failure records a per-unit error message.
func (a *Aggregator) Failure(msg string) {
	a.errs = append(a.errs, msg)
}

// ParseErrors records malformed blocks skipped by the parser.
func (a *Aggregator) ParseErrors(errs []*ParseError) {
	for _, pe := range errs {
		a.Failure(pe.Error())
	}
}

// Result builds the EditResult. The call succeeds if any file was edited.
// The message lists every failure, or counts the edited files when there
// were none.
func (a *Aggregator) Result() *types.EditResult {
	result := &types.EditResult{
		Success:     len(a.edited) > 0,
		EditedFiles: a.edited,
	}
	if len(a.errs) > 0 {
		result.Message = strings.Join(a.errs, "\n")
	} else {
		result.Message = fmt.Sprintf("Successfully edited %d files", len(a.edited))
	}
	return result
}

// Status renders a result as the single string returned to the caller.
func Status(r *types.EditResult) string {
	if r.Success {
		return fmt.Sprintf("Successfully edited files: %s\n%s", strings.Join(r.EditedFiles, ", "), r.Message)
	}
	return "Error applying edits: " + r.Message
}
