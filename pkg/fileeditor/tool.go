// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package fileeditor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// ToolName is the name agents register the editor under.
const ToolName = "file_editor"

// Params are the arguments of one tool call. Content and FilePath are
// pointers so an explicit empty string is told apart from an absent field.
type Params struct {
	Format   string  `json:"format,omitempty"`
	Edits    string  `json:"edits,omitempty"`
	Content  *string `json:"content,omitempty"`
	FilePath *string `json:"file_path,omitempty"`
	Mode     string  `json:"mode,omitempty"`
}

// ParseParams decodes a JSON tool call. Unknown fields are rejected.
func ParseParams(data []byte) (Params, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Params
	if err := dec.Decode(&p); err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return p, nil
}

// Validate checks that a direct write names both its content and its path.
func (p Params) Validate() error {
	if (p.Content == nil) != (p.FilePath == nil) {
		return fmt.Errorf("%w: content and file_path must be provided together", ErrInvalidArgument)
	}
	return nil
}

func (f *fileEditor) Execute(ctx context.Context, p Params) string {
	if err := p.Validate(); err != nil {
		return "Error: " + err.Error()
	}
	if p.Content != nil {
		return f.Save(ctx, *p.Content, *p.FilePath, p.Mode)
	}
	return f.Apply(ctx, p.Format, p.Edits)
}

// ToolParameters returns the JSON schema of Params for tool registration.
func ToolParameters() json.RawMessage {
	return json.RawMessage(toolSchema)
}

const toolSchema = `{
  "type": "object",
  "properties": {
    "format": {
      "type": "string",
      "enum": ["whole", "diff", "udiff"],
      "description": "The edit format to use (whole file, search/replace blocks, or unified diff)"
    },
    "edits": {
      "type": "string",
      "description": "The edits to apply in the specified format"
    },
    "content": {
      "type": "string",
      "description": "Content to save to a file (direct file saving mode)"
    },
    "file_path": {
      "type": "string",
      "description": "Path where the content should be saved"
    },
    "mode": {
      "type": "string",
      "enum": ["w", "a"],
      "description": "File opening mode: 'w' for write (default), 'a' for append",
      "default": "w"
    }
  },
  "required": []
}`
