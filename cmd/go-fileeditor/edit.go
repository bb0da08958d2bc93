// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	gitpkg "github.com/petar-djukic/go-fileeditor/internal/git"
	"github.com/petar-djukic/go-fileeditor/pkg/fileeditor"
)

const stdinName = "-"

// newEditor builds an Editor from the bound flags, env and config file.
func (c *cli) newEditor() (fileeditor.Editor, error) {
	cfg := fileeditor.Config{
		WorkDir:       c.v.GetString("workdir"),
		DryRun:        c.v.GetBool("dry-run"),
		Commit:        c.v.GetBool("commit"),
		CommitSummary: c.v.GetString("message"),
		DirtyCommit:   c.v.GetBool("dirty-commit"),
		MatchHints:    c.v.GetBool("hints"),
		Logger:        c.logger,
	}

	ed, err := fileeditor.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return ed, nil
}

// run executes one editor call and prints its status. A status starting
// with "Error" makes the command fail.
func (c *cli) run(cmd *cobra.Command, call func(context.Context, fileeditor.Editor) string) error {
	ed, err := c.newEditor()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	status := call(ctx, ed)
	fmt.Fprintln(cmd.OutOrStdout(), status)
	if strings.HasPrefix(status, "Error") {
		return errEditFailed
	}
	return nil
}

// newApplyCmd creates the "apply" command.
func (c *cli) newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply edits in whole, diff or udiff format",
		Long:  "Apply reads edit text from --file or stdin, applies every block it finds, and prints a status line.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			edits, err := readInput(cmd)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, ed fileeditor.Editor) string {
				return ed.Apply(ctx, format, edits)
			})
		},
	}

	cmd.Flags().StringP("format", "f", "diff", "Edit format: whole, diff or udiff")
	cmd.Flags().String("file", stdinName, "File holding the edits ('-' for stdin)")

	return cmd
}

// newWriteCmd creates the "write" command.
func (c *cli) newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write content to a file without parsing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			mode, _ := cmd.Flags().GetString("mode")
			content, err := readInput(cmd)
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, ed fileeditor.Editor) string {
				return ed.Save(ctx, content, path, mode)
			})
		},
	}

	cmd.Flags().String("path", "", "Target file path (required)")
	cmd.Flags().String("mode", "w", "'w' to replace the file, 'a' to append")
	cmd.Flags().String("file", stdinName, "File holding the content ('-' for stdin)")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// newToolCmd creates the "tool" command.
func (c *cli) newToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Run one JSON tool call",
		Long: `Tool reads a JSON object with the fields format, edits, content, file_path
and mode, runs it as the ` + fileeditor.ToolName + ` tool would, and prints the status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema, _ := cmd.Flags().GetBool("schema"); schema {
				fmt.Fprintln(cmd.OutOrStdout(), string(fileeditor.ToolParameters()))
				return nil
			}

			data, err := readInput(cmd)
			if err != nil {
				return err
			}
			params, err := fileeditor.ParseParams([]byte(data))
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, ed fileeditor.Editor) string {
				return ed.Execute(ctx, params)
			})
		},
	}

	cmd.Flags().String("file", stdinName, "File holding the JSON call ('-' for stdin)")
	cmd.Flags().Bool("schema", false, "Print the JSON schema of the call and exit")

	return cmd
}

// newUndoCmd creates the "undo" command.
func (c *cli) newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last go-fileeditor commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by go-fileeditor.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: c.v.GetString("workdir")})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Successfully reverted last go-fileeditor commit.")
			return nil
		},
	}
}

// readInput returns the content named by the --file flag, reading stdin
// for "-".
func readInput(cmd *cobra.Command) (string, error) {
	name, _ := cmd.Flags().GetString("file")
	if name == "" || name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
