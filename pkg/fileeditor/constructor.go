// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package fileeditor

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-fileeditor/internal/editformat"
	"github.com/petar-djukic/go-fileeditor/internal/editor"
	"github.com/petar-djukic/go-fileeditor/internal/feedback"
	"github.com/petar-djukic/go-fileeditor/internal/git"
	"github.com/petar-djukic/go-fileeditor/internal/preview"
	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

const (
	defaultHintMinSimilarity = 0.5
	defaultHintMaxLines      = 20
	defaultWorkDir           = "."
)

// New validates the config and returns a ready-to-use Editor.
func New(cfg Config) (Editor, error) {
	applyDefaults(&cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &fileEditor{cfg: cfg}, nil
}

// validateConfig checks that the fields agree with each other.
func validateConfig(cfg Config) error {
	if cfg.WorkDir != "" {
		ok, err := afero.IsDir(cfg.Fs, cfg.WorkDir)
		if err != nil || !ok {
			return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
		}
	}
	if cfg.Commit {
		if cfg.DryRun {
			return fmt.Errorf("Commit and DryRun are mutually exclusive")
		}
		if _, ok := cfg.Fs.(*afero.OsFs); !ok {
			return fmt.Errorf("Commit requires the OS filesystem")
		}
	}
	if cfg.HintMinSimilarity < 0 || cfg.HintMinSimilarity > 1 {
		return fmt.Errorf("HintMinSimilarity %v is outside [0, 1]", cfg.HintMinSimilarity)
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.HintMinSimilarity == 0 {
		cfg.HintMinSimilarity = defaultHintMinSimilarity
	}
	if cfg.HintMaxLines == 0 {
		cfg.HintMaxLines = defaultHintMaxLines
	}
}

// fileEditor wires the parser, appliers, preview and git checkpoint
// behind the Editor interface.
type fileEditor struct {
	cfg Config
}

// session is the per-call view of the filesystem. In dry-run mode edits go
// to a fresh in-memory layer over the configured filesystem.
type session struct {
	base   afero.Fs
	target afero.Fs
	editor *editor.Editor
}

func (f *fileEditor) newSession() *session {
	s := &session{base: f.cfg.Fs, target: f.cfg.Fs}
	if f.cfg.DryRun {
		s.target = afero.NewCopyOnWriteFs(f.cfg.Fs, afero.NewMemMapFs())
	}
	s.editor = &editor.Editor{Fs: s.target, Root: f.cfg.WorkDir, Logger: f.cfg.Logger}
	return s
}

// preview renders the dry-run changes to files.
func (s *session) preview(files []string) (string, error) {
	p := &preview.Previewer{Base: s.base, Edited: s.target, Resolve: s.editor.Resolve}
	return p.Render(files)
}

func (f *fileEditor) ApplyResult(ctx context.Context, format, edits string) (*Result, error) {
	ft, err := types.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	log := f.cfg.Logger.With(zap.Stringer("format", ft))

	repo, err := f.openRepo()
	if err != nil {
		return nil, err
	}

	s := f.newSession()
	router := &editformat.Router{Applier: s.editor, Logger: f.cfg.Logger}
	if f.cfg.MatchHints {
		router.Hints = &feedback.FormatConfig{
			MinSimilarity: f.cfg.HintMinSimilarity,
			MaxLines:      f.cfg.HintMaxLines,
		}
	}

	er := router.Apply(ctx, ft, edits)
	result := &Result{Success: er.Success, Message: er.Message, EditedFiles: er.EditedFiles}
	if !result.Success {
		log.Info("no files edited", zap.String("message", result.Message))
		return result, nil
	}
	log.Info("files edited", zap.Strings("files", result.EditedFiles))

	if f.cfg.DryRun {
		if result.Preview, err = s.preview(result.EditedFiles); err != nil {
			return result, fmt.Errorf("rendering preview: %w", err)
		}
		return result, nil
	}

	if repo != nil {
		hash, err := repo.Commit(result.EditedFiles, ft, f.cfg.CommitSummary)
		if err != nil {
			log.Warn("commit failed", zap.Error(err))
			return result, fmt.Errorf("committing edits: %w", err)
		}
		result.Commit = hash.String()
		log.Info("committed edits", zap.String("commit", result.Commit))
	}
	return result, nil
}

func (f *fileEditor) Apply(ctx context.Context, format, edits string) string {
	result, err := f.ApplyResult(ctx, format, edits)
	if result == nil {
		return "Error: " + err.Error()
	}

	status := editformat.Status(&types.EditResult{
		Success:     result.Success,
		Message:     result.Message,
		EditedFiles: result.EditedFiles,
	})
	return decorate(status, result, err)
}

func (f *fileEditor) Save(ctx context.Context, content, filePath, mode string) string {
	if err := ctx.Err(); err != nil {
		return "Error saving file: " + err.Error()
	}
	wm, err := types.ParseWriteMode(mode)
	if err != nil {
		return "Error saving file: " + err.Error()
	}
	if filePath == "" {
		return "Error saving file: empty file path"
	}

	repo, err := f.openRepo()
	if err != nil {
		return "Error: " + err.Error()
	}

	s := f.newSession()
	if _, err := s.editor.Save(filePath, content, wm); err != nil {
		f.cfg.Logger.Info("save failed", zap.String("path", filePath), zap.Error(err))
		return "Error saving file: " + err.Error()
	}
	f.cfg.Logger.Info("file saved", zap.String("path", filePath), zap.String("mode", string(wm)))

	result := &Result{Success: true, EditedFiles: []string{filePath}}
	var extra error
	switch {
	case f.cfg.DryRun:
		result.Preview, extra = s.preview(result.EditedFiles)
	case repo != nil:
		summary := f.cfg.CommitSummary
		if summary == "" {
			summary = "save " + filePath
		}
		hash, err := repo.Commit(result.EditedFiles, types.FormatWhole, summary)
		if err != nil {
			extra = fmt.Errorf("committing edits: %w", err)
		} else {
			result.Commit = hash.String()
		}
	}
	return decorate("Content successfully saved to "+filePath, result, extra)
}

// openRepo opens the repository and prepares the work tree when Commit is
// set. It returns nil without Commit.
func (f *fileEditor) openRepo() (*git.Repo, error) {
	if !f.cfg.Commit {
		return nil, nil
	}
	workDir := f.cfg.WorkDir
	if workDir == "" {
		workDir = defaultWorkDir
	}

	repo, err := git.Open(git.Config{WorkDir: workDir, DirtyCommit: f.cfg.DirtyCommit})
	if err != nil {
		return nil, err
	}
	if err := repo.HandleDirty(); err != nil {
		if errors.Is(err, git.ErrDirtyWorkTree) {
			return nil, fmt.Errorf("%w; commit or stash them, or enable DirtyCommit", err)
		}
		return nil, err
	}
	return repo, nil
}

// decorate appends the commit, preview and any late error to a status
// string without changing its leading word.
func decorate(status string, result *Result, err error) string {
	if result.Commit != "" {
		status += "\nCommitted " + result.Commit
	}
	if result.Preview != "" {
		status += "\n\nDry run, no files were written:\n" + result.Preview
	}
	if err != nil {
		status += "\nError: " + err.Error()
	}
	return status
}
