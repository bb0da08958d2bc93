// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editformat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-fileeditor/internal/feedback"
	"github.com/petar-djukic/go-fileeditor/pkg/types"
)

// Router parses edit text for one format and applies each unit, in order,
// through the Applier. A failing unit is recorded and the router continues
// with the remaining units.
type Router struct {
	Applier types.Applier
	Logger  *zap.Logger            // No-op logger if nil
	Hints   *feedback.FormatConfig // Append closest-match hints to search misses; nil disables
}

// Apply parses text as format and applies the units. It never panics and
// never returns nil; parse failures and applier panics become an
// unsuccessful result.
func (r *Router) Apply(ctx context.Context, format types.Format, text string) (result *types.EditResult) {
	log := r.log().With(zap.Stringer("format", format))
	defer func() {
		if p := recover(); p != nil {
			log.Error("applier panicked", zap.Any("panic", p))
			result = &types.EditResult{Message: fmt.Sprintf("internal error: %v", p)}
		}
	}()

	log.Debug("applying edits", zap.Int("bytes", len(text)))

	var agg Aggregator
	var err error
	switch format {
	case types.FormatWhole:
		err = r.applyWhole(ctx, &agg, text)
	case types.FormatDiff:
		err = r.applySearchReplace(ctx, &agg, text)
	case types.FormatUdiff:
		err = r.applyUnifiedDiff(ctx, &agg, text)
	default:
		err = fmt.Errorf("unknown edit format %q", format)
	}

	if err != nil {
		var nf *NoEditsFoundError
		if errors.As(err, &nf) {
			log.Debug("no edit blocks found", zap.Int("malformed", len(nf.Errors)))
			return &types.EditResult{Message: nf.Error()}
		}
		agg.Failure(err.Error())
		log.Warn("apply interrupted", zap.Error(err))
	}

	result = agg.Result()
	log.Debug("edits applied",
		zap.Bool("success", result.Success),
		zap.Strings("edited", result.EditedFiles))
	return result
}

func (r *Router) applyWhole(ctx context.Context, agg *Aggregator, text string) error {
	parsed, err := ParseWhole(text)
	if err != nil {
		return err
	}
	agg.ParseErrors(parsed.Errors)

	for _, unit := range parsed.Units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.Applier.ApplyWhole(unit); err != nil {
			r.unitFailed(unit.Path, err)
			agg.Failure(fmt.Sprintf("Error writing %s: %v", unit.Path, err))
			continue
		}
		agg.Success(unit.Path)
	}
	return nil
}

func (r *Router) applySearchReplace(ctx context.Context, agg *Aggregator, text string) error {
	parsed, err := ParseSearchReplace(text)
	if err != nil {
		return err
	}
	agg.ParseErrors(parsed.Errors)

	for _, unit := range parsed.Units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.Applier.ApplySearchReplace(unit); err != nil {
			r.unitFailed(unit.Path, err)
			agg.Failure(r.searchFailure(unit.Path, err))
			continue
		}
		agg.Success(unit.Path)
	}
	return nil
}

// searchFailure renders a failed search/replace unit. A search miss keeps
// its own message and may carry a closest-match hint.
func (r *Router) searchFailure(path string, err error) string {
	var diag *types.Diagnostic
	if !errors.As(err, &diag) {
		return fmt.Sprintf("Error editing %s: %v", path, err)
	}
	msg := diag.Error()
	if r.Hints != nil {
		if hint := feedback.FormatMismatch(diag, *r.Hints); hint != "" {
			msg += "\n" + hint
		}
	}
	return msg
}

func (r *Router) applyUnifiedDiff(ctx context.Context, agg *Aggregator, text string) error {
	parsed, err := ParseUnifiedDiff(text)
	if err != nil {
		return err
	}
	agg.ParseErrors(parsed.Errors)

	for _, unit := range parsed.Units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.Applier.ApplyUnifiedDiff(unit); err != nil {
			r.unitFailed(unit.Path(), err)
			agg.Failure(fmt.Sprintf("Error applying diff: %v", err))
			continue
		}
		agg.Success(unit.Path())
	}
	return nil
}

func (r *Router) unitFailed(path string, err error) {
	r.log().Debug("edit failed", zap.String("path", path), zap.Error(err))
}

func (r *Router) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
