// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"

	"github.com/example/stubgen/internal/core/effects"
	"github.com/example/stubgen/internal/ctxutil"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place generated files are written.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// DefaultEffectExecutor implements EffectExecutor on a project filesystem.
type DefaultEffectExecutor struct {
	fs secondary.ProjectFS
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(fs secondary.ProjectFS) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{fs: fs}
}

// Execute processes a slice of effects, executing each in sequence.
// Execution stops at the first failure.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.FileEffect:
		return e.executeFile(ctx, typed)
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeFile(ctx context.Context, eff effects.FileEffect) error {
	switch eff.Operation {
	case effects.FileMkdir:
		return e.fs.MkdirAll(ctx, eff.Path, eff.Mode)
	case effects.FileWrite:
		if err := e.fs.WriteFile(ctx, eff.Path, eff.Content, eff.Mode); err != nil {
			return err
		}
		logger.Debugw("wrote file", "run", ctxutil.RunIDFromContext(ctx), "path", eff.Path, "bytes", len(eff.Content))
		return nil
	default:
		return fmt.Errorf("unknown file operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	fields := make([]any, 0, len(eff.Fields)*2+2)
	if runID := ctxutil.RunIDFromContext(ctx); runID != "" {
		fields = append(fields, "run", runID)
	}
	for k, v := range eff.Fields {
		fields = append(fields, k, v)
	}
	switch eff.Level {
	case "debug":
		logger.Debugw(eff.Message, fields...)
	case "warn":
		logger.Warnw(eff.Message, fields...)
	default:
		logger.Infow(eff.Message, fields...)
	}
}
