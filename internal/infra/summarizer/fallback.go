package summarizer

import (
	"context"
	"fmt"
	"log/slog"
)

// Fallback tries a secondary completer when the primary one fails.
type Fallback struct {
	primary   Completer
	secondary Completer
}

// NewFallback creates a Fallback completer.
func NewFallback(primary, secondary Completer) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

// Name implements Completer.
func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Complete implements Completer.
func (f *Fallback) Complete(ctx context.Context, req Request) (string, error) {
	out, primaryErr := f.primary.Complete(ctx, req)
	if primaryErr == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return "", primaryErr
	}

	slog.WarnContext(ctx, "primary provider failed, trying fallback",
		slog.String("primary", f.primary.Name()),
		slog.String("fallback", f.secondary.Name()),
		slog.Any("error", primaryErr))

	out, err := f.secondary.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w; %s: %w", f.primary.Name(), primaryErr, f.secondary.Name(), err)
	}
	return out, nil
}
