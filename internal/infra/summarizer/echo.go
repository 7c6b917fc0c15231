package summarizer

import (
	"context"

	"docdiff/internal/config"
)

// Echo is a completer that returns the submitted text without modification.
// This is useful for testing and for running the pipeline offline.
type Echo struct{}

// NewEcho creates a new Echo completer.
func NewEcho() *Echo {
	return &Echo{}
}

// Name implements Completer.
func (e *Echo) Name() string { return config.ProviderEcho }

// Complete returns req.Text unchanged.
func (e *Echo) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return req.Text, nil
}
