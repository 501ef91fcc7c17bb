package logging

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type runIDKey struct{}

// NewRunID returns a new lexically sortable run identifier.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ContextWithRunID stores the run ID in ctx.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run ID stored in ctx, or "" if none.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}

// GetOrGenerateRunID returns the run ID from ctx, generating a new one when absent.
func GetOrGenerateRunID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return NewRunID()
}
