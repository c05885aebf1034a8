// Package correlation propagates a per-request correlation id through
// contexts so gateway calls can be traced back to the API request.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// HeaderName is the HTTP header carrying the correlation id.
const HeaderName = "X-Correlation-ID"

type contextKey struct{}

// FromContext returns the correlation id, or "" when none is set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// NewID generates a UUID v4 correlation id.
func NewID() string {
	return uuid.NewString()
}
