package middleware

import "context"

type contextKey string

const (
	ctxCreatorID contextKey = "creator_id"
	ctxHandle    contextKey = "creator_handle"
)

func CreatorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCreatorID).(string); ok {
		return v
	}
	return ""
}

func HandleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxHandle).(string); ok {
		return v
	}
	return ""
}

// WithCreatorID injects the creator identifier into the context.
func WithCreatorID(ctx context.Context, creatorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCreatorID, creatorID)
}
