package context

import (
	"context"
	"time"
)

const (
	ContextKeyCorrelationID ContextKey = "Correlation-Id"
	ContextKeyIdentity      ContextKey = "Identity"
	DefaultHttpTimeout                 = 30 * time.Second
)

type ContextKey string

func NewContextWithTimeOut(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func NewContext(correlationID string) context.Context {
	return context.WithValue(context.Background(), ContextKeyCorrelationID, correlationID)
}

func SetContextWithValue(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func GetContextValue(ctx context.Context, key ContextKey) string {
	reqID := ctx.Value(key)
	if reqID != nil {
		if ret, ok := reqID.(string); ok {
			return ret
		}
	}
	return ""
}

// Detach returns a context that carries the values of ctx but is never
// cancelled and has no deadline.
func Detach(ctx context.Context) context.Context {
	return detached{parent: ctx}
}

type detached struct {
	parent context.Context
}

func (detached) Deadline() (time.Time, bool) { return time.Time{}, false }

func (detached) Done() <-chan struct{} { return nil }

func (detached) Err() error { return nil }

func (d detached) Value(key interface{}) interface{} { return d.parent.Value(key) }
