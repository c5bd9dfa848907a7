package lambda

import "context"

// Invoker runs one raw Lambda event through a handler pipeline and returns
// the raw result.
type Invoker interface {
	Invoke(ctx context.Context, event map[string]any) (map[string]any, error)
}

// InvokerFunc is a framework-agnostic handler function
type InvokerFunc func(ctx context.Context, event map[string]any) (map[string]any, error)

// Invoke calls f(ctx, event).
func (f InvokerFunc) Invoke(ctx context.Context, event map[string]any) (map[string]any, error) {
	return f(ctx, event)
}
