package bot

import "context"

// Invocation describes the mention a handler is running for. The dispatcher
// never checks payment; handlers that care read the fee from here.
type Invocation struct {
	MentionID string
	Username  string
	Command   Command
	Fee       float64
}

type invocationKey struct{}

func WithInvocation(ctx context.Context, inv Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// InvocationFromContext returns the invocation set by the dispatcher.
func InvocationFromContext(ctx context.Context) (Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(Invocation)
	return inv, ok
}
