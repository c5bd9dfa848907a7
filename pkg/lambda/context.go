package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

type gatewayEventKey struct{}

// WithGatewayEvent returns a copy of ctx carrying the proxy event.
func WithGatewayEvent(ctx context.Context, event *events.APIGatewayProxyRequest) context.Context {
	return context.WithValue(ctx, gatewayEventKey{}, event)
}

// GatewayEventFromContext returns the proxy event an HTTPInvoker request was built from.
func GatewayEventFromContext(ctx context.Context) (*events.APIGatewayProxyRequest, bool) {
	event, ok := ctx.Value(gatewayEventKey{}).(*events.APIGatewayProxyRequest)
	return event, ok && event != nil
}
