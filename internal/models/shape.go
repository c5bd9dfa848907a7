package models

import (
	"fmt"
	"strings"
)

// InvocationShape identifies the wire format of an invocation payload.
type InvocationShape int

const (
	// GatewayEvent is an API Gateway REST proxy event.
	GatewayEvent InvocationShape = iota + 1
	// AgentToolEvent is a Bedrock Agents action-group invocation.
	AgentToolEvent
)

// Wire names used in configuration and logs
const (
	GatewayEventName   = "api-gateway"
	AgentToolEventName = "bedrock-agent"
)

// Shapes lists every known shape in declaration order.
func Shapes() []InvocationShape {
	return []InvocationShape{GatewayEvent, AgentToolEvent}
}

func (s InvocationShape) String() string {
	switch s {
	case GatewayEvent:
		return GatewayEventName
	case AgentToolEvent:
		return AgentToolEventName
	default:
		return "unknown"
	}
}

// ParseInvocationShape converts a wire name into an InvocationShape.
func ParseInvocationShape(name string) (InvocationShape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case GatewayEventName:
		return GatewayEvent, nil
	case AgentToolEventName:
		return AgentToolEvent, nil
	default:
		return 0, fmt.Errorf("unknown invocation shape %q", name)
	}
}

// schemaName returns the component schema that describes the shape's request.
func (s InvocationShape) schemaName() string {
	switch s {
	case GatewayEvent:
		return schemaGatewayRequest
	case AgentToolEvent:
		return schemaAgentToolRequest
	default:
		return ""
	}
}
