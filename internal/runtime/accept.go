package runtime

import (
	"fmt"
	"strings"

	"apigw-agent-bridge/internal/models"
)

// AcceptedShapes is the set of invocation shapes a dispatcher serves.
type AcceptedShapes int

const (
	// AcceptUnset disables classification; payloads go to the handler untouched.
	AcceptUnset AcceptedShapes = iota
	AcceptGatewayOnly
	AcceptAgentToolOnly
	AcceptBoth
)

// AcceptAll is the configuration keyword for AcceptBoth.
const AcceptAll = "all"

// ParseAcceptedShapes reads a comma separated list of shape names. The empty
// string means unset.
func ParseAcceptedShapes(s string) (AcceptedShapes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AcceptUnset, nil
	}
	if strings.EqualFold(s, AcceptAll) {
		return AcceptBoth, nil
	}

	var gateway, agent bool
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		shape, err := models.ParseInvocationShape(part)
		if err != nil {
			return AcceptUnset, fmt.Errorf("invalid accepted shapes %q: %w", s, err)
		}
		switch shape {
		case models.GatewayEvent:
			gateway = true
		case models.AgentToolEvent:
			agent = true
		}
	}

	switch {
	case gateway && agent:
		return AcceptBoth, nil
	case gateway:
		return AcceptGatewayOnly, nil
	case agent:
		return AcceptAgentToolOnly, nil
	default:
		return AcceptUnset, nil
	}
}

// Has reports whether shape is accepted.
func (a AcceptedShapes) Has(shape models.InvocationShape) bool {
	switch shape {
	case models.GatewayEvent:
		return a == AcceptGatewayOnly || a == AcceptBoth
	case models.AgentToolEvent:
		return a == AcceptAgentToolOnly || a == AcceptBoth
	default:
		return false
	}
}

func (a AcceptedShapes) String() string {
	switch a {
	case AcceptUnset:
		return "unset"
	case AcceptGatewayOnly:
		return models.GatewayEventName
	case AcceptAgentToolOnly:
		return models.AgentToolEventName
	case AcceptBoth:
		return models.GatewayEventName + "," + models.AgentToolEventName
	default:
		return fmt.Sprintf("AcceptedShapes(%d)", int(a))
	}
}
