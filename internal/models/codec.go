package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Normalize converts a JSON-marshalable value into a plain JSON object map.
// json.RawMessage and []byte are decoded as JSON text. Numbers come back as
// float64, matching what the Lambda runtime hands a map[string]any handler.
func Normalize(v any) (map[string]any, error) {
	data, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ValidationError{Message: "payload is not a JSON object", Err: err}
	}
	if out == nil {
		return nil, &ValidationError{Message: "payload is not a JSON object"}
	}
	return out, nil
}

func toJSON(v any) ([]byte, error) {
	switch t := v.(type) {
	case json.RawMessage:
		return t, nil
	case []byte:
		return t, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		return data, nil
	}
}

// Decode copies a JSON object map into out by way of its JSON encoding.
func Decode(payload map[string]any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

type defaulter interface {
	applyDefaults()
}

// parse is the construction path shared by every shape: schema check, typed
// decode, default collections, then struct-level rules.
func parse[T any, PT interface {
	*T
	defaulter
}](schemaName string, payload map[string]any) (*T, error) {
	normalized, err := Normalize(payload)
	if err != nil {
		return nil, err
	}
	schema, err := lookupSchema(schemaName)
	if err != nil {
		return nil, err
	}
	if err := schema.VisitJSON(normalized); err != nil {
		return nil, schemaFailure(schemaName, err)
	}

	out := PT(new(T))
	if err := Decode(normalized, out); err != nil {
		return nil, &ValidationError{Schema: schemaName, Message: err.Error(), Err: err}
	}
	out.applyDefaults()
	if err := validate.Struct(out); err != nil {
		return nil, structFailure(schemaName, err)
	}
	return out, nil
}

// check re-validates an already constructed value against its schema.
func check(schemaName string, v any) error {
	payload, err := Normalize(v)
	if err != nil {
		return err
	}
	schema, err := lookupSchema(schemaName)
	if err != nil {
		return err
	}
	if err := schema.VisitJSON(payload); err != nil {
		return schemaFailure(schemaName, err)
	}
	if err := validate.Struct(v); err != nil {
		return structFailure(schemaName, err)
	}
	return nil
}

// ParseGatewayRequest builds a GatewayRequest from a raw event.
func ParseGatewayRequest(payload map[string]any) (*GatewayRequest, error) {
	return parse[GatewayRequest](schemaGatewayRequest, payload)
}

// ParseGatewayResponse builds a GatewayResponse from a route framework result.
func ParseGatewayResponse(payload map[string]any) (*GatewayResponse, error) {
	return parse[GatewayResponse](schemaGatewayResponse, payload)
}

// ParseAgentToolRequest builds an AgentToolRequest from a raw event.
func ParseAgentToolRequest(payload map[string]any) (*AgentToolRequest, error) {
	return parse[AgentToolRequest](schemaAgentToolRequest, payload)
}

// ParseAgentToolResponse builds an AgentToolResponse from a raw result.
func ParseAgentToolResponse(payload map[string]any) (*AgentToolResponse, error) {
	return parse[AgentToolResponse](schemaAgentToolResponse, payload)
}

// Validate checks the request against the GatewayEvent contract.
func (r *GatewayRequest) Validate() error {
	return check(schemaGatewayRequest, r)
}

// Validate checks the response against its contract.
func (r *GatewayResponse) Validate() error {
	return check(schemaGatewayResponse, r)
}

// Validate checks the request against the AgentToolEvent contract.
func (r *AgentToolRequest) Validate() error {
	return check(schemaAgentToolRequest, r)
}

// Validate checks the response against its contract.
func (r *AgentToolResponse) Validate() error {
	return check(schemaAgentToolResponse, r)
}

// ParseRequest parses payload as the request side of shape.
func ParseRequest(shape InvocationShape, payload map[string]any) (any, error) {
	switch shape {
	case GatewayEvent:
		req, err := ParseGatewayRequest(payload)
		if err != nil {
			return nil, err
		}
		return req, nil
	case AgentToolEvent:
		req, err := ParseAgentToolRequest(payload)
		if err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, fmt.Errorf("unknown invocation shape %d", int(shape))
	}
}
