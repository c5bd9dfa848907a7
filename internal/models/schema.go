package models

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schemas/events.yaml
var eventsYAML []byte

// Component schema names in schemas/events.yaml
const (
	schemaGatewayRequest    = "GatewayRequest"
	schemaGatewayResponse   = "GatewayResponse"
	schemaAgentToolRequest  = "AgentToolRequest"
	schemaAgentToolResponse = "AgentToolResponse"
)

var (
	eventsDocOnce sync.Once
	eventsDoc     *openapi3.T
	eventsDocErr  error
)

// EventsDocument returns the OpenAPI document describing every event shape.
// It is parsed and validated once per process.
func EventsDocument() (*openapi3.T, error) {
	eventsDocOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(eventsYAML)
		if err != nil {
			eventsDocErr = fmt.Errorf("failed to load event schemas: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			eventsDocErr = fmt.Errorf("invalid event schemas: %w", err)
			return
		}
		eventsDoc = doc
	})
	return eventsDoc, eventsDocErr
}

// EventsDocumentJSON renders the events document as JSON.
func EventsDocumentJSON() ([]byte, error) {
	doc, err := EventsDocument()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func lookupSchema(name string) (*openapi3.Schema, error) {
	doc, err := EventsDocument()
	if err != nil {
		return nil, err
	}
	ref := doc.Components.Schemas[name]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("event schema %q is not defined", name)
	}
	return ref.Value, nil
}

// Specificity is the number of required fields in the shape's request schema,
// counted through required nested objects. A payload that satisfies a more
// specific shape carries strictly more structure than one that only satisfies
// a less specific one.
func Specificity(shape InvocationShape) int {
	s, err := lookupSchema(shape.schemaName())
	if err != nil {
		return 0
	}
	return countRequired(s)
}

func countRequired(s *openapi3.Schema) int {
	n := 0
	for _, name := range s.Required {
		n++
		if prop := s.Properties[name]; prop != nil && prop.Value != nil {
			n += countRequired(prop.Value)
		}
	}
	return n
}
