// Package converter translates invocation events between shape families so
// that handlers written for API Gateway proxy events can serve other callers.
package converter

// EventConverter rewrites a foreign event into a gateway event and the
// gateway response back into the foreign response shape.
type EventConverter interface {
	// ConvertRequest turns the incoming event into the event the handler sees.
	ConvertRequest(event map[string]any) (map[string]any, error)
	// ConvertResponse turns the handler result into the caller's response.
	// event is the original, unconverted event.
	ConvertResponse(event, response map[string]any) (map[string]any, error)
}

// Passthrough returns events and responses unchanged.
type Passthrough struct{}

// ConvertRequest returns event as is.
func (Passthrough) ConvertRequest(event map[string]any) (map[string]any, error) {
	return event, nil
}

// ConvertResponse returns response as is.
func (Passthrough) ConvertResponse(_, response map[string]any) (map[string]any, error) {
	return response, nil
}

var (
	_ EventConverter = Passthrough{}
	_ EventConverter = (*AgentToolConverter)(nil)
)
