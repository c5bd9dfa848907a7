package runtime

import (
	"errors"
	"fmt"

	"apigw-agent-bridge/internal/models"
)

// ErrUnsupportedShape is returned when a payload is not in an accepted shape.
// It is not retryable: the same payload always fails the same way.
var ErrUnsupportedShape = errors.New("unsupported invocation shape")

// UnsupportedShapeError describes a payload the dispatcher refused.
type UnsupportedShapeError struct {
	Shape      models.InvocationShape // detected shape, meaningful only when Classified
	Classified bool
	Accepted   AcceptedShapes
}

func (e *UnsupportedShapeError) Error() string {
	if !e.Classified {
		return fmt.Sprintf("%v: payload matches no known shape (accepted: %s)", ErrUnsupportedShape, e.Accepted)
	}
	return fmt.Sprintf("%v: %s is not accepted (accepted: %s)", ErrUnsupportedShape, e.Shape, e.Accepted)
}

func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// IsUnsupportedShape returns true if err reports a refused payload
func IsUnsupportedShape(err error) bool {
	return errors.Is(err, ErrUnsupportedShape)
}
