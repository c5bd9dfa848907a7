package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every structural validation failure.
var ErrValidation = errors.New("validation error")

// ValidationError reports why a payload does not satisfy an event shape.
type ValidationError struct {
	Schema  string // component schema that was checked
	Field   string // dotted wire path of the offending field, if known
	Message string
	Err     error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch {
	case e.Schema != "" && e.Field != "":
		return fmt.Sprintf("%s: %s: %s", e.Schema, e.Field, e.Message)
	case e.Schema != "":
		return fmt.Sprintf("%s: %s", e.Schema, e.Message)
	default:
		return e.Message
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError returns true if err is a structural validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report wire names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(requestContextRules, GatewayRequestContext{})
	return v
}

// requestContextRules enforces that messageId only accompanies MESSAGE events.
func requestContextRules(sl validator.StructLevel) {
	rc, ok := sl.Current().Interface().(GatewayRequestContext)
	if !ok || rc.MessageID == nil {
		return
	}
	if rc.EventType == nil || *rc.EventType != MessageEventType {
		sl.ReportError(rc.MessageID, "messageId", "MessageID", "message_event", MessageEventType)
	}
}

// schemaFailure converts a kin-openapi schema error into a ValidationError.
func schemaFailure(schema string, err error) *ValidationError {
	verr := &ValidationError{Schema: schema, Message: err.Error(), Err: err}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		verr.Field = strings.Join(schemaErr.JSONPointer(), ".")
		verr.Message = schemaErr.Reason
	}
	return verr
}

// structFailure converts validator output into a ValidationError naming the first bad field.
func structFailure(schema string, err error) *ValidationError {
	verr := &ValidationError{Schema: schema, Message: err.Error(), Err: err}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		verr.Field = trimNamespace(fe.Namespace())
		verr.Message = describeFieldError(fe)
	}
	return verr
}

func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "message_event":
		return fmt.Sprintf("%s is available only when eventType is %s", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
