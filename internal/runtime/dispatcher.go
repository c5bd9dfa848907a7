// Package runtime dispatches raw Lambda invocations to a route handler
// pipeline, detecting the caller's event shape and translating between shape
// families on the way in and out.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"apigw-agent-bridge/internal/converter"
	"apigw-agent-bridge/internal/models"
	"apigw-agent-bridge/pkg/lambda"
)

// Config configures a Dispatcher.
type Config struct {
	Accepted    AcceptedShapes
	ContentType string // preferred action-group body content type
	Logger      logrus.FieldLogger
	Metrics     *Metrics
}

// Dispatcher routes each invocation to the handler exactly once, converting
// action-group events to proxy events when that shape is accepted.
// It is safe for concurrent use.
type Dispatcher struct {
	invoker    lambda.Invoker
	accepted   AcceptedShapes
	classifier *Classifier
	converters map[models.InvocationShape]converter.EventConverter
	logger     logrus.FieldLogger
	metrics    *Metrics
}

// NewDispatcher creates a dispatcher delegating to invoker.
func NewDispatcher(invoker lambda.Invoker, cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		invoker:    invoker,
		accepted:   cfg.Accepted,
		classifier: NewClassifier(logger),
		converters: map[models.InvocationShape]converter.EventConverter{
			models.GatewayEvent:   converter.Passthrough{},
			models.AgentToolEvent: converter.NewAgentToolConverter(cfg.ContentType),
		},
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// Accepted returns the configured shape set.
func (d *Dispatcher) Accepted() AcceptedShapes {
	return d.accepted
}

// Handle dispatches one raw invocation payload. It has the signature the
// Lambda runtime expects from a handler.
//
// With no accepted shapes configured the payload and the result pass through
// untouched. Otherwise the payload is classified among the accepted shapes;
// a payload matching none of them fails with *UnsupportedShapeError before
// the handler runs.
// Errors returned by the handler are returned as is.
func (d *Dispatcher) Handle(ctx context.Context, payload map[string]any) (map[string]any, error) {
	start := time.Now()
	logger := d.logger.WithField("accepted", d.accepted.String())
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.WithField("aws_request_id", lc.AwsRequestID)
	}

	if d.accepted == AcceptUnset {
		resp, err := d.invoker.Invoke(ctx, payload)
		d.record(logger, shapePassthrough, outcomeOf(err), start, err)
		return resp, err
	}

	shape, ok := d.classifier.ClassifyAmong(payload, d.accepted.Has)
	if !ok {
		// classify again over every shape only to describe the rejection
		shape, ok = d.classifier.Classify(payload)
		err := &UnsupportedShapeError{Shape: shape, Classified: ok, Accepted: d.accepted}
		label := shapeUnknown
		if ok {
			label = shape.String()
		}
		d.record(logger, label, OutcomeRejected, start, err)
		return nil, err
	}

	conv := d.converters[shape]
	event, err := conv.ConvertRequest(payload)
	if err != nil {
		err = fmt.Errorf("failed to convert %s request: %w", shape, err)
		d.record(logger, shape.String(), OutcomeConvertError, start, err)
		return nil, err
	}

	resp, err := d.invoker.Invoke(ctx, event)
	if err != nil {
		d.record(logger, shape.String(), OutcomeHandlerError, start, err)
		return nil, err
	}

	out, err := conv.ConvertResponse(payload, resp)
	if err != nil {
		err = fmt.Errorf("failed to convert %s response: %w", shape, err)
		d.record(logger, shape.String(), OutcomeConvertError, start, err)
		return nil, err
	}

	d.record(logger, shape.String(), OutcomeOK, start, nil)
	return out, nil
}

func outcomeOf(err error) string {
	if err != nil {
		return OutcomeHandlerError
	}
	return OutcomeOK
}

// record logs one line for the dispatch and counts it.
func (d *Dispatcher) record(logger logrus.FieldLogger, shape, outcome string, start time.Time, err error) {
	d.metrics.observe(shape, outcome)

	entry := logger.WithFields(logrus.Fields{
		"shape":       shape,
		"outcome":     outcome,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	switch {
	case err == nil:
		entry.Info("Invocation dispatched")
	case errors.Is(err, ErrUnsupportedShape):
		entry.WithError(err).Warn("Invocation rejected")
	default:
		entry.WithError(err).Error("Invocation failed")
	}
}
