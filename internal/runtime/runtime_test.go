package runtime

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"apigw-agent-bridge/internal/models"
	fixtures "apigw-agent-bridge/internal/testutil"
	"apigw-agent-bridge/pkg/lambda"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// recordingInvoker counts calls and returns a canned result.
type recordingInvoker struct {
	calls  int
	events []map[string]any
	resp   map[string]any
	err    error
}

func (r *recordingInvoker) Invoke(_ context.Context, event map[string]any) (map[string]any, error) {
	r.calls++
	r.events = append(r.events, event)
	return r.resp, r.err
}

func newTestDispatcher(t *testing.T, invoker lambda.Invoker, accepted AcceptedShapes) (*Dispatcher, *logtest.Hook, *Metrics) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewDispatcher(invoker, Config{Accepted: accepted, Logger: logger, Metrics: metrics}), hook, metrics
}

func TestParseAcceptedShapes(t *testing.T) {
	tests := []struct {
		in      string
		want    AcceptedShapes
		wantErr bool
	}{
		{"", AcceptUnset, false},
		{"  ", AcceptUnset, false},
		{"api-gateway", AcceptGatewayOnly, false},
		{"bedrock-agent", AcceptAgentToolOnly, false},
		{"api-gateway,bedrock-agent", AcceptBoth, false},
		{"bedrock-agent, api-gateway", AcceptBoth, false},
		{"ALL", AcceptBoth, false},
		{"sqs", AcceptUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAcceptedShapes(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, AcceptBoth.Has(models.GatewayEvent))
	assert.True(t, AcceptBoth.Has(models.AgentToolEvent))
	assert.False(t, AcceptGatewayOnly.Has(models.AgentToolEvent))
	assert.False(t, AcceptUnset.Has(models.GatewayEvent))
}

func TestClassifier(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, []models.InvocationShape{models.AgentToolEvent, models.GatewayEvent}, c.Order())

	shape, ok := c.Classify(fixtures.AgentToolPayload("POST", "/posts"))
	require.True(t, ok)
	assert.Equal(t, models.AgentToolEvent, shape)

	shape, ok = c.Classify(fixtures.GatewayPayload("POST", "/posts"))
	require.True(t, ok)
	assert.Equal(t, models.GatewayEvent, shape)

	_, ok = c.Classify(map[string]any{})
	assert.False(t, ok)
	_, ok = c.Classify(nil)
	assert.False(t, ok)
}

func TestClassifier_Disjoint(t *testing.T) {
	c := NewClassifier(nil)
	agent := fixtures.AgentToolPayload("GET", "/talk")
	gateway := fixtures.GatewayPayload("GET", "/talk")

	assert.True(t, c.Matches(agent, models.AgentToolEvent))
	assert.False(t, c.Matches(agent, models.GatewayEvent))
	assert.True(t, c.Matches(gateway, models.GatewayEvent))
	assert.False(t, c.Matches(gateway, models.AgentToolEvent))
}

// ambiguousPayload satisfies both the action-group and the proxy shape.
func ambiguousPayload() map[string]any {
	payload := fixtures.AgentToolPayload("POST", "/posts")
	for k, v := range fixtures.GatewayPayload("POST", "/posts") {
		if _, ok := payload[k]; !ok {
			payload[k] = v
		}
	}
	return payload
}

// TestClassifier_MostSpecificWins covers a payload that satisfies both shapes.
func TestClassifier_MostSpecificWins(t *testing.T) {
	payload := ambiguousPayload()

	c := NewClassifier(nil)
	require.True(t, c.Matches(payload, models.GatewayEvent))
	require.True(t, c.Matches(payload, models.AgentToolEvent))

	shape, ok := c.Classify(payload)
	require.True(t, ok)
	assert.Equal(t, models.AgentToolEvent, shape)
}

func TestClassifier_ClassifyAmong(t *testing.T) {
	c := NewClassifier(nil)
	payload := ambiguousPayload()

	shape, ok := c.ClassifyAmong(payload, AcceptGatewayOnly.Has)
	require.True(t, ok)
	assert.Equal(t, models.GatewayEvent, shape)

	shape, ok = c.ClassifyAmong(payload, AcceptBoth.Has)
	require.True(t, ok)
	assert.Equal(t, models.AgentToolEvent, shape)

	_, ok = c.ClassifyAmong(fixtures.GatewayPayload("GET", "/talk"), AcceptAgentToolOnly.Has)
	assert.False(t, ok)
}

func TestClassifier_LogsAtDebug(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, ok := NewClassifier(logger).Classify(map[string]any{"hello": "world"})
	assert.False(t, ok)
	require.Len(t, hook.AllEntries(), 2)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.DebugLevel, e.Level)
	}
}

func TestDispatch_DefaultPassthrough(t *testing.T) {
	canned := map[string]any{"statusCode": 200, "body": "raw", "extra": []int{1}}
	inv := &recordingInvoker{resp: canned}
	d, _, metrics := newTestDispatcher(t, inv, AcceptUnset)

	payload := fixtures.GatewayPayload("POST", "/posts")
	resp, err := d.Handle(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, canned, resp)
	require.Equal(t, 1, inv.calls)
	assert.Equal(t, payload, inv.events[0])

	// anything passes when unset, even shapeless payloads
	_, err = d.Handle(context.Background(), map[string]any{"anything": true})
	require.NoError(t, err)
	assert.Equal(t, 2, inv.calls)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.dispatches.WithLabelValues(shapePassthrough, OutcomeOK)))
}

func TestDispatch_GatewayUnchanged(t *testing.T) {
	canned := map[string]any{"statusCode": 201, "body": "created"}
	inv := &recordingInvoker{resp: canned}
	d, _, _ := newTestDispatcher(t, inv, AcceptGatewayOnly)

	payload := fixtures.GatewayPayload("POST", "/posts")
	resp, err := d.Handle(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, canned, resp)
	require.Equal(t, 1, inv.calls)
	assert.Equal(t, payload, inv.events[0])
}

// A payload valid as both shapes is served as the accepted one.
func TestDispatch_AmbiguousPayload(t *testing.T) {
	t.Run("gateway only", func(t *testing.T) {
		canned := map[string]any{"statusCode": 200, "body": "ok"}
		inv := &recordingInvoker{resp: canned}
		d, _, metrics := newTestDispatcher(t, inv, AcceptGatewayOnly)

		payload := ambiguousPayload()
		resp, err := d.Handle(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, canned, resp)
		require.Equal(t, 1, inv.calls)
		assert.Equal(t, payload, inv.events[0])
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.dispatches.WithLabelValues(models.GatewayEventName, OutcomeOK)))
	})

	t.Run("both", func(t *testing.T) {
		inv := &recordingInvoker{resp: map[string]any{"statusCode": 200, "body": "{}"}}
		d, _, _ := newTestDispatcher(t, inv, AcceptBoth)

		resp, err := d.Handle(context.Background(), ambiguousPayload())
		require.NoError(t, err)
		require.Equal(t, 1, inv.calls)
		assert.Equal(t, `{"hello":"hello","world":"123"}`, inv.events[0]["body"])
		assert.Contains(t, resp, "response")
	})
}

func TestDispatch_Rejection(t *testing.T) {
	tests := []struct {
		name       string
		accepted   AcceptedShapes
		payload    map[string]any
		classified bool
		shape      models.InvocationShape
	}{
		{"agent to gateway only", AcceptGatewayOnly, fixtures.AgentToolPayload("POST", "/posts"), true, models.AgentToolEvent},
		{"gateway to agent only", AcceptAgentToolOnly, fixtures.GatewayPayload("POST", "/posts"), true, models.GatewayEvent},
		{"unknown payload", AcceptBoth, map[string]any{"hello": "world"}, false, 0},
		{"empty payload", AcceptBoth, map[string]any{}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvoker{resp: map[string]any{"statusCode": 200}}
			d, hook, metrics := newTestDispatcher(t, inv, tt.accepted)

			resp, err := d.Handle(context.Background(), tt.payload)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Zero(t, inv.calls)
			assert.True(t, errors.Is(err, ErrUnsupportedShape))

			var unsupported *UnsupportedShapeError
			require.True(t, errors.As(err, &unsupported))
			assert.Equal(t, tt.classified, unsupported.Classified)
			assert.Equal(t, tt.accepted, unsupported.Accepted)
			if tt.classified {
				assert.Equal(t, tt.shape, unsupported.Shape)
			}

			last := hook.LastEntry()
			require.NotNil(t, last)
			assert.Equal(t, logrus.WarnLevel, last.Level)
			assert.Equal(t, OutcomeRejected, last.Data["outcome"])
			assert.Equal(t, 1, testutil.CollectAndCount(metrics.dispatches))
		})
	}
}

func TestDispatch_AgentToolConverted(t *testing.T) {
	inv := &recordingInvoker{resp: map[string]any{
		"statusCode": 200,
		"headers":    map[string]any{"Content-Type": "application/json"},
		"body":       `{"nintendo":"koikoi","atari":"game"}`,
	}}
	d, hook, metrics := newTestDispatcher(t, inv, AcceptAgentToolOnly)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	resp, err := d.Handle(ctx, fixtures.AgentToolPayload("POST", "/posts"))
	require.NoError(t, err)
	require.Equal(t, 1, inv.calls)

	sent := inv.events[0]
	assert.Equal(t, "POST", sent["httpMethod"])
	assert.Equal(t, "/posts", sent["path"])
	assert.Equal(t, `{"hello":"hello","world":"123"}`, sent["body"])
	_, err = models.ParseGatewayRequest(sent)
	assert.NoError(t, err)

	parsed, err := models.ParseAgentToolResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, 200, parsed.Response.HTTPStatusCode)
	assert.Equal(t, "/posts", parsed.Response.APIPath)
	assert.JSONEq(t, `{"nintendo":"koikoi","atari":"game"}`, parsed.Response.ResponseBody["application/json"].Body)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "req-1", last.Data["aws_request_id"])
	assert.Equal(t, models.AgentToolEventName, last.Data["shape"])
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.dispatches.WithLabelValues(models.AgentToolEventName, OutcomeOK)))
}

func TestDispatch_HandlerErrorUnchanged(t *testing.T) {
	boom := errors.New("handler exploded")

	for _, accepted := range []AcceptedShapes{AcceptUnset, AcceptBoth} {
		t.Run(accepted.String(), func(t *testing.T) {
			inv := &recordingInvoker{err: boom}
			d, _, _ := newTestDispatcher(t, inv, accepted)

			_, err := d.Handle(context.Background(), fixtures.AgentToolPayload("POST", "/posts"))
			assert.Same(t, boom, err)
			assert.Equal(t, 1, inv.calls)
		})
	}
}

func TestDispatch_BadHandlerResponse(t *testing.T) {
	inv := &recordingInvoker{resp: map[string]any{"body": "no status"}}
	d, _, _ := newTestDispatcher(t, inv, AcceptBoth)

	_, err := d.Handle(context.Background(), fixtures.AgentToolPayload("POST", "/posts"))
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.False(t, IsUnsupportedShape(err))
}

// TestDispatch_PostsThroughGin runs both shapes through a gin engine.
func TestDispatch_PostsThroughGin(t *testing.T) {
	type postInput struct {
		Hello string `json:"hello" binding:"required"`
		World any    `json:"world"`
	}

	var received []postInput
	engine := gin.New()
	engine.POST("/posts", func(c *gin.Context) {
		var in postInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		received = append(received, in)
		c.JSON(http.StatusOK, gin.H{"nintendo": "koikoi", "atari": "game"})
	})
	d, _, _ := newTestDispatcher(t, lambda.NewHTTPInvoker(engine), AcceptBoth)

	resp, err := d.Handle(context.Background(), fixtures.AgentToolPayload("POST", "/posts"))
	require.NoError(t, err)
	agentResp, err := models.ParseAgentToolResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, 200, agentResp.Response.HTTPStatusCode)
	body := agentResp.Response.ResponseBody["application/json"].Body
	assert.Contains(t, body, "nintendo")
	assert.Contains(t, body, "koikoi")
	assert.Contains(t, body, "atari")

	resp, err = d.Handle(context.Background(), fixtures.GatewayPayload("POST", "/posts"))
	require.NoError(t, err)
	assert.Equal(t, float64(200), resp["statusCode"])
	assert.JSONEq(t, `{"nintendo":"koikoi","atari":"game"}`, resp["body"].(string))

	// agent property values arrive as strings
	require.Len(t, received, 2)
	assert.Equal(t, postInput{Hello: "hello", World: "123"}, received[0])
	assert.Equal(t, postInput{Hello: "abc", World: float64(123)}, received[1])
}
