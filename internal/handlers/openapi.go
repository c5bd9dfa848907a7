package handlers

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"apigw-agent-bridge/internal/middleware"
)

// ActionGroupDocName is the swag instance serving the action group document
const ActionGroupDocName = "actions"

// actionRoute describes one route the agent may call. A nil request means
// the route takes no body.
type actionRoute struct {
	path        string
	operationID string
	summary     string
	description string
	request     any
	response    any
}

var actionRoutes = []actionRoute{
	{
		path:        "/talk",
		operationID: "talk",
		summary:     "Talk with Shopkeeper",
		description: "Shopkeeper responds with a welcome message",
		response:    TalkResponse{},
	},
	{
		path:        "/purchase",
		operationID: "purchase",
		summary:     "Purchase from Shopkeeper",
		description: "Pass the name and price of the item you want to purchase",
		request:     PurchaseOrderInput{},
		response:    PurchaseOrderResponse{},
	},
	{
		path:        "/sell",
		operationID: "sell",
		summary:     "Sell to Shopkeeper",
		description: "Pass the name of the item you want to sell",
		request:     SellOrderInput{},
		response:    SellOrderResponse{},
	},
}

var (
	actionDocOnce sync.Once
	actionDoc     *openapi3.T
	actionDocErr  error
)

// ActionGroupDocument returns the OpenAPI document of the routes an agent
// action group can call, built from the request and response types the
// handlers bind. It is the schema uploaded with the action group.
func ActionGroupDocument() (*openapi3.T, error) {
	actionDocOnce.Do(func() {
		actionDoc, actionDocErr = buildActionGroupDocument()
	})
	return actionDoc, actionDocErr
}

func buildActionGroupDocument() (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Shopkeeper",
			Version:     Version,
			Description: "Buy from and sell to the shopkeeper",
		},
		Paths: openapi3.NewPaths(),
	}

	errorSchema, err := schemaFor(middleware.ErrorResponse{})
	if err != nil {
		return nil, err
	}

	for _, route := range actionRoutes {
		op := openapi3.NewOperation()
		op.OperationID = route.operationID
		op.Summary = route.summary
		op.Description = route.description

		responseSchema, err := schemaFor(route.response)
		if err != nil {
			return nil, err
		}
		responses := []openapi3.NewResponsesOption{
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Success").WithJSONSchemaRef(responseSchema),
			}),
		}

		if route.request != nil {
			requestSchema, err := schemaFor(route.request)
			if err != nil {
				return nil, err
			}
			op.RequestBody = &openapi3.RequestBodyRef{
				Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(requestSchema),
			}
			responses = append(responses, openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Validation failed").WithJSONSchemaRef(errorSchema),
			}))
		}
		op.Responses = openapi3.NewResponses(responses...)

		doc.AddOperation(route.path, http.MethodPost, op)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid action group document: %w", err)
	}
	return doc, nil
}

func schemaFor(v any) (*openapi3.SchemaRef, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(v, nil, openapi3gen.SchemaCustomizer(bindingRules))
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for %T: %w", v, err)
	}
	return ref, nil
}

// bindingRules copies the gin binding constraints into the generated schema
// so the agent sees the same limits the handlers enforce.
func bindingRules(_ string, t reflect.Type, tag reflect.StructTag, schema *openapi3.Schema) error {
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				continue
			}
			if hasRule(field.Tag.Get("binding"), "required") {
				schema.Required = append(schema.Required, name)
			}
		}
		return nil
	}

	for _, rule := range strings.Split(tag.Get("binding"), ",") {
		key, param, ok := strings.Cut(rule, "=")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			continue
		}
		switch {
		case key == "max" && t.Kind() == reflect.String:
			schema.MaxLength = &n
		case key == "gte" && t.Kind() == reflect.Int:
			lower := float64(n)
			schema.Min = &lower
		}
	}
	return nil
}

func hasRule(binding, rule string) bool {
	for _, r := range strings.Split(binding, ",") {
		if r == rule {
			return true
		}
	}
	return false
}
