// Package testutil builds invocation payloads for tests.
package testutil

import "encoding/json"

// AgentToolPayload returns a Bedrock Agents action-group event for method and
// apiPath with two JSON body properties, hello and world.
func AgentToolPayload(method, apiPath string) map[string]any {
	return map[string]any{
		"messageVersion": "1.0",
		"agent": map[string]any{
			"name":    "string",
			"id":      "string",
			"alias":   "string",
			"version": "string",
		},
		"inputText":   "string",
		"sessionId":   "string",
		"actionGroup": "string",
		"apiPath":     apiPath,
		"httpMethod":  method,
		"parameters": []any{
			map[string]any{"name": "string", "type": "string", "value": "string"},
		},
		"requestBody": map[string]any{
			"content": map[string]any{
				"application/json": map[string]any{
					"properties": []any{
						map[string]any{"name": "hello", "type": "string", "value": "hello"},
						map[string]any{"name": "world", "type": "int", "value": "123"},
					},
				},
			},
		},
		"sessionAttributes":       map[string]any{"string": "string"},
		"promptSessionAttributes": map[string]any{"string": "string"},
	}
}

// GatewayPayload returns an API Gateway REST proxy event for method and path
// with a JSON body.
func GatewayPayload(method, path string) map[string]any {
	body, _ := json.Marshal(map[string]any{"hello": "abc", "world": 123})
	return map[string]any{
		"resource":   path,
		"path":       path,
		"httpMethod": method,
		"requestContext": map[string]any{
			"resourcePath":     path,
			"httpMethod":       method,
			"path":             path,
			"accountId":        "",
			"apiId":            "",
			"authorizer":       map[string]any{},
			"identity":         map[string]any{"sourceIp": "0.0.0.0"},
			"protocol":         "",
			"requestId":        "",
			"requestTime":      "",
			"requestTimeEpoch": 0,
			"stage":            "",
		},
		"headers":                         map[string]any{"content-type": "application/json"},
		"multiValueHeaders":               map[string]any{},
		"queryStringParameters":           map[string]any{},
		"multiValueQueryStringParameters": map[string]any{},
		"pathParameters":                  map[string]any{},
		"stageVariables":                  nil,
		"body":                            string(body),
		"isBase64Encoded":                 false,
	}
}

// Clone deep-copies a JSON-shaped payload so a test can mutate it freely.
func Clone(payload map[string]any) map[string]any {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return out
}
