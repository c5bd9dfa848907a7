package models

// DefaultSourceIP is the caller address given to events that have no network origin.
const DefaultSourceIP = "127.0.0.1"

// EmptyBody is the body of a request that carries no fields.
const EmptyBody = "{}"

// EmptyGatewayRequest returns the smallest GatewayRequest the route framework accepts.
// Context fields with no meaningful value are empty; the timestamp is the epoch.
func EmptyGatewayRequest() *GatewayRequest {
	body := EmptyBody
	return &GatewayRequest{
		HTTPMethod:                      "GET",
		Headers:                         map[string]string{},
		MultiValueHeaders:               map[string][]string{},
		QueryStringParameters:           map[string]string{},
		MultiValueQueryStringParameters: map[string][]string{},
		RequestContext: GatewayRequestContext{
			Authorizer: &GatewayAuthorizer{},
			HTTPMethod: "GET",
			Identity:   GatewayIdentity{SourceIP: DefaultSourceIP},
		},
		Body: &body,
	}
}

// EmptyAgentToolRequest returns an action-group event with placeholder fields.
func EmptyAgentToolRequest() *AgentToolRequest {
	return &AgentToolRequest{
		MessageVersion:          AgentMessageVersion,
		SessionAttributes:       map[string]string{},
		PromptSessionAttributes: map[string]string{},
		Parameters:              []AgentProperty{},
		RequestBody:             &AgentRequestBody{Content: map[string]AgentRequestMedia{}},
	}
}

// EmptyAgentToolResponse returns a response with no body entries and status 0.
func EmptyAgentToolResponse() *AgentToolResponse {
	return &AgentToolResponse{
		MessageVersion: AgentMessageVersion,
		Response: AgentResponseDescriptor{
			ResponseBody: map[string]AgentResponseBody{},
		},
	}
}
