package models

import "sort"

// AgentMessageVersion is the only message version Bedrock Agents speaks.
const AgentMessageVersion = "1.0"

// AgentDescriptor identifies the agent that owns the action group.
type AgentDescriptor struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Alias   string `json:"alias"`
	Version string `json:"version"`
}

// AgentProperty is a name/type/value triple. Values always arrive as strings.
type AgentProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AgentRequestMedia holds the decoded fields of one request body content type.
type AgentRequestMedia struct {
	Properties []AgentProperty `json:"properties"`
}

// AgentRequestBody maps a content type to its decoded fields.
type AgentRequestBody struct {
	Content map[string]AgentRequestMedia `json:"content"`
}

// AgentToolRequest is a Bedrock Agents action-group invocation event.
type AgentToolRequest struct {
	MessageVersion          string            `json:"messageVersion"`
	InputText               string            `json:"inputText"`
	SessionID               string            `json:"sessionId"`
	ActionGroup             string            `json:"actionGroup"`
	APIPath                 string            `json:"apiPath"`
	HTTPMethod              string            `json:"httpMethod"`
	SessionAttributes       map[string]string `json:"sessionAttributes"`
	PromptSessionAttributes map[string]string `json:"promptSessionAttributes"`
	Agent                   AgentDescriptor   `json:"agent"`
	Parameters              []AgentProperty   `json:"parameters,omitempty"`
	RequestBody             *AgentRequestBody `json:"requestBody,omitempty"`
}

// Media returns the request body fields for contentType, if any were sent.
func (r *AgentToolRequest) Media(contentType string) (AgentRequestMedia, bool) {
	if r.RequestBody == nil || r.RequestBody.Content == nil {
		return AgentRequestMedia{}, false
	}
	media, ok := r.RequestBody.Content[contentType]
	return media, ok
}

// ContentTypes returns the request body content types in lexical order.
func (r *AgentToolRequest) ContentTypes() []string {
	if r.RequestBody == nil {
		return nil
	}
	types := make([]string, 0, len(r.RequestBody.Content))
	for ct := range r.RequestBody.Content {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

// ToMap serializes the request using its wire field names.
func (r *AgentToolRequest) ToMap() (map[string]any, error) {
	return Normalize(r)
}

func (r *AgentToolRequest) applyDefaults() {
	if r.SessionAttributes == nil {
		r.SessionAttributes = map[string]string{}
	}
	if r.PromptSessionAttributes == nil {
		r.PromptSessionAttributes = map[string]string{}
	}
}

// AgentResponseBody is one content-type entry of an action-group response.
type AgentResponseBody struct {
	Body string `json:"body"`
}

// AgentResponseDescriptor is the response block returned to the agent.
type AgentResponseDescriptor struct {
	ActionGroup             string                       `json:"actionGroup"`
	APIPath                 string                       `json:"apiPath"`
	HTTPMethod              string                       `json:"httpMethod"`
	HTTPStatusCode          int                          `json:"httpStatusCode"`
	ResponseBody            map[string]AgentResponseBody `json:"responseBody"`
	SessionAttributes       map[string]string            `json:"sessionAttributes,omitempty"`
	PromptSessionAttributes map[string]string            `json:"promptSessionAttributes,omitempty"`
}

// AgentToolResponse is the Lambda result for an action-group invocation.
type AgentToolResponse struct {
	MessageVersion string                  `json:"messageVersion"`
	Response       AgentResponseDescriptor `json:"response"`
}

// AddResponseBody stores body under contentType.
func (r *AgentToolResponse) AddResponseBody(contentType, body string) {
	if r.Response.ResponseBody == nil {
		r.Response.ResponseBody = map[string]AgentResponseBody{}
	}
	r.Response.ResponseBody[contentType] = AgentResponseBody{Body: body}
}

// ToMap serializes the response using its wire field names.
func (r *AgentToolResponse) ToMap() (map[string]any, error) {
	return Normalize(r)
}

func (r *AgentToolResponse) applyDefaults() {
	if r.Response.ResponseBody == nil {
		r.Response.ResponseBody = map[string]AgentResponseBody{}
	}
}
