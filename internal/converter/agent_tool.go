package converter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"apigw-agent-bridge/internal/models"
)

// DefaultContentType is the body content type used when none is configured.
const DefaultContentType = "application/json"

// AgentToolConverter converts Bedrock Agents action-group events to API
// Gateway proxy events and back. It holds no mutable state.
type AgentToolConverter struct {
	contentType string
}

// NewAgentToolConverter creates a converter that prefers contentType when
// reading request bodies and keying response bodies.
func NewAgentToolConverter(contentType string) *AgentToolConverter {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &AgentToolConverter{contentType: contentType}
}

// ContentType returns the configured content type.
func (c *AgentToolConverter) ContentType() string {
	return c.contentType
}

// ResolveContentType picks the content type for one conversion round: the
// configured type if the request body carries it, else the first content type
// present in lexical order, else the configured type.
func (c *AgentToolConverter) ResolveContentType(req *models.AgentToolRequest) string {
	if _, ok := req.Media(c.contentType); ok {
		return c.contentType
	}
	if types := req.ContentTypes(); len(types) > 0 {
		return types[0]
	}
	return c.contentType
}

// ConvertRequest parses an action-group event and returns the equivalent proxy event.
func (c *AgentToolConverter) ConvertRequest(event map[string]any) (map[string]any, error) {
	req, err := models.ParseAgentToolRequest(event)
	if err != nil {
		return nil, err
	}
	out, err := c.AgentToolToGateway(req).ToMap()
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}
	return out, nil
}

// ConvertResponse builds the action-group response for event from the handler's proxy response.
func (c *AgentToolConverter) ConvertResponse(event, response map[string]any) (map[string]any, error) {
	req, err := models.ParseAgentToolRequest(event)
	if err != nil {
		return nil, err
	}
	resp, err := models.ParseGatewayResponse(response)
	if err != nil {
		return nil, err
	}
	out, err := c.GatewayResponseToAgentTool(req, resp).ToMap()
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent response: %w", err)
	}
	return out, nil
}

// AgentToolToGateway synthesizes the proxy event a route handler expects.
//
// Parameters named by a {placeholder} in the API path become path parameters
// and are substituted, path escaped, into the concrete path; all other
// parameters become query string parameters. The body is a JSON object of the
// request body properties for the resolved content type, or "{}".
func (c *AgentToolConverter) AgentToolToGateway(req *models.AgentToolRequest) *models.GatewayRequest {
	contentType := c.ResolveContentType(req)
	out := models.EmptyGatewayRequest()

	templateNames := pathTemplateNames(req.APIPath)
	pathParams := map[string]string{}
	for _, p := range req.Parameters {
		if _, ok := templateNames[p.Name]; ok {
			pathParams[p.Name] = p.Value
			continue
		}
		out.QueryStringParameters[p.Name] = p.Value
		out.MultiValueQueryStringParameters[p.Name] = append(out.MultiValueQueryStringParameters[p.Name], p.Value)
	}
	path := expandPath(req.APIPath, pathParams)

	out.Resource = req.APIPath
	out.Path = path
	out.HTTPMethod = req.HTTPMethod
	out.PathParameters = pathParams
	out.Headers[models.HeaderContentType] = contentType
	out.MultiValueHeaders[models.HeaderContentType] = []string{contentType}

	out.RequestContext.ResourcePath = req.APIPath
	out.RequestContext.Path = path
	out.RequestContext.HTTPMethod = req.HTTPMethod

	body := models.EmptyBody
	if media, ok := req.Media(contentType); ok {
		fields := make(map[string]string, len(media.Properties))
		for _, prop := range media.Properties {
			fields[prop.Name] = prop.Value
		}
		// map[string]string always encodes, with keys sorted
		data, _ := json.Marshal(fields)
		body = string(data)
	}
	out.Body = &body
	return out
}

// GatewayResponseToAgentTool wraps a handler response for the agent that sent req.
func (c *AgentToolConverter) GatewayResponseToAgentTool(req *models.AgentToolRequest, resp *models.GatewayResponse) *models.AgentToolResponse {
	out := models.EmptyAgentToolResponse()
	out.Response.ActionGroup = req.ActionGroup
	out.Response.APIPath = req.APIPath
	out.Response.HTTPMethod = req.HTTPMethod
	out.Response.HTTPStatusCode = resp.StatusCode
	out.Response.SessionAttributes = copyAttributes(req.SessionAttributes)
	out.Response.PromptSessionAttributes = copyAttributes(req.PromptSessionAttributes)
	out.AddResponseBody(c.ResolveContentType(req), resp.Body)
	return out
}

// GatewayToAgentTool builds an action-group event carrying the same call as
// g. Agent, session and action-group identifiers are left empty. A JSON
// object body is flattened into properties under the request content type.
func (c *AgentToolConverter) GatewayToAgentTool(g *models.GatewayRequest) *models.AgentToolRequest {
	out := models.EmptyAgentToolRequest()

	out.HTTPMethod = g.HTTPMethod
	if out.HTTPMethod == "" {
		out.HTTPMethod = g.RequestContext.HTTPMethod
	}
	out.APIPath = g.Resource
	if out.APIPath == "" {
		out.APIPath = g.RequestContext.ResourcePath
	}

	for _, name := range sortedKeys(g.PathParameters) {
		out.Parameters = append(out.Parameters, models.AgentProperty{Name: name, Type: "string", Value: g.PathParameters[name]})
	}
	if len(g.MultiValueQueryStringParameters) > 0 {
		for _, name := range sortedKeys(g.MultiValueQueryStringParameters) {
			for _, v := range g.MultiValueQueryStringParameters[name] {
				out.Parameters = append(out.Parameters, models.AgentProperty{Name: name, Type: "string", Value: v})
			}
		}
	} else {
		for _, name := range sortedKeys(g.QueryStringParameters) {
			out.Parameters = append(out.Parameters, models.AgentProperty{Name: name, Type: "string", Value: g.QueryStringParameters[name]})
		}
	}

	contentType := g.ContentType()
	if contentType == "" {
		contentType = c.contentType
	}
	if props, ok := bodyProperties(g.BodyString()); ok {
		out.RequestBody.Content[contentType] = models.AgentRequestMedia{Properties: props}
	}
	return out
}

// AgentToolResponseToGateway recovers the proxy response carried by resp.
func (c *AgentToolConverter) AgentToolResponseToGateway(resp *models.AgentToolResponse) *models.GatewayResponse {
	out := &models.GatewayResponse{
		StatusCode: resp.Response.HTTPStatusCode,
		Headers:    map[string]string{},
	}
	contentType := c.contentType
	if _, ok := resp.Response.ResponseBody[contentType]; !ok {
		if keys := sortedKeys(resp.Response.ResponseBody); len(keys) > 0 {
			contentType = keys[0]
		}
	}
	if body, ok := resp.Response.ResponseBody[contentType]; ok {
		out.Body = body.Body
		out.Headers[models.HeaderContentType] = contentType
	}
	return out
}

// pathTemplateNames returns the placeholder names in an API path such as
// /items/{id} or /files/{proxy+}.
func pathTemplateNames(apiPath string) map[string]struct{} {
	names := map[string]struct{}{}
	for _, seg := range strings.Split(apiPath, "/") {
		if name, ok := placeholder(seg); ok {
			names[name] = struct{}{}
		}
	}
	return names
}

// expandPath substitutes escaped parameter values into apiPath. A value
// never adds path segments, except for a greedy {name+} placeholder whose
// slashes are kept.
func expandPath(apiPath string, params map[string]string) string {
	segs := strings.Split(apiPath, "/")
	for i, seg := range segs {
		name, ok := placeholder(seg)
		if !ok {
			continue
		}
		v, ok := params[name]
		if !ok {
			continue
		}
		if greedy(seg) {
			parts := strings.Split(v, "/")
			for j, part := range parts {
				parts[j] = url.PathEscape(part)
			}
			segs[i] = strings.Join(parts, "/")
			continue
		}
		segs[i] = url.PathEscape(v)
	}
	return strings.Join(segs, "/")
}

func placeholder(seg string) (string, bool) {
	if len(seg) < 3 || seg[0] != '{' || seg[len(seg)-1] != '}' {
		return "", false
	}
	return strings.TrimSuffix(seg[1:len(seg)-1], "+"), true
}

func greedy(seg string) bool {
	return strings.HasSuffix(seg, "+}")
}

// bodyProperties flattens a JSON object body. String values are kept as is;
// other values keep their JSON text.
func bodyProperties(body string) ([]models.AgentProperty, bool) {
	if strings.TrimSpace(body) == "" {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil || fields == nil {
		return nil, false
	}
	props := make([]models.AgentProperty, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		raw := fields[name]
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			props = append(props, models.AgentProperty{Name: name, Type: "string", Value: s})
			continue
		}
		props = append(props, models.AgentProperty{Name: name, Type: jsonType(raw), Value: string(raw)})
	}
	return props, true
}

func jsonType(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "true" || text == "false":
		return "boolean"
	case strings.HasPrefix(text, "{"):
		return "object"
	case strings.HasPrefix(text, "["):
		return "array"
	case text == "null":
		return "null"
	case strings.ContainsAny(text, ".eE"):
		return "number"
	default:
		return "integer"
	}
}

func copyAttributes(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
