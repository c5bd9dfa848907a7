package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// HTTPInvoker serves API Gateway proxy events with an http.Handler.
type HTTPInvoker struct {
	handler http.Handler
}

// NewHTTPInvoker creates an invoker for handler (usually a gin engine)
func NewHTTPInvoker(handler http.Handler) *HTTPInvoker {
	return &HTTPInvoker{handler: handler}
}

// Invoke decodes event as a proxy request, serves it and encodes the proxy response.
func (i *HTTPInvoker) Invoke(ctx context.Context, event map[string]any) (map[string]any, error) {
	var req events.APIGatewayProxyRequest
	if err := convert(event, &req); err != nil {
		return nil, fmt.Errorf("failed to decode proxy request: %w", err)
	}

	resp, err := i.Proxy(ctx, req)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := convert(resp, &out); err != nil {
		return nil, fmt.Errorf("failed to encode proxy response: %w", err)
	}
	return out, nil
}

// Proxy serves one typed proxy event.
func (i *HTTPInvoker) Proxy(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	httpReq, err := NewHTTPRequest(ctx, &event)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	w := newResponseWriter()
	i.handler.ServeHTTP(w, httpReq)
	return w.proxyResponse(), nil
}

// NewHTTPRequest builds the http.Request described by a proxy event. The
// event is available to handlers through GatewayEventFromContext.
func NewHTTPRequest(ctx context.Context, event *events.APIGatewayProxyRequest) (*http.Request, error) {
	method := firstNonEmpty(event.HTTPMethod, event.RequestContext.HTTPMethod, http.MethodGet)
	path := firstNonEmpty(event.Path, event.RequestContext.Path, event.RequestContext.ResourcePath, "/")

	query := url.Values{}
	if len(event.MultiValueQueryStringParameters) > 0 {
		for k, vs := range event.MultiValueQueryStringParameters {
			for _, v := range vs {
				query.Add(k, v)
			}
		}
	} else {
		for k, v := range event.QueryStringParameters {
			query.Set(k, v)
		}
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		body = decoded
	}

	// An escaped path keeps its encoded form so %2F stays inside one segment.
	u := &url.URL{Path: path, RawQuery: query.Encode()}
	if unescaped, err := url.PathUnescape(path); err == nil && unescaped != path {
		u.Path = unescaped
		u.RawPath = path
	}
	req, err := http.NewRequestWithContext(WithGatewayEvent(ctx, event), method, u.RequestURI(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}

	for k, vs := range event.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range event.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}
	if ip := event.RequestContext.Identity.SourceIP; ip != "" {
		req.RemoteAddr = net.JoinHostPort(ip, "0")
	}
	req.ContentLength = int64(len(body))
	req.RequestURI = u.RequestURI()
	return req, nil
}

// responseWriter buffers a handler response in memory.
type responseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

func newResponseWriter() *responseWriter {
	return &responseWriter{header: http.Header{}}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(p)
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status
}

// proxyResponse renders the buffered response. Bodies that are not valid
// UTF-8 are base64 encoded.
func (w *responseWriter) proxyResponse() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(w.header)),
		MultiValueHeaders: make(map[string][]string, len(w.header)),
	}
	for k, vs := range w.header {
		if len(vs) == 0 {
			continue
		}
		resp.Headers[k] = vs[0]
		resp.MultiValueHeaders[k] = append([]string(nil), vs...)
	}

	data := w.body.Bytes()
	if utf8.Valid(data) {
		resp.Body = string(data)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(data)
		resp.IsBase64Encoded = true
	}
	return resp
}

func convert(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
