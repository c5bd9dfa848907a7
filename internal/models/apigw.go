package models

import "strings"

// MessageEventType is the only requestContext.eventType value that allows a messageId.
const MessageEventType = "MESSAGE"

// HeaderContentType is the header key the route framework reads the body type from.
const HeaderContentType = "content-type"

// GatewayClientCertValidity is the validity window of a mutual TLS client certificate.
type GatewayClientCertValidity struct {
	NotBefore string `json:"notBefore"`
	NotAfter  string `json:"notAfter"`
}

// GatewayClientCert describes the client certificate presented over mutual TLS.
type GatewayClientCert struct {
	ClientCertPem string                    `json:"clientCertPem"`
	SubjectDN     string                    `json:"subjectDN"`
	IssuerDN      string                    `json:"issuerDN"`
	SerialNumber  string                    `json:"serialNumber"`
	Validity      GatewayClientCertValidity `json:"validity"`
}

// GatewayIdentity carries caller identity. Only SourceIP is required.
type GatewayIdentity struct {
	AccessKey                     string             `json:"accessKey,omitempty"`
	AccountID                     string             `json:"accountId,omitempty"`
	APIKey                        string             `json:"apiKey,omitempty"`
	APIKeyID                      string             `json:"apiKeyId,omitempty"`
	Caller                        string             `json:"caller,omitempty"`
	CognitoAuthenticationProvider string             `json:"cognitoAuthenticationProvider,omitempty"`
	CognitoAuthenticationType     string             `json:"cognitoAuthenticationType,omitempty"`
	CognitoIdentityID             string             `json:"cognitoIdentityId,omitempty"`
	CognitoIdentityPoolID         string             `json:"cognitoIdentityPoolId,omitempty"`
	PrincipalOrgID                string             `json:"principalOrgId,omitempty"`
	SourceIP                      string             `json:"sourceIp"`
	User                          string             `json:"user,omitempty"`
	UserAgent                     string             `json:"userAgent,omitempty"`
	UserArn                       string             `json:"userArn,omitempty"`
	ClientCert                    *GatewayClientCert `json:"clientCert,omitempty"`
}

// GatewayAuthorizer holds authorizer output attached by the gateway.
type GatewayAuthorizer struct {
	Claims map[string]any `json:"claims,omitempty"`
	Scopes []string       `json:"scopes,omitempty"`
}

// GatewayRequestContext is the requestContext block of a proxy event.
type GatewayRequestContext struct {
	AccountID         string             `json:"accountId"`
	APIID             string             `json:"apiId"`
	Authorizer        *GatewayAuthorizer `json:"authorizer,omitempty"`
	Stage             string             `json:"stage"`
	Protocol          string             `json:"protocol"`
	Identity          GatewayIdentity    `json:"identity"`
	RequestID         string             `json:"requestId"`
	RequestTime       string             `json:"requestTime"`
	RequestTimeEpoch  int64              `json:"requestTimeEpoch"`
	ResourceID        string             `json:"resourceId,omitempty"`
	ResourcePath      string             `json:"resourcePath"`
	DomainName        string             `json:"domainName,omitempty"`
	DomainPrefix      string             `json:"domainPrefix,omitempty"`
	ExtendedRequestID string             `json:"extendedRequestId,omitempty"`
	HTTPMethod        string             `json:"httpMethod"`
	Path              string             `json:"path"`
	ConnectedAt       *int64             `json:"connectedAt,omitempty"`
	ConnectionID      string             `json:"connectionId,omitempty"`
	EventType         *string            `json:"eventType,omitempty"`
	MessageDirection  string             `json:"messageDirection,omitempty"`
	MessageID         *string            `json:"messageId,omitempty"`
	RouteKey          string             `json:"routeKey,omitempty"`
	OperationName     string             `json:"operationName,omitempty"`
}

// GatewayRequest is an API Gateway REST proxy event as the route framework expects it.
type GatewayRequest struct {
	Version                         string                `json:"version,omitempty"`
	Resource                        string                `json:"resource"`
	Path                            string                `json:"path"`
	HTTPMethod                      string                `json:"httpMethod"`
	Headers                         map[string]string     `json:"headers"`
	MultiValueHeaders               map[string][]string   `json:"multiValueHeaders"`
	QueryStringParameters           map[string]string     `json:"queryStringParameters"`
	MultiValueQueryStringParameters map[string][]string   `json:"multiValueQueryStringParameters"`
	RequestContext                  GatewayRequestContext `json:"requestContext"`
	PathParameters                  map[string]string     `json:"pathParameters"`
	StageVariables                  map[string]string     `json:"stageVariables"`
	IsBase64Encoded                 bool                  `json:"isBase64Encoded"`
	Body                            *string               `json:"body"`
}

// ContentType returns the request content type header, matched case-insensitively.
func (r *GatewayRequest) ContentType() string {
	return headerValue(r.Headers, HeaderContentType)
}

// BodyString returns the body, or "" when it is absent.
func (r *GatewayRequest) BodyString() string {
	if r.Body == nil {
		return ""
	}
	return *r.Body
}

// ToMap serializes the request using its wire field names.
func (r *GatewayRequest) ToMap() (map[string]any, error) {
	return Normalize(r)
}

func (r *GatewayRequest) applyDefaults() {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	if r.MultiValueHeaders == nil {
		r.MultiValueHeaders = map[string][]string{}
	}
}

// GatewayResponse is what the route framework returns for a proxy event.
type GatewayResponse struct {
	StatusCode        int                 `json:"statusCode"`
	Headers           map[string]string   `json:"headers,omitempty"`
	MultiValueHeaders map[string][]string `json:"multiValueHeaders,omitempty"`
	Body              string              `json:"body"`
	IsBase64Encoded   bool                `json:"isBase64Encoded"`
}

// ToMap serializes the response using its wire field names.
func (r *GatewayResponse) ToMap() (map[string]any, error) {
	return Normalize(r)
}

func (r *GatewayResponse) applyDefaults() {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
}

func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[key]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
