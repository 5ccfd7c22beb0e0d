package model

import (
	"strings"

	"github.com/avask/termapi/internal/errdef"
)

type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Methods lists the recognized verbs in cycling order.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

func ParseMethod(raw string) (Method, error) {
	candidate := Method(strings.ToUpper(strings.TrimSpace(raw)))
	for _, m := range Methods {
		if m == candidate {
			return m, nil
		}
	}
	return "", errdef.New(errdef.CodeValidation, "unknown http method %q", raw)
}

// Next wraps modulo the recognized verb set, so cycling from DELETE lands on GET.
func (m Method) Next() Method {
	for i, cur := range Methods {
		if cur == m {
			return Methods[(i+1)%len(Methods)]
		}
	}
	return MethodGet
}

func (m Method) HasBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

type Header struct {
	Name    string
	Value   string
	Enabled bool
}

func NewHeader(name, value string) Header {
	return Header{Name: name, Value: value, Enabled: true}
}

// Headers is an ordered multi-map: duplicates are allowed and order is
// preserved, names compare case-insensitively.
type Headers []Header

func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Enabled && strings.EqualFold(header.Name, name) {
			return header.Value, true
		}
	}
	return "", false
}

func (h *Headers) Add(name, value string) {
	*h = append(*h, NewHeader(name, value))
}

func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	copy(out, h)
	return out
}

type AuthKind int

const (
	AuthNone AuthKind = iota
	AuthBasic
	AuthBearer
	AuthAPIKey
)

type Auth struct {
	Kind     AuthKind
	Username string
	Password string
	Token    string
	// API key placement: header name plus value.
	Header string
	Value  string
}

func BasicAuth(username, password string) Auth {
	return Auth{Kind: AuthBasic, Username: username, Password: password}
}

func BearerAuth(token string) Auth {
	return Auth{Kind: AuthBearer, Token: token}
}

func APIKeyAuth(header, value string) Auth {
	return Auth{Kind: AuthAPIKey, Header: header, Value: value}
}

type HTTPRequest struct {
	Method  Method
	URL     string
	Headers Headers
	Auth    Auth
	Body    string
}

// Validate reports problems instead of coercing: an empty URL blocks the send,
// it never becomes a request to "".
func (r *HTTPRequest) Validate() error {
	if r == nil {
		return errdef.New(errdef.CodeValidation, "request is empty")
	}
	if _, err := ParseMethod(string(r.Method)); err != nil {
		return err
	}
	if strings.TrimSpace(r.URL) == "" {
		return errdef.New(errdef.CodeValidation, "request url must not be empty")
	}
	for _, header := range r.Headers {
		if strings.TrimSpace(header.Name) == "" {
			return errdef.New(errdef.CodeValidation, "header name must not be empty")
		}
	}
	return nil
}

func (r *HTTPRequest) Clone() *HTTPRequest {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Headers = r.Headers.Clone()
	return &clone
}

type WebSocketRequest struct {
	URL            string
	PendingMessage string
}

func (r *WebSocketRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.URL) == "" {
		return errdef.New(errdef.CodeValidation, "websocket url must not be empty")
	}
	return nil
}

type GraphQLRequest struct {
	Endpoint  string
	Query     string
	Variables string
}

func (r *GraphQLRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Endpoint) == "" {
		return errdef.New(errdef.CodeValidation, "graphql endpoint must not be empty")
	}
	if strings.TrimSpace(r.Query) == "" {
		return errdef.New(errdef.CodeValidation, "graphql query must not be empty")
	}
	return nil
}

type Protocol int

const (
	ProtocolHTTP Protocol = iota
	ProtocolWebSocket
	ProtocolGraphQL
)

func (p Protocol) String() string {
	switch p {
	case ProtocolWebSocket:
		return "websocket"
	case ProtocolGraphQL:
		return "graphql"
	default:
		return "http"
	}
}

// Request is a tagged union over protocol. Exactly one variant is populated;
// the owning tab keeps the other variants' in-progress edits alive by holding
// its own Request instance.
type Request struct {
	Protocol  Protocol
	HTTP      *HTTPRequest
	WebSocket *WebSocketRequest
	GraphQL   *GraphQLRequest
}

func NewHTTPRequest() *Request {
	return &Request{
		Protocol: ProtocolHTTP,
		HTTP: &HTTPRequest{
			Method: MethodGet,
			Headers: Headers{
				NewHeader("Content-Type", "application/json"),
				NewHeader("Accept", "application/json"),
			},
		},
	}
}

func NewWebSocketRequest() *Request {
	return &Request{Protocol: ProtocolWebSocket, WebSocket: &WebSocketRequest{}}
}

func NewGraphQLRequest() *Request {
	return &Request{Protocol: ProtocolGraphQL, GraphQL: &GraphQLRequest{}}
}

func (r *Request) Validate() error {
	if r == nil {
		return errdef.New(errdef.CodeValidation, "request is empty")
	}
	switch r.Protocol {
	case ProtocolWebSocket:
		return r.WebSocket.Validate()
	case ProtocolGraphQL:
		return r.GraphQL.Validate()
	default:
		return r.HTTP.Validate()
	}
}
