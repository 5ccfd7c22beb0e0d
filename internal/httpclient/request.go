package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/vars"
)

func (c *Client) prepareHTTPRequest(
	ctx context.Context,
	req *model.HTTPRequest,
	resolver *vars.Resolver,
) (*http.Request, error) {
	if req == nil {
		return nil, errdef.New(errdef.CodeHTTP, "request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	expand := func(value string) string {
		if resolver == nil {
			return value
		}
		if expanded, err := resolver.ExpandTemplates(value); err == nil {
			return expanded
		}
		return value
	}

	url := expand(strings.TrimSpace(req.URL))

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(expand(req.Body))
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), url, body)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "build request")
	}

	for _, header := range req.Headers {
		if !header.Enabled {
			continue
		}
		httpReq.Header.Add(header.Name, expand(header.Value))
	}

	applyAuth(httpReq, req.Auth, expand)
	return httpReq, nil
}

func applyAuth(req *http.Request, auth model.Auth, expand func(string) string) {
	switch auth.Kind {
	case model.AuthBasic:
		if req.Header.Get("Authorization") == "" {
			req.SetBasicAuth(expand(auth.Username), expand(auth.Password))
		}
	case model.AuthBearer:
		if req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", "Bearer "+expand(auth.Token))
		}
	case model.AuthAPIKey:
		name := auth.Header
		if name == "" {
			name = "X-API-Key"
		}
		if req.Header.Get(name) == "" {
			req.Header.Set(name, expand(auth.Value))
		}
	}
}
