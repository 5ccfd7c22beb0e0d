package httpclient

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/avask/termapi/internal/errdef"
	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/vars"
)

type graphqlPayload struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// ExecuteGraphQL posts a query to the endpoint as a standard graphql-over-http
// JSON envelope. Variables must be a JSON object when present; the textarea
// content is passed through verbatim.
func (c *Client) ExecuteGraphQL(
	ctx context.Context,
	req *model.GraphQLRequest,
	resolver *vars.Resolver,
	opts Options,
) (*model.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := graphqlPayload{Query: req.Query}
	if trimmed := strings.TrimSpace(req.Variables); trimmed != "" {
		if !json.Valid([]byte(trimmed)) {
			return nil, errdef.New(errdef.CodeValidation, "graphql variables must be valid json")
		}
		payload.Variables = json.RawMessage(trimmed)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHTTP, err, "encode graphql payload")
	}

	httpReq := &model.HTTPRequest{
		Method: model.MethodPost,
		URL:    req.Endpoint,
		Headers: model.Headers{
			model.NewHeader("Content-Type", "application/json"),
			model.NewHeader("Accept", "application/json"),
		},
		Body: string(body),
	}
	return c.Execute(ctx, httpReq, resolver, opts)
}
