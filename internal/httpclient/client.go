package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/avask/termapi/internal/model"
	"github.com/avask/termapi/internal/telemetry"
	"github.com/avask/termapi/internal/vars"
)

type Options struct {
	Timeout            time.Duration
	FollowRedirects    bool
	InsecureSkipVerify bool
	ProxyURL           string
}

// Client executes HTTP and GraphQL sends against the canonical request
// model. Each send is independent; transport failures are classified into
// the response's error field rather than surfaced as Go errors.
type Client struct {
	jar         http.CookieJar
	httpFactory func(Options) (*http.Client, error)
	telemetry   telemetry.Instrumenter
}

func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{jar: jar, telemetry: telemetry.Noop()}
	c.httpFactory = c.buildHTTPClient
	return c
}

// SetHTTPFactory overrides how http.Client instances are created. Passing
// nil restores the default factory.
func (c *Client) SetHTTPFactory(factory func(Options) (*http.Client, error)) {
	if factory == nil {
		factory = c.buildHTTPClient
	}
	c.httpFactory = factory
}

// SetTelemetry configures the instrumenter used to emit spans. Passing nil
// restores the no-op implementation.
func (c *Client) SetTelemetry(instr telemetry.Instrumenter) {
	if instr == nil {
		instr = telemetry.Noop()
	}
	c.telemetry = instr
}

// Execute performs one send. The returned error covers pre-flight problems
// only (validation, request construction); network failures come back as a
// Response whose Err field is set.
func (c *Client) Execute(
	ctx context.Context,
	req *model.HTTPRequest,
	resolver *vars.Resolver,
	opts Options,
) (*model.Response, error) {
	httpReq, err := c.prepareHTTPRequest(ctx, req, resolver)
	if err != nil {
		return nil, err
	}

	client, err := c.httpFactory(opts)
	if err != nil {
		return nil, err
	}

	spanCtx, span := c.telemetry.Start(httpReq.Context(), telemetry.RequestStart{
		HTTPRequest: httpReq,
		Protocol:    "http",
	})
	httpReq = httpReq.WithContext(spanCtx)

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	if err != nil {
		latency := time.Since(start)
		span.End(telemetry.RequestResult{Err: err})
		kind, detail := classify(err)
		return model.ErrorResponse(kind, detail, latency), nil
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	latency := time.Since(start)
	if err != nil {
		span.End(telemetry.RequestResult{Err: err, StatusCode: httpResp.StatusCode})
		kind, detail := classify(err)
		return model.ErrorResponse(kind, detail, latency), nil
	}
	span.End(telemetry.RequestResult{StatusCode: httpResp.StatusCode})

	return &model.Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    responseHeaders(httpResp.Header),
		Body:       string(body),
		Latency:    latency,
	}, nil
}

func responseHeaders(h http.Header) model.Headers {
	var out model.Headers
	for name, values := range h {
		for _, value := range values {
			out = append(out, model.NewHeader(name, value))
		}
	}
	return out
}
