package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	envEndpoint    = "TERMAPI_OTEL_ENDPOINT"
	envInsecure    = "TERMAPI_OTEL_INSECURE"
	envService     = "TERMAPI_OTEL_SERVICE"
	envDialTimeout = "TERMAPI_OTEL_DIAL_TIMEOUT"
	envHeaders     = "TERMAPI_OTEL_HEADERS"

	defaultServiceName = "termapi"
)

type Config struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
	Version     string
	DialTimeout time.Duration
	Headers     map[string]string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// ConfigFromEnv reads exporter settings through the provided lookup, usually
// os.Getenv. Malformed optional values fall back to defaults instead of
// failing startup.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		Endpoint:    strings.TrimSpace(getenv(envEndpoint)),
		ServiceName: defaultServiceName,
	}

	if svc := strings.TrimSpace(getenv(envService)); svc != "" {
		cfg.ServiceName = svc
	}
	if raw := strings.TrimSpace(getenv(envInsecure)); raw != "" {
		if insecure, err := strconv.ParseBool(raw); err == nil {
			cfg.Insecure = insecure
		}
	}
	if raw := strings.TrimSpace(getenv(envDialTimeout)); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.DialTimeout = d
		}
	}
	if headers, err := ParseHeaders(getenv(envHeaders)); err == nil {
		cfg.Headers = headers
	}
	return cfg
}

// ParseHeaders splits a "key=value, key=value" list into a map. An empty or
// blank input yields nil.
func ParseHeaders(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed header pair %q", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty header name in %q", pair)
		}
		headers[key] = strings.TrimSpace(value)
	}
	if len(headers) == 0 {
		return nil, nil
	}
	return headers, nil
}
