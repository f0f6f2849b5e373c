package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is Linear's GraphQL endpoint.
	DefaultEndpoint = "https://api.linear.app/graphql"

	defaultHTTPTimeout = 30 * time.Second
	httpTimeoutEnvKey  = "LINCTL_HTTP_TIMEOUT"
)

// Client executes GraphQL queries and mutations against the Linear API.
// It is a plain request/response transport: no retries, no caching, no
// background work.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient creates a transport for the given endpoint. Linear personal
// API keys are sent verbatim in the Authorization header.
func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   strings.TrimSpace(apiKey),
		http:     &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Do executes one GraphQL request and decodes the response's data field
// into out. Response-level errors are returned as *GraphQLError,
// transport and HTTP failures as-is or as *APIError; neither is retried.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	request := gqlRequest{Query: query, Variables: variables}
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	var envelope gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return &GraphQLError{Errors: envelope.Errors}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorItem     `json:"errors,omitempty"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope gqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && len(envelope.Errors) > 0 {
		apiErr.Message = envelope.Errors[0].Message
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
