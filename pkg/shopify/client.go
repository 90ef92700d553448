package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Session identifies one installed shop. All Admin API calls are made on
// behalf of a session; the client itself is shop-agnostic.
type Session struct {
	ShopDomain  string
	AccessToken string
}

type Client struct {
	httpClient *http.Client
	apiVersion string
	baseURL    string // test override, empty in production
}

func NewClient(apiVersion string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiVersion: apiVersion,
	}
}

// NewClientWithBaseURL points every request at a fixed base URL instead of
// the shop domain. Test servers use this.
func NewClientWithBaseURL(apiVersion, baseURL string) *Client {
	c := NewClient(apiVersion)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type GraphQLError struct {
	Message    string `json:"message"`
	Path       []any  `json:"path,omitempty"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// UserError is Shopify's validation error shape, returned inside mutation
// payloads rather than the top-level errors array.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

func (c *Client) endpoint(s Session) string {
	if c.baseURL != "" {
		return fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", s.ShopDomain, c.apiVersion)
}

// Post executes one GraphQL operation and decodes the data payload into out.
// Top-level GraphQL errors are converted to a Go error; mutation userErrors
// are the caller's concern.
func (c *Client) Post(ctx context.Context, s Session, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(s), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", s.AccessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read graphql response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request returned status %d: %s", res.StatusCode, truncate(raw, 200))
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}

	return nil
}

// userErrorsToError flattens mutation userErrors into a single error, nil
// when the slice is empty.
func userErrorsToError(op string, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			messages = append(messages, fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message))
		} else {
			messages = append(messages, e.Message)
		}
	}
	return fmt.Errorf("%s: %s", op, strings.Join(messages, "; "))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// formatAmount renders a money value the way the Admin API expects decimal
// strings.
func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
