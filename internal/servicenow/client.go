// Package servicenow is a minimal ServiceNow Table API client.
//
// Construction resolves credentials, requires an instance and selects an
// authentication method; any of those failing returns a configuration error
// and no client. Requests are single attempts with a per-request timeout.
package servicenow

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"snowloader/internal/auth"
	"snowloader/internal/credentials"
	"snowloader/internal/logger"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultQueryLimit = 100
)

// Options configure NewClient. Explicit credential fields take precedence
// over the environment and the secret store.
type Options struct {
	Credentials credentials.ExplicitValues
	Resolver    *credentials.Resolver
	Timeout     time.Duration
	QueryLimit  int
	// BaseURL replaces https://<instance>/api/now
	BaseURL string
	Logger  *zerolog.Logger
}

// Client talks to one ServiceNow instance
type Client struct {
	http       *resty.Client
	instance   string
	decision   auth.Decision
	queryLimit int
	log        zerolog.Logger
}

// NewClient resolves the instance and an authentication method
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = &credentials.Resolver{}
	}
	creds := resolver.ResolveAll(ctx, opts.Credentials)

	instance, err := auth.ResolveInstance(creds)
	if err != nil {
		return nil, err
	}
	decision, err := auth.Select(creds)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("servicenow")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := opts.QueryLimit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s/api/now", instance)
	}

	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if err := decision.Apply(hc); err != nil {
		return nil, err
	}

	log.Debug().
		Str("instance", instance).
		Str("auth", decision.String()).
		Interface("origins", creds.Origins()).
		Msg("ServiceNow client ready")

	return &Client{
		http:       hc,
		instance:   instance,
		decision:   decision,
		queryLimit: limit,
		log:        log,
	}, nil
}

// Instance returns the normalized instance host
func (c *Client) Instance() string {
	return c.instance
}

// AuthMethod returns the selected authentication method
func (c *Client) AuthMethod() auth.Method {
	return c.decision.Method
}

type singleResult struct {
	Result map[string]any `json:"result"`
}

type listResult struct {
	Result []map[string]any `json:"result"`
}

// CreateRecord inserts a record and returns the stored record, including
// the sys_id assigned by the instance.
func (c *Client) CreateRecord(ctx context.Context, table string, data map[string]any) (map[string]any, error) {
	var out singleResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(data).
		SetResult(&out).
		Post("/table/" + table)
	if err := c.check(resp, err, http.MethodPost, table); err != nil {
		return nil, err
	}

	c.log.Debug().Str("table", table).Int("status", resp.StatusCode()).Msg("record created")
	return out.Result, nil
}

// GetRecord fetches one record. A missing record returns nil without error.
func (c *Client) GetRecord(ctx context.Context, table, sysID string) (map[string]any, error) {
	if sysID == "" {
		return nil, ErrEmptySysID
	}

	var out singleResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetPathParam("sys_id", sysID).
		Get("/table/" + table + "/{sys_id}")
	if err == nil && resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := c.check(resp, err, http.MethodGet, table); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// UpdateRecord patches the given fields of an existing record
func (c *Client) UpdateRecord(ctx context.Context, table, sysID string, data map[string]any) (map[string]any, error) {
	if sysID == "" {
		return nil, ErrEmptySysID
	}

	var out singleResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(data).
		SetResult(&out).
		SetPathParam("sys_id", sysID).
		Patch("/table/" + table + "/{sys_id}")
	if err := c.check(resp, err, http.MethodPatch, table); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// QueryRecords returns a single page of records matching an encoded query.
// A non-positive limit uses the client default.
func (c *Client) QueryRecords(ctx context.Context, table, query string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = c.queryLimit
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("sysparm_limit", strconv.Itoa(limit))
	if query != "" {
		req.SetQueryParam("sysparm_query", query)
	}

	var out listResult
	resp, err := req.SetResult(&out).Get("/table/" + table)
	if err := c.check(resp, err, http.MethodGet, table); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *Client) check(resp *resty.Response, err error, method, table string) error {
	if err != nil {
		return fmt.Errorf("servicenow %s %s: %w", method, table, err)
	}
	if resp.IsError() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Method:     method,
			Table:      table,
			Body:       string(resp.Body()),
		}
	}
	return nil
}
