// Package supabase is a small client for the hosted backend: PostgREST row lookups and GoTrue sign-up.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoRows is returned by SelectOne when no row matches the filters
var ErrNoRows = errors.New("supabase: no rows")

// MaxResponseBytes caps every response body read from the backend
const MaxResponseBytes = 1 << 20

// APIError is a non-2xx answer from the hosted backend
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: status %d: %s", e.Status, e.Message)
}

// errorBody covers the PostgREST and GoTrue error shapes
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (b *errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Msg != "":
		return b.Msg
	default:
		return b.ErrorDescription
	}
}

// Client talks to one hosted backend project
type Client struct {
	rest *resty.Client
}

// Option configures a Client
type Option func(*resty.Client)

// WithTimeout replaces the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// NewClient creates a client for the project at baseURL authenticated with apiKey.
// Requests are never retried.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(0).
		SetResponseBodyLimit(MaxResponseBytes)
	for _, opt := range opts {
		opt(rc)
	}
	return &Client{rest: rc}
}

// SelectOne fetches at most one row of table matching the equality filters into dest
func (c *Client) SelectOne(ctx context.Context, table string, filters map[string]string, dest any) error {
	params := map[string]string{"select": "*", "limit": "1"}
	for column, value := range filters {
		params[column] = "eq." + value
	}

	var rows []json.RawMessage
	req := c.rest.R().
		SetContext(ctx).
		SetPathParam("table", table).
		SetQueryParams(params).
		SetResult(&rows)
	if err := c.execute(req, resty.MethodGet, "/rest/v1/{table}"); err != nil {
		return err
	}

	if len(rows) == 0 {
		return ErrNoRows
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("decode %s row: %w", table, err)
	}
	return nil
}

// SignUpParams is an account creation request
type SignUpParams struct {
	Email      string
	Password   string
	Data       map[string]string
	RedirectTo string
}

// SignUpResult is the outcome of an account creation request
type SignUpResult struct {
	UserID string
	// HasSession is false when the provider withholds a session until the email is confirmed
	HasSession bool
}

type signUpBody struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type signUpReply struct {
	AccessToken string `json:"access_token"`
	ID          string `json:"id"`
	User        *struct {
		ID string `json:"id"`
	} `json:"user"`
}

// SignUp creates an account
func (c *Client) SignUp(ctx context.Context, p SignUpParams) (*SignUpResult, error) {
	var reply signUpReply
	req := c.rest.R().
		SetContext(ctx).
		SetBody(signUpBody{Email: p.Email, Password: p.Password, Data: p.Data}).
		SetResult(&reply)
	if p.RedirectTo != "" {
		req.SetQueryParam("redirect_to", p.RedirectTo)
	}
	if err := c.execute(req, resty.MethodPost, "/auth/v1/signup"); err != nil {
		return nil, err
	}

	res := &SignUpResult{UserID: reply.ID, HasSession: reply.AccessToken != ""}
	if reply.User != nil && reply.User.ID != "" {
		res.UserID = reply.User.ID
	}
	return res, nil
}

// execute sends req and turns error statuses into *APIError. Bodies are
// decoded as JSON whatever content type the backend declares.
func (c *Client) execute(req *resty.Request, method, path string) error {
	req.SetError(&errorBody{}).ForceContentType("application/json")

	resp, err := req.Execute(method, path)
	if resp != nil && resp.IsError() {
		return apiError(resp)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return nil
}

func apiError(resp *resty.Response) *APIError {
	msg := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		msg = body.text()
	}
	if msg == "" {
		msg = strings.TrimSpace(resp.String())
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}
