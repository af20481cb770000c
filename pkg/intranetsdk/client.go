package intranetsdk

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

// Client is a typed client for the intranet authorization service. The
// service trusts the identity provider's bearer token, so the client simply
// carries that token on every authenticated call.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the caller's identity token. Calls to authenticated
	// endpoints fail with ErrInvalidToken when it is empty or expired.
	Token string
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Token: token,
	}
}

// Provision performs the first-sign-in flow for the token's identity.
func (c *Client) Provision(ctx context.Context) (*ProvisionResponse, error) {
	var out ProvisionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/session/provision", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetupOwner runs the one-time manual setup flow. Unauthenticated.
func (c *Client) SetupOwner(ctx context.Context, req SetupOwnerRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/setup/owner", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the caller's directory record and effective permissions.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAccess asks the evaluator whether the caller may perform an action.
// A denial is a normal response, not an error.
func (c *Client) CheckAccess(ctx context.Context, req AuthzCheckRequest) (*AuthzCheckResponse, error) {
	var out AuthzCheckResponse
	if err := c.do(ctx, http.MethodPost, "/v1/authz/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers returns the directory. Requires the manage-users permission.
func (c *Client) ListUsers(ctx context.Context) (*UsersListResponse, error) {
	var out UsersListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches one directory record by id.
func (c *Client) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	var out UserResponse
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update to a record.
func (c *Client) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.do(ctx, http.MethodPatch, "/v1/users/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeRole assigns a new non-owner role to a record.
func (c *Client) ChangeRole(ctx context.Context, id, role string) error {
	return c.do(ctx, http.MethodPut, "/v1/users/"+id+"/role", ChangeRoleRequest{Role: role}, nil)
}

// SetStatus toggles a record between active and inactive.
func (c *Client) SetStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPut, "/v1/users/"+id+"/status", SetStatusRequest{Status: status}, nil)
}

// Health hits the liveness probe.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes either the success body into out or the
// error body into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
