// Package granite implements the HTTP client for the Granite authorizables API.
//
// Groups live under /home/groups/{initial}/{id}, where {initial} is the first
// character of the group ID. That split is a storage convention of the remote
// service, not something callers need to know about.
package granite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/aem-tools/groupctl/internal/group"
)

const authorizablesPath = "/libs/granite/security/post/authorizables"

// Config holds the connection parameters for the remote service.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
}

// Client talks to the administrative HTTP endpoint of one remote instance.
//
// All calls are sequential and blocking. The client does not retry.
type Client struct {
	baseURL  string
	user     string
	password string

	// invocationID correlates all requests of one run in the debug logs.
	invocationID string

	http *http.Client
}

// New returns a client for the instance described by cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("missing host for the remote service")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port %d for the remote service", cfg.Port)
	}

	return &Client{
		baseURL:      fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		user:         cfg.User,
		password:     cfg.Password,
		invocationID: uuid.New().String(),
		http:         http.DefaultClient,
	}, nil
}

// Group fetches the current state of the group with the given ID.
//
// Any non-200 response is reported as "the group does not exist". This mirrors
// the remote service, which does not distinguish a missing group from other
// read failures; a 401 or 500 therefore also comes back as absent.
func (c *Client) Group(ctx context.Context, id string) (observed group.Observed, exists bool, err error) {
	path := groupPath(id, ".rw.json") + "?props=*"

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return group.Observed{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("treating group as absent", "id", id, "status", resp.StatusCode, "invocation", c.invocationID)
		return group.Observed{}, false, nil
	}

	var payload struct {
		Name             *string `json:"name"`
		DeclaredMemberOf *[]struct {
			AuthorizableID string `json:"authorizableId"`
		} `json:"declaredMemberOf"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return group.Observed{}, false, fmt.Errorf("could not decode group %q: %w", id, err)
	}
	if payload.Name == nil || payload.DeclaredMemberOf == nil {
		return group.Observed{}, false, fmt.Errorf("could not decode group %q: response misses name or declaredMemberOf", id)
	}

	observed = group.Observed{
		DisplayName: *payload.Name,
		MemberOf:    make([]string, 0, len(*payload.DeclaredMemberOf)),
	}
	for _, m := range *payload.DeclaredMemberOf {
		observed.MemberOf = append(observed.MemberOf, m.AuthorizableID)
	}
	return observed, true, nil
}

// CreateGroup creates the group and confirms with a follow-up read that the
// remote service reports it as existing. A create that is acknowledged with
// 201 but not visible afterwards is an operation failure.
func (c *Client) CreateGroup(ctx context.Context, id, name string, memberOf []string) error {
	form := url.Values{}
	form.Set("createGroup", "")
	form.Set("authorizableId", id)
	form.Set("profile/givenName", name)
	for _, g := range memberOf {
		form.Add("membership", g)
	}

	if err := c.postForm(ctx, authorizablesPath, form, http.StatusCreated); err != nil {
		return err
	}

	if _, exists, err := c.Group(ctx, id); err != nil {
		return err
	} else if !exists {
		return &OperationError{
			Method: http.MethodPost,
			Path:   authorizablesPath,
			Status: http.StatusCreated,
			Body:   fmt.Sprintf("group %q not found on follow-up read after creation", id),
		}
	}
	return nil
}

// SetGroupName updates the profile name of the group.
func (c *Client) SetGroupName(ctx context.Context, id, name string) error {
	form := url.Values{}
	form.Set("profile/givenName", name)
	return c.postForm(ctx, groupPath(id, ".rw.html"), form, http.StatusOK)
}

// SetGroupMembership replaces the full membership list of the group.
func (c *Client) SetGroupMembership(ctx context.Context, id string, memberOf []string) error {
	form := url.Values{}
	for _, g := range memberOf {
		form.Add("membership", g)
	}
	return c.postForm(ctx, groupPath(id, ".rw.html"), form, http.StatusOK)
}

// DeleteGroup removes the group.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	form := url.Values{}
	form.Set("deleteAuthorizable", "")
	return c.postForm(ctx, groupPath(id, ".rw.html"), form, http.StatusOK)
}

// postForm issues a form-encoded POST and fails unless the response has the
// expected status.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, wantStatus int) error {
	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		return &OperationError{
			Method: http.MethodPost,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	req.SetBasicAuth(c.user, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}

	slog.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "invocation", c.invocationID)
	return resp, nil
}

func groupPath(id, ext string) string {
	return fmt.Sprintf("/home/groups/%s/%s%s", id[:1], id, ext)
}
