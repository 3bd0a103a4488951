// Package client talks to the organizations API. List endpoints are walked page by page
// with FetchAll; single-resource calls map HTTP failures to *HTTPError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/internal/model"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

// ErrNotFound is matched by errors.Is for any 404 answer.
var ErrNotFound = errors.New("not found")

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Temporary reports whether retrying the same request may succeed.
func (e *HTTPError) Temporary() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return false
	}
	return true
}

// Client is safe for concurrent use, though every operation issues its requests sequentially.
type Client struct {
	base    *url.URL
	http    *http.Client
	logger  zerolog.Logger
	retry   RetryPolicy
	perPage int
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for retries and request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l.With().Str("module", "client").Logger() }
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithPerPage sets the page size used when an operation is called with perPage <= 0.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New builds a client for the API rooted at baseURL, e.g. "http://127.0.0.1:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  zerolog.Nop(),
		retry:   DefaultRetryPolicy(),
		perPage: pagination.ClientDefaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.base.JoinPath(escaped...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx JSON answer into out (when out is not nil).
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPError{Method: method, URL: target, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, target, err)
	}
	return nil
}

// getRetry performs an idempotent GET under the client's retry policy.
func (c *Client) getRetry(ctx context.Context, target string, out any) error {
	_, err := retry(ctx, c.retry, c.logger.With().Str("url", target).Logger(), func() error {
		return c.do(ctx, http.MethodGet, target, nil, out)
	})
	return err
}

func (c *Client) pageSize(perPage int) int {
	if perPage > 0 {
		return perPage
	}
	return c.perPage
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

// OrgPages returns a PageFunc over GET /orgs.
func (c *Client) OrgPages() PageFunc[model.OrgSummary] {
	return func(ctx context.Context, page, perPage int) (pagination.Page[model.OrgSummary], error) {
		var res pagination.Page[model.OrgSummary]
		err := c.do(ctx, http.MethodGet, c.endpoint(pageQuery(page, perPage), "orgs"), nil, &res)
		return res, err
	}
}

// UserPages returns a PageFunc over GET /orgs/{orgID}/users.
func (c *Client) UserPages(orgID string) PageFunc[model.User] {
	return func(ctx context.Context, page, perPage int) (pagination.Page[model.User], error) {
		var res pagination.Page[model.User]
		err := c.do(ctx, http.MethodGet, c.endpoint(pageQuery(page, perPage), "orgs", orgID, "users"), nil, &res)
		return res, err
	}
}

// FetchOrgs returns every organization in server order.
func (c *Client) FetchOrgs(ctx context.Context, perPage int) ([]model.OrgSummary, error) {
	return FetchAll(ctx, c.OrgPages(), c.pageSize(perPage), c.retry, c.logger.With().Str("collection", "orgs").Logger())
}

// FetchUsers returns the users of every org in orgs, one org at a time. Each user carries its
// org's name in OrgName and the result is ordered by last name; ties keep fetch order.
func (c *Client) FetchUsers(ctx context.Context, orgs []model.OrgSummary, perPage int) ([]model.User, error) {
	all := make([]model.User, 0)
	for _, org := range orgs {
		users, err := FetchAll(ctx, c.UserPages(org.ID), c.pageSize(perPage), c.retry,
			c.logger.With().Str("collection", "users").Str("org_id", org.ID).Logger())
		if err != nil {
			return nil, fmt.Errorf("users of org %s: %w", org.ID, err)
		}
		for i := range users {
			users[i].OrgName = org.Name
			if users[i].Org == "" {
				users[i].Org = org.ID
			}
		}
		all = append(all, users...)
	}
	SortUsers(all)
	return all, nil
}

// SortUsers orders users ascending by last name, comparing bytes. The sort is stable.
func SortUsers(users []model.User) {
	sort.SliceStable(users, func(i, j int) bool { return users[i].LastName < users[j].LastName })
}

// GetOrg fetches a single organization summary.
func (c *Client) GetOrg(ctx context.Context, orgID string) (model.OrgSummary, error) {
	var res struct {
		Data model.OrgSummary `json:"data"`
	}
	if err := c.getRetry(ctx, c.endpoint(nil, "orgs", orgID), &res); err != nil {
		return model.OrgSummary{}, err
	}
	return res.Data, nil
}

// FetchLabels returns the labels of an organization.
func (c *Client) FetchLabels(ctx context.Context, orgID string) ([]string, error) {
	var res struct {
		Data []string `json:"data"`
	}
	if err := c.getRetry(ctx, c.endpoint(nil, "orgs", orgID, "labels"), &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		res.Data = []string{}
	}
	return res.Data, nil
}

// CreateLabel appends a label to an organization and returns the updated organization.
func (c *Client) CreateLabel(ctx context.Context, orgID, label string) (model.Org, error) {
	var res struct {
		Meta struct {
			Saved model.Org `json:"saved"`
		} `json:"meta"`
	}
	err := c.do(ctx, http.MethodPost, c.endpoint(nil, "orgs", orgID, "labels"), map[string]string{"label": label}, &res)
	if err != nil {
		return model.Org{}, err
	}
	return res.Meta.Saved, nil
}

// SaveUser sends user as a partial update; only the fields named in mask are applied by the server.
// user.Org and user.ID locate the record.
func (c *Client) SaveUser(ctx context.Context, user model.User, mask []string) (model.User, error) {
	if user.Org == "" || user.ID == "" {
		return model.User{}, errors.New("save user: org and id are required")
	}
	q := url.Values{}
	if len(mask) > 0 {
		q.Set("mask", strings.Join(mask, ","))
	}
	var res struct {
		Meta struct {
			Saved model.User `json:"saved"`
		} `json:"meta"`
	}
	if err := c.do(ctx, http.MethodPatch, c.endpoint(q, "orgs", user.Org, "users", user.ID), user, &res); err != nil {
		return model.User{}, err
	}
	return res.Meta.Saved, nil
}

// RemoveUser deletes user from its organization.
func (c *Client) RemoveUser(ctx context.Context, user model.User) error {
	if user.Org == "" || user.ID == "" {
		return errors.New("remove user: org and id are required")
	}
	return c.do(ctx, http.MethodDelete, c.endpoint(nil, "orgs", user.Org, "users", user.ID), nil, nil)
}
