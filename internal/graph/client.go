// Package graph is a thin client for the Meta Graph API, used to manage
// webhook subscriptions for pages the relay serves.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"metarelay/api/internal/config"
)

// Error is a non-2xx Graph API response.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("graph api: status %d: %s (type=%s, code=%d)", e.Status, e.Message, e.Type, e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.GraphConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Request describes one Graph API call. The access token rides as a query
// parameter, matching the Graph API convention.
type Request struct {
	Path   string
	Params url.Values
	Body   any
	Token  string
}

func (c *Client) Get(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodGet, req, out)
}

func (c *Client) Post(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodPost, req, out)
}

func (c *Client) Delete(ctx context.Context, req Request, out any) error {
	return c.do(ctx, http.MethodDelete, req, out)
}

func (c *Client) do(ctx context.Context, method string, req Request, out any) error {
	params := url.Values{}
	for key, vals := range req.Params {
		for _, val := range vals {
			params.Add(key, val)
		}
	}
	params.Set("access_token", req.Token)

	endpoint := c.baseURL + "/" + strings.TrimLeft(req.Path, "/") + "?" + params.Encode()

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("graph api %s %s: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var wrapper struct {
			Error Error `json:"error"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil || wrapper.Error.Message == "" {
			return &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		wrapper.Error.Status = resp.StatusCode
		return &wrapper.Error
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// SubscribedApps returns the app subscriptions active on a page.
func (c *Client) SubscribedApps(ctx context.Context, pageID, pageToken string) ([]Subscription, error) {
	var result struct {
		Data []Subscription `json:"data"`
	}
	err := c.Get(ctx, Request{
		Path:  pageID + "/subscribed_apps",
		Token: pageToken,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Subscribe enrolls the app for the given webhook fields on a page.
func (c *Client) Subscribe(ctx context.Context, pageID, pageToken string, fields []string) error {
	params := url.Values{}
	params.Set("subscribed_fields", strings.Join(fields, ","))
	return c.Post(ctx, Request{
		Path:   pageID + "/subscribed_apps",
		Params: params,
		Token:  pageToken,
	}, nil)
}

type Subscription struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	SubscribedFields []string `json:"subscribed_fields"`
}

// WithHTTPClient overrides the underlying transport; tests point it at a
// local server.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithBaseURL rebases the client; tests point it at httptest servers.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}
