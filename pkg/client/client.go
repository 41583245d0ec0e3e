// Package client is a typed Go client for the tokenkeep HTTP API.
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 15 * time.Second

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	authToken  string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAuthToken sends the token as bearer authorization on every request.
// The server does not require it, but proxies in front of it might.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url '%s': %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url '%s' must use http or https", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server url the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type urlBuilder struct {
	u     url.URL
	path  string
	query url.Values
}

func (c *Client) url() *urlBuilder {
	return &urlBuilder{
		u:     *c.baseURL,
		query: url.Values{},
	}
}

// setPath sets a route, possibly containing {name} placeholders.
func (b *urlBuilder) setPath(path string) *urlBuilder {
	b.path = path
	return b
}

func (b *urlBuilder) setPathParam(name, value string) *urlBuilder {
	b.path = strings.ReplaceAll(b.path, "{"+name+"}", url.PathEscape(value))
	return b
}

// addQueryParam adds the parameter unless value is empty.
func (b *urlBuilder) addQueryParam(name, value string) *urlBuilder {
	if value != "" {
		b.query.Add(name, value)
	}
	return b
}

func (b *urlBuilder) build() string {
	u := b.u
	rawPath := strings.TrimRight(u.EscapedPath(), "/") + b.path
	if p, err := url.PathUnescape(rawPath); err == nil {
		u.Path = p
	}
	u.RawPath = rawPath
	u.RawQuery = b.query.Encode()
	return u.String()
}
