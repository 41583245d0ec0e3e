package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/darmiel/tokenkeep/internal/api"
	"github.com/darmiel/tokenkeep/internal/buildinfo"
)

func (c *Client) Info(
	ctx context.Context,
) (*buildinfo.Info, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url().
		setPath(api.AboutRoute).
		build(), nil)
	if err != nil {
		return nil, "", err
	}
	var info buildinfo.Info
	correlation, err := c.doRaw(req, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&info)
	})
	return &info, correlation, err
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url().
		setPath(api.HealthCheckRoute).
		build(), nil)
	if err != nil {
		return nil, "", err
	}
	var res api.HealthResponse
	correlation, err := c.doRaw(req, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&res)
	})
	return &res, correlation, err
}
