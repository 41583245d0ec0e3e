package client

import (
	"context"
	"strconv"

	"github.com/darmiel/tokenkeep/internal/api"
	"github.com/darmiel/tokenkeep/internal/core"
	"github.com/darmiel/tokenkeep/internal/service"
	"github.com/darmiel/tokenkeep/internal/view"
)

func (c *Client) ListTokens(ctx context.Context) ([]core.Token, string, error) {
	var res []core.Token
	correlation, err := c.get(ctx, c.url().
		setPath(api.TokensRoute).
		build(), &res)
	return res, correlation, err
}

func (c *Client) GetToken(ctx context.Context, id string) (*core.Token, string, error) {
	var res core.Token
	correlation, err := c.get(ctx, c.url().
		setPath(api.TokenRoute).
		setPathParam("id", id).
		build(), &res)
	if err != nil {
		return nil, correlation, err
	}
	return &res, correlation, nil
}

func (c *Client) CreateToken(ctx context.Context, req service.CreateRequest) (*core.Token, string, error) {
	var res core.Token
	correlation, err := c.post(ctx, c.url().
		setPath(api.TokensRoute).
		build(), req, &res)
	if err != nil {
		return nil, correlation, err
	}
	return &res, correlation, nil
}

// RenewToken asks the server to rotate the secret and push the expiry one year out.
func (c *Client) RenewToken(ctx context.Context, id string) (*core.Token, string, error) {
	var res core.Token
	correlation, err := c.post(ctx, c.url().
		setPath(api.RenewTokenRoute).
		setPathParam("id", id).
		build(), nil, &res)
	if err != nil {
		return nil, correlation, err
	}
	return &res, correlation, nil
}

// DeleteToken removes the token. Unknown ids return an error matching ErrNotFound.
func (c *Client) DeleteToken(ctx context.Context, id string) (string, error) {
	return c.delete(ctx, c.url().
		setPath(api.TokenRoute).
		setPathParam("id", id).
		build(), nil)
}

// SeedTokens creates count synthetic tokens. A nil count lets the server pick its default.
func (c *Client) SeedTokens(ctx context.Context, count *int) ([]core.Token, string, error) {
	var res []core.Token
	correlation, err := c.post(ctx, c.url().
		setPath(api.SeedTokensRoute).
		build(), api.SeedPayload{Count: count}, &res)
	return res, correlation, err
}

func (c *Client) Services(ctx context.Context) ([]string, string, error) {
	var res []string
	correlation, err := c.get(ctx, c.url().
		setPath(api.TokenServiceRoute).
		build(), &res)
	return res, correlation, err
}

// ViewOptions mirror the query parameters of the view route. Zero values use the server defaults.
type ViewOptions struct {
	Service     string
	ExpiredOnly bool
	Sort        view.SortField
	Direction   view.SortDirection
	Page        int
	PageSize    int
	Where       string
}

// View returns one page of tokens, filtered and sorted by the server.
func (c *Client) View(ctx context.Context, opts ViewOptions) (*view.Result, string, error) {
	b := c.url().
		setPath(api.ViewTokensRoute).
		addQueryParam("service", opts.Service).
		addQueryParam("sort", string(opts.Sort)).
		addQueryParam("dir", string(opts.Direction)).
		addQueryParam("where", opts.Where)
	if opts.ExpiredOnly {
		b.addQueryParam("expired", "true")
	}
	if opts.Page > 0 {
		b.addQueryParam("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		b.addQueryParam("size", strconv.Itoa(opts.PageSize))
	}

	var res view.Result
	correlation, err := c.get(ctx, b.build(), &res)
	if err != nil {
		return nil, correlation, err
	}
	return &res, correlation, nil
}
