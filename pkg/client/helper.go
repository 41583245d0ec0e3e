package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/darmiel/tokenkeep/internal/api/middleware"
	"github.com/darmiel/tokenkeep/internal/api/presenter"
	"github.com/darmiel/tokenkeep/internal/buildinfo"
)

// ErrNotFound matches APIErrors with status 404.
var ErrNotFound = errors.New("not found")

type APIError struct {
	StatusCode    int
	CorrelationID string
	Message       string
	Detail        string
}

func (e APIError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("api error: '%s' (status: %d, correlation: %s)", msg, e.StatusCode, e.CorrelationID)
}

func (e APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, url string, result any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, url string, payload, result any) (string, error) {
	var body io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("marshaling payload: %w", err)
		}
		body = bytes.NewBuffer(bodyBytes)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, result)
}

func (c *Client) delete(ctx context.Context, url string, result any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// unwrap decodes the success envelope into env and its data into result.
func unwrap(env *envelope, result any) func(body io.Reader) error {
	return func(body io.Reader) error {
		if err := json.NewDecoder(body).Decode(env); err != nil {
			return err
		}
		if result == nil || len(env.Data) == 0 {
			return nil
		}
		return json.Unmarshal(env.Data, result)
	}
}

func parseErrorResponse(resp *http.Response) error {
	var errResp presenter.ErrorResponse
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d and unreadable body: %w", resp.StatusCode, err)
	}
	if json.Unmarshal(body, &errResp) == nil && (errResp.Message != "" || errResp.Error != "") {
		return APIError{
			StatusCode:    resp.StatusCode,
			CorrelationID: correlationFromResponse(resp),
			Message:       errResp.Message,
			Detail:        errResp.Error,
		}
	}
	return APIError{
		StatusCode:    resp.StatusCode,
		CorrelationID: correlationFromResponse(resp),
		Message:       fmt.Sprintf("*unparsed '%s'", string(body)),
	}
}

// do sends req and decodes the success envelope's data into result.
func (c *Client) do(req *http.Request, result any) (string, error) {
	var env envelope
	return c.doRaw(req, unwrap(&env, result))
}

// doRaw sends req and hands the body of a successful response to decode.
func (c *Client) doRaw(req *http.Request, decode func(io.Reader) error) (string, error) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return correlationFromResponse(resp), parseErrorResponse(resp)
	}

	if decode != nil {
		if err := decode(resp.Body); err != nil {
			return correlationFromResponse(resp), fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return correlationFromResponse(resp), nil
}

func userAgent() string {
	return fmt.Sprintf("tokenkeep-client/%s (%s)", buildinfo.Version, buildinfo.Repository)
}

func correlationFromResponse(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	return resp.Header.Get(middleware.CorrelationIDHeader)
}
