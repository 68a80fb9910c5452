package mlflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrResourceNotFound is returned for RESOURCE_DOES_NOT_EXIST responses.
var ErrResourceNotFound = errors.New("mlflow: resource does not exist")

// APIError is a non-2xx answer from the tracking server.
type APIError struct {
	Status    int
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (e *APIError) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("mlflow api error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("mlflow api error: %s: %s", e.ErrorCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrResourceNotFound &&
		(e.ErrorCode == "RESOURCE_DOES_NOT_EXIST" || e.Status == http.StatusNotFound)
}

// Client talks to the MLflow REST API (/api/2.0/mlflow/...).
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(trackingURI string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(trackingURI, "/") + "/api/2.0/mlflow",
		client:  &http.Client{Timeout: timeout},
	}
}

// Get issues a GET with query parameters and decodes the JSON answer into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Post issues a POST with a JSON body and decodes the JSON answer into out
// (out may be nil).
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = resp.Status + " body=" + string(respBody)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("mlflow: decode %s: %w", req.URL.Path, err)
	}
	return nil
}
