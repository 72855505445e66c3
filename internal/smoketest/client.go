package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET request and returns status and body.
func (c *HTTPClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

// post performs a POST request with a JSON body.
func (c *HTTPClient) post(ctx context.Context, path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// fetchCatalog reads the category values the service accepts.
func fetchCatalog(ctx context.Context, c *HTTPClient) (Catalog, error) {
	status, body, err := c.get(ctx, "/api/catalog")
	if err != nil {
		return Catalog{}, fmt.Errorf("fetch catalog: %w", err)
	}
	if status != http.StatusOK {
		return Catalog{}, fmt.Errorf("fetch catalog: status %d", status)
	}
	var cat Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if len(cat.Education) == 0 || len(cat.Field) == 0 || len(cat.Gender) == 0 || len(cat.Experience) == 0 {
		return Catalog{}, fmt.Errorf("catalog has an empty category list")
	}
	return cat, nil
}

// parsePrediction fills r from a /api/predict response body.
func parsePrediction(r *Result, status int, body []byte) {
	r.Status = status
	if status != http.StatusOK {
		r.Err = gjson.GetBytes(body, "message").String()
		if r.Err == "" {
			r.Err = http.StatusText(status)
		}
		return
	}
	doc := gjson.ParseBytes(body)
	r.Value = doc.Get("value").Float()
	r.Formatted = doc.Get("formatted").String()
	for _, c := range doc.Get("features.#.name").Array() {
		r.Columns = append(r.Columns, c.String())
	}
	for _, d := range doc.Get("dropped_columns").Array() {
		r.Dropped = append(r.Dropped, d.String())
	}
}
