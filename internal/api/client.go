// Package api is the HTTP client for the foogie web service: image analysis,
// recipe generation, fridge inventory and calorie sync.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foogie-app/foogie/internal/model"
)

const (
	defaultTimeout = 60 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	maxRecipesSize = 8 << 20
	userAgent      = "foogie-cli/1.0"
)

var (
	// ErrNoInventory indicates the fridge is empty or missing, so no recipes
	// can be generated.
	ErrNoInventory = errors.New("api: no inventory to cook from")
	// ErrNoImage indicates AnalyzeInput carried neither an image nor a URL.
	ErrNoImage = errors.New("api: provide an image file or URL")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Code)
}

// Options tune a Client.
type Options struct {
	// SyncURL overrides the calorie-sync endpoint (default BaseURL +
	// /api/calorie-tracker).
	SyncURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to one foogie web service.
type Client struct {
	baseURL string
	syncURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts Options) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	c := &Client{
		baseURL: baseURL,
		syncURL: opts.SyncURL,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
	}
	if c.syncURL == "" {
		c.syncURL = baseURL + "/api/calorie-tracker"
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// GenerateRecipes asks the service for recipe suggestions. An empty fridge is
// reported as ErrNoInventory; an empty list returns no recipes and no error.
func (c *Client) GenerateRecipes(ctx context.Context, req RecipeRequest) ([]model.Recipe, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	respBody, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/generate-recipes", "application/json", bytes.NewReader(body), nil, maxRecipesSize)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && isEmptyInventory(se.Message) {
			return nil, ErrNoInventory
		}
		return nil, err
	}

	var out recipesResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("api: parsing recipes: %w", err)
	}
	return out.Recipes, nil
}

func isEmptyInventory(msg string) bool {
	return strings.Contains(msg, "No inventory") || strings.Contains(msg, "empty")
}

// Consume removes the given quantities from the fridge in binID. A non-empty
// idempotencyKey is sent so a retried request can be recognized.
func (c *Client) Consume(ctx context.Context, binID string, consumed map[string]float64, idempotencyKey string) (*ConsumeResult, error) {
	if binID == "" {
		return nil, errors.New("api: no bin ID configured")
	}
	body, err := json.Marshal(consumeRequest{Consumed: consumed})
	if err != nil {
		return nil, err
	}

	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{"Idempotency-Key": []string{idempotencyKey}}
	}

	respBody, err := c.do(ctx, http.MethodPost, c.baseURL+"/api/consume/"+url.PathEscape(binID), "application/json", bytes.NewReader(body), headers, maxBodySize)
	if err != nil {
		return nil, fmt.Errorf("failed to update fridge: %w", err)
	}

	var out ConsumeResult
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("api: parsing consume response: %w", err)
	}
	return &out, nil
}

// Fridge returns the inventory stored in binID.
func (c *Client) Fridge(ctx context.Context, binID string) (*Inventory, error) {
	if binID == "" {
		return nil, errors.New("api: no bin ID configured")
	}
	respBody, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/fridge/"+url.PathEscape(binID), "", nil, nil, maxRecipesSize)
	if err != nil {
		return nil, err
	}
	var inv Inventory
	if err := json.Unmarshal(respBody, &inv); err != nil {
		return nil, fmt.Errorf("api: parsing inventory: %w", err)
	}
	return &inv, nil
}

// SyncCalories notifies the tracking endpoint about a logged meal. The
// response body is ignored.
func (c *Client) SyncCalories(ctx context.Context, calories float64, recipeName string) error {
	body, err := json.Marshal(syncRequest{Calories: calories, RecipeName: recipeName})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, c.syncURL, "application/json", bytes.NewReader(body), nil, maxBodySize)
	return err
}

// Analyze uploads an image (or image URL) for calorie and freshness analysis
// and returns the service's free-text response.
func (c *Client) Analyze(ctx context.Context, in AnalyzeInput) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	switch {
	case len(in.Image) > 0:
		name := in.Filename
		if name == "" {
			name = "upload.jpg"
		}
		fw, err := mw.CreateFormFile("image_file", name)
		if err != nil {
			return "", err
		}
		if _, err := fw.Write(in.Image); err != nil {
			return "", err
		}
	case in.URL != "":
		if err := mw.WriteField("image_url", in.URL); err != nil {
			return "", err
		}
	default:
		return "", ErrNoImage
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	respBody, err := c.do(ctx, http.MethodPost, c.baseURL+"/analyze", mw.FormDataContentType(), &buf, nil, maxBodySize)
	if err != nil {
		return "", err
	}

	var out analyzeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("api: parsing analysis: %w", err)
	}
	if out.Response == "" {
		msg := out.Error
		if msg == "" {
			msg = "something went wrong"
		}
		return "", fmt.Errorf("api: analysis failed: %s", msg)
	}
	return out.Response, nil
}

// do performs one request bounded by the client timeout and returns the body
// of a 2xx response.
func (c *Client) do(ctx context.Context, method, target, contentType string, body io.Reader, headers http.Header, limit int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return nil, &StatusError{Code: resp.StatusCode, Message: eb.Error}
	}
	return respBody, nil
}
