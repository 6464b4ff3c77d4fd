package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"resto-pos-api/config"
)

// defaultSuggestions is served whenever the inference endpoint is
// unreachable, misconfigured, or returns garbage. Recommendations are a
// nice-to-have; they must never fail a request.
var defaultSuggestions = []string{
	"Chef's special of the day",
	"House burger with fries",
	"Seasonal salad",
	"Soup of the day",
	"Fresh lemonade",
}

// Client calls a hosted text-inference endpoint for menu suggestions.
type Client struct {
	cfg  config.InferenceConfig
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg config.InferenceConfig, log *slog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type inferenceResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest asks the model for menu recommendations given recent top sellers.
// Any failure falls back to the default list.
func (c *Client) Suggest(ctx context.Context, topSellers []string) []string {
	if c.cfg.URL == "" {
		return defaultSuggestions
	}

	prompt := fmt.Sprintf("Suggest 5 menu items to promote, given recent top sellers: %v", topSellers)
	body, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return defaultSuggestions
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return defaultSuggestions
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("inference call failed, using defaults", "error", err)
		return defaultSuggestions
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("inference call rejected, using defaults", "status", resp.StatusCode)
		return defaultSuggestions
	}

	var out inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || len(out.Suggestions) == 0 {
		c.log.Warn("inference response unusable, using defaults", "error", err)
		return defaultSuggestions
	}
	return out.Suggestions
}
