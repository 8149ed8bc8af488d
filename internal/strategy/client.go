package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/snapshot"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client talks to the external rule-generation service. Requests carry the
// current desktop snapshot plus recent user corrections; responses are rule
// set documents. Calls are rate limited so repeated triggers cannot hammer
// the service.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// GenerateRequest is the payload sent to the rule service.
type GenerateRequest struct {
	Snapshot    *snapshot.DesktopSnapshot `json:"snapshot"`
	Corrections []domain.Correction      `json:"corrections,omitempty"`
}

// APIError reports a non-success response from the rule service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rule service returned %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a rule-service client. minInterval is the minimum spacing
// between requests; a non-positive value disables rate limiting.
func NewClient(url string, timeout, minInterval time.Duration, logger *zap.Logger) *Client {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Generate requests a fresh rule set for the given snapshot and corrections.
// It blocks until the rate limiter grants a slot or the context is cancelled.
// The returned rule set is decoded but not validated; callers load it through
// the engine, which validates.
func (c *Client) Generate(ctx context.Context, snap *snapshot.DesktopSnapshot, corrections []domain.Correction) (*domain.RuleSet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(&GenerateRequest{Snapshot: snap, Corrections: corrections})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rule service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 8KB is plenty for an error body.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var rs domain.RuleSet
	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}

	c.logger.Info("rule set generated",
		zap.String("version", rs.Version),
		zap.Int("rules", len(rs.Rules)),
		zap.Float64("confidence", rs.ConfidenceScore),
		zap.Duration("duration", time.Since(start)),
	)
	return &rs, nil
}

// SaveRuleSetFile writes a rule set document to path as indented JSON.
func SaveRuleSetFile(path string, rs *domain.RuleSet) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rule set: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadRuleSetFile reads a rule set document from path.
func LoadRuleSetFile(path string) (*domain.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rs domain.RuleSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	return &rs, nil
}
