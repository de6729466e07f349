// Package gateway adapts the external credit-scoring collaborator. It owns
// the call contract, the failure taxonomy, the rate-limit policy and the
// response cache; the engine core never sees raw HTTP or untyped JSON.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/worker"
)

// Result is the normalized scoring response: the canonical 0-100 score, the
// classification band and the collaborator's explanation text
type Result struct {
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
	Explanation    string  `json:"explanation"`
}

// Scorer is the scoring collaborator contract the engine depends on
type Scorer interface {
	Score(ctx context.Context, profile model.Profile) (*Result, error)
}

// FreshScorer is the optional cache-bypassing contract. The consistency
// dimension needs M genuinely independent calls for the same profile, which
// a response cache would collapse into one.
type FreshScorer interface {
	ScoreFresh(ctx context.Context, profile model.Profile) (*Result, error)
}

// Client is the HTTP scoring gateway adapter
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewClient creates a gateway client. The limiter is the injected
// rate-limit policy covering every scoring call; cache may be nil to
// disable response replay.
func NewClient(cfg model.GatewayConfig, limiter *worker.Limiter, c cache.Cache, cacheTTL time.Duration) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: newProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy),
			},
		},
		baseURL:  cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		limiter:  limiter,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// scoreRequestV1 is the versioned request schema sent to POST /score
type scoreRequestV1 struct {
	SchemaVersion string                 `json:"schema_version"`
	Attributes    map[string]interface{} `json:"attributes"`
}

// scoreResponseV1 is the strict response schema. A response missing the
// score, carrying a non-numeric score, or using a scale other than 0-100 is
// a parse_error; the engine never inspects raw untyped payloads.
type scoreResponseV1 struct {
	CreditScore    *float64 `json:"credit_score"`
	Classification string   `json:"classification"`
	Explanation    string   `json:"explanation"`
}

// Score maps one profile to a scoring result. Failures are returned as
// *CallError with the kind the engine must tolerate: timeout, http_error,
// connection_error or parse_error.
func (c *Client) Score(ctx context.Context, profile model.Profile) (*Result, error) {
	return c.score(ctx, profile, true)
}

// ScoreFresh always reaches the collaborator, skipping cache read and write
func (c *Client) ScoreFresh(ctx context.Context, profile model.Profile) (*Result, error) {
	return c.score(ctx, profile, false)
}

func (c *Client) score(ctx context.Context, profile model.Profile, useCache bool) (*Result, error) {
	payload, err := json.Marshal(buildRequest(profile))
	if err != nil {
		return nil, &CallError{Kind: ErrParse, Err: fmt.Errorf("encode request: %w", err)}
	}

	key := cache.Key(payload)
	if useCache && c.cache != nil {
		if data, found := c.cache.Get(key); found {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
			return nil, &CallError{Kind: ErrTimeout, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(payload))
	if err != nil {
		return nil, &CallError{Kind: ErrConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &CallError{
			Kind:       ErrHTTP,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var raw scoreResponseV1
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &CallError{Kind: ErrParse, Err: fmt.Errorf("decode response: %w", err)}
	}

	result, err := normalize(raw)
	if err != nil {
		return nil, &CallError{Kind: ErrParse, Err: err}
	}

	if useCache && c.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = c.cache.Set(key, data, c.cacheTTL)
		}
	}
	return result, nil
}

// buildRequest serializes a profile into the versioned request schema.
// Attribute iteration follows the profile's sorted name order so identical
// profiles produce identical payloads (and identical cache keys).
func buildRequest(profile model.Profile) scoreRequestV1 {
	attrs := make(map[string]interface{}, profile.Len())
	for _, name := range profile.Names() {
		v, _ := profile.Get(name)
		if v.Type == model.ValueNumeric {
			attrs[name] = v.Num
		} else {
			attrs[name] = v.Str
		}
	}
	return scoreRequestV1{SchemaVersion: "v1", Attributes: attrs}
}

// normalize validates the raw response against the contract: canonical
// 0-100 scale, known classification bands (approved >= 70, conditional
// >= 60, denied otherwise; derived from the score when absent)
func normalize(raw scoreResponseV1) (*Result, error) {
	if raw.CreditScore == nil {
		return nil, errors.New("response missing credit_score")
	}
	score := *raw.CreditScore
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("credit_score %.1f outside canonical 0-100 scale", score)
	}

	classification := raw.Classification
	switch classification {
	case "approved", "conditional", "denied":
	case "":
		classification = ClassifyScore(score)
	default:
		return nil, fmt.Errorf("unknown classification %q", raw.Classification)
	}

	return &Result{
		Score:          score,
		Classification: classification,
		Explanation:    raw.Explanation,
	}, nil
}

// ClassifyScore maps a canonical 0-100 score to its decision band
func ClassifyScore(score float64) string {
	switch {
	case score >= 70:
		return "approved"
	case score >= 60:
		return "conditional"
	default:
		return "denied"
	}
}

// classifyTransportError maps a transport failure to the call error taxonomy
func classifyTransportError(err error) *CallError {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &CallError{Kind: ErrTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &CallError{Kind: ErrTimeout, Err: err}
	}
	return &CallError{Kind: ErrConnection, Err: err}
}

// newProxyFunc builds the transport proxy function; with no explicit
// configuration it falls back to the environment
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
