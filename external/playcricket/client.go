package playcricket

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/logging"
	"github.com/oakhurst-cc/playcricket-stats/internal/platform/resilience"
	"github.com/oakhurst-cc/playcricket-stats/internal/usecase"
)

const defaultBaseURL = "https://play-cricket.com/api/v2"

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errPlayCricketTransient = crerr.New("play-cricket transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	SiteID         string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	siteID         string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		siteID:         strings.TrimSpace(cfg.SiteID),
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchMatchSummaries lists every fixture registered for the club site in the
// given season, regardless of status.
func (c *Client) FetchMatchSummaries(ctx context.Context, season int) ([]usecase.ExternalMatchSummary, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	raw, err := c.doRaw(ctx, "/matches.json", map[string]string{
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch matches season=%d: %w", season, err)
	}
	return parseMatchSummaries(raw)
}

func (c *Client) FetchResultSummaries(ctx context.Context, season int) ([]usecase.ExternalResultSummary, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}

	raw, err := c.doRaw(ctx, "/result_summary.json", map[string]string{
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch result summaries season=%d: %w", season, err)
	}
	return parseResultSummaries(raw)
}

// FetchMatchDetail returns the full scorecard for one match. The raw payload
// is returned alongside the parsed detail so callers can cache the exact bytes
// the provider served.
func (c *Client) FetchMatchDetail(ctx context.Context, matchID string) (usecase.ExternalMatchDetail, []byte, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalMatchDetail{}, nil, fmt.Errorf("match id must not be empty")
	}

	raw, err := c.doRaw(ctx, "/match_detail.json", map[string]string{
		"match_id": matchID,
	})
	if err != nil {
		return usecase.ExternalMatchDetail{}, nil, fmt.Errorf("fetch match detail match_id=%s: %w", matchID, err)
	}

	detail, err := parseMatchDetail(raw, matchID)
	if err != nil {
		return usecase.ExternalMatchDetail{}, nil, err
	}
	return detail, raw, nil
}

func (c *Client) FetchLeagueTable(ctx context.Context, divisionID string) (usecase.ExternalLeagueTable, error) {
	divisionID = strings.TrimSpace(divisionID)
	if divisionID == "" {
		return usecase.ExternalLeagueTable{}, fmt.Errorf("division id must not be empty")
	}

	raw, err := c.doRaw(ctx, "/league_table.json", map[string]string{
		"division_id": divisionID,
	})
	if err != nil {
		return usecase.ExternalLeagueTable{}, fmt.Errorf("fetch league table division_id=%s: %w", divisionID, err)
	}
	return parseLeagueTable(raw, divisionID)
}

func (c *Client) doRaw(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "play-cricket circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: play-cricket is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("site_id", c.siteID)
	values.Set("api_token", c.token)

	fullURL := c.baseURL + path + "?" + values.Encode()

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isPlayCricketCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errPlayCricketTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errPlayCricketTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errPlayCricketTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "play-cricket request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isPlayCricketCircuitFailure(err error) bool {
	return stderrors.Is(err, errPlayCricketTransient)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiTokenParamRegex.ReplaceAllString(fullURL, "api_token=REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	value := strings.TrimSpace(string(raw))
	if len(value) > limit {
		value = value[:limit] + "..."
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
