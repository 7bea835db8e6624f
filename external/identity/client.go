// Package identity talks to the account provider that owns sign-in,
// usernames and profile avatars. The service trusts it for token
// verification and queries it when decorating leaderboard entries.
package identity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/aquapolo/waterpolo-fantasy/internal/domain/user"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/logging"
	"github.com/aquapolo/waterpolo-fantasy/internal/platform/resilience"
	"github.com/aquapolo/waterpolo-fantasy/internal/usecase"
)

const defaultTimeout = 10 * time.Second

var errIdentityTransient = crerr.New("identity transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
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
		httpClient.Timeout = defaultTimeout
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
}

type lookupUserResponse struct {
	UserID string `json:"userId"`
}

type avatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

// VerifyAccessToken exchanges a bearer token for the signed-in principal.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: access token is required", usecase.ErrUnauthorized)
	}

	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)
	encoded, err := sonic.Marshal(verifyTokenRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("encode verify token request: %w", err)
	}
	_, _ = body.Write(encoded)

	var payload verifyTokenResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/v1/tokens/verify", nil, body.Bytes(), &payload)
	if err != nil {
		return user.Principal{}, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || !payload.Active {
		return user.Principal{}, fmt.Errorf("%w: token rejected by identity provider", usecase.ErrUnauthorized)
	}

	principal := user.Principal{
		UserID:   strings.TrimSpace(payload.UserID),
		Username: strings.TrimSpace(payload.Username),
		Email:    strings.TrimSpace(payload.Email),
	}
	if principal.UserID == "" {
		return user.Principal{}, fmt.Errorf("%w: identity provider returned no user id", usecase.ErrUnauthorized)
	}

	return principal, nil
}

// LookupUserID resolves a public username to the provider's user id.
func (c *Client) LookupUserID(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", usecase.ErrInvalidInput)
	}

	var payload lookupUserResponse
	status, err := c.doJSON(ctx, http.MethodGet, "/v1/users/lookup", url.Values{"username": {username}}, nil, &payload)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound || strings.TrimSpace(payload.UserID) == "" {
		return "", fmt.Errorf("%w: username=%s", usecase.ErrNotFound, username)
	}

	return strings.TrimSpace(payload.UserID), nil
}

// AvatarURL returns the profile picture URL for a provider user id.
func (c *Client) AvatarURL(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", usecase.ErrInvalidInput)
	}

	var payload avatarResponse
	status, err := c.doJSON(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(userID)+"/avatar", nil, nil, &payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusNotFound && strings.TrimSpace(payload.AvatarURL) != "" {
		return strings.TrimSpace(payload.AvatarURL), nil
	}

	// Older accounts only expose the picture on the profile route.
	payload = avatarResponse{}
	status, err = c.doJSON(ctx, http.MethodGet, "/v1/profiles/"+url.PathEscape(userID), nil, nil, &payload)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: user=%s", usecase.ErrNotFound, userID)
	}

	return strings.TrimSpace(payload.AvatarURL), nil
}

// ResolveAvatar chains the username lookup and the avatar fetch. Any failure
// along the chain degrades to an empty URL so callers can render without a
// picture.
func (c *Client) ResolveAvatar(ctx context.Context, username string) (string, error) {
	avatar, err, _ := c.flight.Do("avatar:"+strings.ToLower(strings.TrimSpace(username)), func() (any, error) {
		userID, err := c.LookupUserID(ctx, username)
		if err != nil {
			return "", err
		}
		return c.AvatarURL(ctx, userID)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "avatar resolution failed",
			"username", username,
			"error", err,
		)
		return "", nil
	}

	url, ok := avatar.(string)
	if !ok {
		return "", nil
	}

	return url, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body []byte, target any) (int, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "identity circuit breaker rejected request", "state", c.breaker.State())
			return 0, fmt.Errorf("%w: identity provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	status, raw, err := c.executeRequest(ctx, method, fullURL, body)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errIdentityTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return 0, err
	}

	if len(raw) > 0 && target != nil && status != http.StatusNotFound {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return 0, fmt.Errorf("decode identity payload: %w", err)
		}
	}

	return status, nil
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL string, body []byte) (int, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if len(body) > 0 {
			reader = strings.NewReader(string(body))
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return 0, nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if len(body) > 0 {
			req.Header.Set("content-type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errIdentityTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errIdentityTransient, readErr)
			case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%w: provider status=%d", errIdentityTransient, resp.StatusCode)
			default:
				return resp.StatusCode, raw, nil
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("identity request failed")
	}
	c.logger.WarnContext(ctx, "identity request failed", "url", fullURL, "error", lastErr)
	return 0, nil, lastErr
}
