package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshMargin keeps a credential from being handed out when it could
// expire mid-flight at the upstream.
const refreshMargin = 15 * time.Second

const tokenTimeout = 12 * time.Second

// credential is replaced wholesale on refresh, never patched in place.
type credential struct {
	token     string
	issuedAt  time.Time
	expiresAt time.Time
}

// TokenProvider acquires and caches the ERP bearer credential via the OAuth2
// client-credentials grant. Refreshes are single-flighted: when several
// requests observe an expired credential at once, exactly one exchange runs
// and the rest wait for its result.
type TokenProvider struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	httpClient   *http.Client

	mu   sync.RWMutex
	cred *credential
	sf   singleflight.Group

	now func() time.Time
}

// NewTokenProvider creates a provider for the given token endpoint.
func NewTokenProvider(tokenURL, clientID, clientSecret, scope string) *TokenProvider {
	return &TokenProvider{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		httpClient:   &http.Client{Timeout: tokenTimeout},
		now:          time.Now,
	}
}

// Token returns a credential valid for at least refreshMargin. A cached
// credential is reused without any network call; otherwise one exchange is
// performed. A failed exchange returns an error wrapping ErrTokenAcquisition
// and leaves the previous credential untouched, so a still-valid token
// remains usable by concurrent callers.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if token, ok := p.cached(); ok {
		return token, nil
	}

	v, err, _ := p.sf.Do("refresh", func() (any, error) {
		// A flight that just finished may have refreshed already.
		if token, ok := p.cached(); ok {
			return token, nil
		}
		return p.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *TokenProvider) cached() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cred != nil && p.now().Before(p.cred.expiresAt.Add(-refreshMargin)) {
		return p.cred.token, true
	}
	return "", false
}

func (p *TokenProvider) refresh(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"scope":         {p.scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenAcquisition, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenAcquisition, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: token endpoint returned %d: %s", ErrTokenAcquisition, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %v", ErrTokenAcquisition, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", ErrTokenAcquisition)
	}
	if payload.ExpiresIn <= 0 {
		payload.ExpiresIn = 300
	}

	now := p.now()
	p.mu.Lock()
	p.cred = &credential{
		token:     payload.AccessToken,
		issuedAt:  now,
		expiresAt: now.Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	p.mu.Unlock()

	log.Printf("🔑 [ERP] Acquired upstream credential (expires in %ds)", payload.ExpiresIn)
	return payload.AccessToken, nil
}
