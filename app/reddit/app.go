package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shredsafe/shredsafe/app/cfg"
)

const (
	defaultAuthBase = "https://www.reddit.com"
	defaultAPIBase  = "https://oauth.reddit.com"
	requestedScopes = "identity edit history read"
	requestedGrant  = "permanent"
	requestTimeout  = 30 * time.Second
)

var _ AppInterface = (*App)(nil)

// App holds the OAuth application credentials and builds per-token user
// clients.
type App struct {
	clientID     string
	clientSecret string
	redirectURI  string
	userAgent    string
	authBase     string
	apiBase      string
	httpClient   *http.Client
}

func NewApp() *App {
	c := cfg.Get()

	return &App{
		clientID:     c.RedditClientID,
		clientSecret: c.RedditClientSecret,
		redirectURI:  c.RedditRedirectURI,
		userAgent:    c.UserAgent,
		authBase:     defaultAuthBase,
		apiBase:      defaultAPIBase,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
}

// NewAppWithBase builds an App against alternate endpoints. Used by tests
// to point the client at an httptest server.
func NewAppWithBase(clientID, clientSecret, redirectURI, userAgent, authBase, apiBase string) *App {
	return &App{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		userAgent:    userAgent,
		authBase:     authBase,
		apiBase:      apiBase,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
}

// AuthURL returns the Reddit authorize URL for the given state nonce.
func (a *App) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", a.clientID)
	q.Set("response_type", "code")
	q.Set("state", state)
	q.Set("redirect_uri", a.redirectURI)
	q.Set("duration", requestedGrant)
	q.Set("scope", requestedScopes)

	return a.authBase + "/api/v1/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for a permanent refresh token.
func (a *App) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", a.redirectURI)

	token, err := a.requestToken(ctx, form)
	if err != nil {
		return "", err
	}
	if token.RefreshToken == "" {
		return "", fmt.Errorf("reddit: no refresh token in exchange response")
	}

	return token.RefreshToken, nil
}

// NewUserClient constructs a client bound to a single refresh token.
func (a *App) NewUserClient(refreshToken string) ClientInterface {
	return &Client{app: a, refreshToken: refreshToken}
}

// refreshAccessToken obtains a short-lived access token from a refresh token.
func (a *App) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	token, err := a.requestToken(ctx, form)
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", &APIError{StatusCode: http.StatusBadRequest, Body: "empty access token"}
	}

	return token.AccessToken, nil
}

func (a *App) requestToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST",
		a.authBase+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := decodeResponse(resp, &token); err != nil {
		return nil, err
	}

	// Reddit reports grant failures as 200 with an error field.
	if token.Error != "" {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Body: token.Error}
	}

	return &token, nil
}
