package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const listingPageSize = 100

// Client is an authenticated Reddit API client for a single account. The
// access token is obtained lazily from the refresh token and held for the
// client's lifetime; clients are constructed per operation, not shared.
type Client struct {
	app          *App
	refreshToken string

	mu          sync.Mutex
	accessToken string
	username    string
}

// Me returns the account's username. Also serves as the lightweight
// credential-validation call: a revoked refresh token fails here with an
// auth error.
func (c *Client) Me(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.username != "" {
		name := c.username
		c.mu.Unlock()
		return name, nil
	}
	c.mu.Unlock()

	var me meResponse
	if err := c.get(ctx, "/api/v1/me", nil, &me); err != nil {
		return "", err
	}
	if me.Name == "" {
		return "", fmt.Errorf("reddit: empty username in identity response")
	}

	c.mu.Lock()
	c.username = me.Name
	c.mu.Unlock()

	return me.Name, nil
}

// ListComments returns every comment authored by the account, newest first.
// Pagination is handled internally via the after cursor.
func (c *Client) ListComments(ctx context.Context) ([]Item, error) {
	username, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	return c.listItems(ctx, "/user/"+url.PathEscape(username)+"/comments", KindComment)
}

// ListSubmissions returns every submission authored by the account, newest
// first.
func (c *Client) ListSubmissions(ctx context.Context) ([]Item, error) {
	username, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	return c.listItems(ctx, "/user/"+url.PathEscape(username)+"/submitted", KindSubmission)
}

// EditComment replaces the body of a comment.
func (c *Client) EditComment(ctx context.Context, fullname, body string) error {
	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", fullname)
	form.Set("text", body)

	return c.post(ctx, "/api/editusertext", form)
}

// Delete removes a comment or submission by fullname.
func (c *Client) Delete(ctx context.Context, fullname string) error {
	form := url.Values{}
	form.Set("id", fullname)

	return c.post(ctx, "/api/del", form)
}

func (c *Client) listItems(ctx context.Context, path string, kind ItemKind) ([]Item, error) {
	var items []Item
	after := ""

	for {
		q := url.Values{}
		q.Set("limit", fmt.Sprintf("%d", listingPageSize))
		q.Set("sort", "new")
		if after != "" {
			q.Set("after", after)
		}

		var page listingResponse
		if err := c.get(ctx, path, q, &page); err != nil {
			return nil, err
		}

		for _, child := range page.Data.Children {
			body := child.Data.Body
			if kind == KindSubmission {
				body = child.Data.Title
			}

			items = append(items, Item{
				Fullname: child.Data.Name,
				Body:     body,
				Score:    child.Data.Score,
				// created_utc is a naive epoch; normalize to UTC here so
				// every downstream time comparison is UTC against UTC.
				CreatedAt: time.Unix(int64(child.Data.CreatedUTC), 0).UTC(),
				Kind:      kind,
			})
		}

		if page.Data.After == "" || len(page.Data.Children) == 0 {
			break
		}
		after = page.Data.After
	}

	return items, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.app.apiBase + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.app.apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	token, err := c.accessTokenLocked(req.Context())
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.app.userAgent)

	resp, err := c.app.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reddit request failed: %w", err)
	}
	defer resp.Body.Close()

	if out == nil {
		if resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(resp.Body)
			return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		}
		return nil
	}

	return decodeResponse(resp, out)
}

func (c *Client) accessTokenLocked(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" {
		return c.accessToken, nil
	}

	token, err := c.app.refreshAccessToken(ctx, c.refreshToken)
	if err != nil {
		return "", err
	}

	c.accessToken = token
	return token, nil
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
