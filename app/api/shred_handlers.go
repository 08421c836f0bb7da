package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shredsafe/shredsafe/app/cache"
	"github.com/shredsafe/shredsafe/app/cfg"
	"github.com/shredsafe/shredsafe/app/reddit"
	"github.com/shredsafe/shredsafe/app/shredder"
)

const stateTTL = 10 * time.Minute

// GetAuthURL returns the Reddit authorize URL with a fresh state nonce.
func (h *Handler) GetAuthURL(c *gin.Context) {
	state := uuid.NewString()

	if err := h.cache.SetString(c.Request.Context(), cache.StateKey(state), "1", stateTTL); err != nil {
		slog.Error("Failed to store OAuth state", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": h.app.AuthURL(state)})
}

// AuthCallback completes the OAuth flow. For registered users the new
// credential is persisted as an account; for unregistered visitors it is
// held transiently in the cache behind a session cookie.
func (h *Handler) AuthCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization denied: " + errParam})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	state := c.Query("state")
	ctx := c.Request.Context()
	if _, ok, err := h.cache.GetString(ctx, cache.StateKey(state)); err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired state"})
		return
	}
	if err := h.cache.Delete(ctx, cache.StateKey(state)); err != nil {
		slog.Warn("Failed to delete OAuth state", "error", err)
	}

	refreshToken, err := h.app.ExchangeCode(ctx, code)
	if err != nil {
		slog.Error("Code exchange failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to exchange authorization code"})
		return
	}

	username, err := h.app.NewUserClient(refreshToken).Me(ctx)
	if err != nil {
		slog.Error("Identity lookup failed after authorization", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to verify authorized account"})
		return
	}

	if userID, ok := currentUser(c); ok {
		account, err := h.accountRepo.UpsertAccount(userID, username, refreshToken)
		if err != nil {
			slog.Error("Database error", "operation", "upsert_account", "user", userID, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}

		h.invalidateListing(c, userID)

		c.JSON(http.StatusOK, accountResponse{
			ID:             account.ID,
			RedditUsername: account.RedditUsername,
			Schedule:       account.Schedule,
			AuthorizedAt:   account.AuthorizedAt,
		})
		return
	}

	// Unregistered flow: the credential lives only in the cache, keyed by
	// a cookie-held session token, until the manual shred consumes it.
	sessionTTL := time.Duration(cfg.Get().SessionTTL) * time.Second
	session := uuid.NewString()
	if err := h.cache.SetString(ctx, cache.SessionKey(session), refreshToken, sessionTTL); err != nil {
		slog.Error("Failed to store session credential", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.SetCookie(sessionCookie, session, cfg.Get().SessionTTL, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// RunShredder is the manual shred path: synchronous, returns the ordered
// result list, writes no shred records.
func (h *Handler) RunShredder(c *gin.Context) {
	var req shredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.KeepHours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keep_hours must not be negative"})
		return
	}

	// Legacy form encoding of "delete everything": no age threshold and a
	// karma limit of one.
	deleteEverything := req.DeleteEverything || (req.KeepHours == 0 && req.KarmaLimit == 1)

	ctx := c.Request.Context()
	userID, registered := currentUser(c)

	var refreshToken string
	var accountID int
	var session string

	switch {
	case registered:
		if req.AccountID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
			return
		}

		account, err := h.accountRepo.GetAccount(req.AccountID)
		if err != nil {
			slog.Error("Database error", "operation", "get_account", "account", req.AccountID, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		if account == nil || account.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		refreshToken = account.RefreshToken
		accountID = account.ID

	default:
		var err error
		session, err = c.Cookie(sessionCookie)
		if err != nil || session == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no authorized account or session"})
			return
		}

		token, ok, err := h.cache.GetString(ctx, cache.SessionKey(session))
		if err != nil || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please re-authorize"})
			return
		}
		refreshToken = token
	}

	policy := shredder.Policy{
		MaxAgeHours:      req.KeepHours,
		ScoreCeiling:     req.KarmaLimit,
		InclusiveScore:   true,
		DeleteEverything: deleteEverything,
	}

	client := h.app.NewUserClient(refreshToken)

	username, err := client.Me(ctx)
	if err != nil {
		if credentialFailure(err) {
			h.clearCredential(c, accountID, session)
		}
		h.respondProviderError(c, err)
		return
	}

	results, stats, err := shredder.Run(ctx, client, policy, time.Now().UTC())
	if err != nil {
		if credentialFailure(err) {
			h.clearCredential(c, accountID, session)
		}
		h.respondProviderError(c, err)
		return
	}

	// A consumed session credential is single use.
	if session != "" {
		if err := h.cache.Delete(ctx, cache.SessionKey(session)); err != nil {
			slog.Warn("Failed to clear session credential", "error", err)
		}
	}
	if registered {
		h.invalidateListing(c, userID)
	}

	c.JSON(http.StatusOK, shredResponse{
		Username: username,
		Results:  results,
		Deleted:  stats.Deleted,
		Skipped:  stats.Skipped,
	})
}

// ListItems returns the combined comment and submission listing across all
// of the user's accounts, memoized in the cache to spare Reddit calls
// across successive page views.
func (h *Handler) ListItems(c *gin.Context) {
	userID := c.GetInt(userIDKey)
	ctx := c.Request.Context()

	var cached []listedItem
	if ok, err := h.cache.GetJSON(ctx, cache.ListingKey(userID), &cached); err == nil && ok {
		c.JSON(http.StatusOK, cached)
		return
	} else if err != nil {
		slog.Warn("Listing cache read failed", "user", userID, "error", err)
	}

	accounts, err := h.accountRepo.GetAccountsByUser(userID)
	if err != nil {
		slog.Error("Database error", "operation", "list_accounts", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	items := make([]listedItem, 0)
	for _, account := range accounts {
		client := h.app.NewUserClient(account.RefreshToken)

		comments, err := client.ListComments(ctx)
		if err != nil {
			h.respondProviderError(c, err)
			return
		}
		submissions, err := client.ListSubmissions(ctx)
		if err != nil {
			h.respondProviderError(c, err)
			return
		}

		for _, item := range append(comments, submissions...) {
			items = append(items, listedItem{
				ID:       item.Fullname,
				Body:     item.Body,
				Karma:    item.Score,
				Username: account.RedditUsername,
				Kind:     string(item.Kind),
			})
		}
	}

	ttl := time.Duration(cfg.Get().ListingCacheTTL) * time.Second
	if err := h.cache.SetJSON(ctx, cache.ListingKey(userID), items, ttl); err != nil {
		slog.Warn("Listing cache write failed", "user", userID, "error", err)
	}

	c.JSON(http.StatusOK, items)
}

// respondProviderError maps Reddit failure categories to distinct
// user-visible responses.
func (h *Handler) respondProviderError(c *gin.Context, err error) {
	switch {
	case reddit.IsAuthError(err):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "your account is no longer authorized, please authorize it again",
		})
	case reddit.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "reddit refused the request, please re-authorize and try again",
		})
	case reddit.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "reddit is too busy to process this request, please try again later",
		})
	default:
		slog.Error("Unexpected provider error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error talking to reddit"})
	}
}

// credentialFailure reports whether err is a Reddit response that warrants
// discarding the stored credential: auth, forbidden, or transient. Transient
// failures clear too, matching the original policy of forcing a fresh
// authorization rather than retrying a possibly bad token. Anything else
// (a local network timeout, a decode error) says nothing about the token
// and must leave it alone.
func credentialFailure(err error) bool {
	return reddit.IsAuthError(err) || reddit.IsForbidden(err) || reddit.IsTransient(err)
}

// clearCredential drops the credential that just failed: the stored account
// row for registered users, the cached session token otherwise.
func (h *Handler) clearCredential(c *gin.Context, accountID int, session string) {
	ctx := c.Request.Context()

	if accountID > 0 {
		if err := h.accountRepo.DeleteAccount(accountID); err != nil {
			slog.Error("Failed to delete failed account credential", "account", accountID, "error", err)
		}
		return
	}

	if session != "" {
		if err := h.cache.Delete(ctx, cache.SessionKey(session)); err != nil {
			slog.Warn("Failed to clear session credential", "error", err)
		}
	}
}
