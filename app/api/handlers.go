package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shredsafe/shredsafe/app/cache"
	"github.com/shredsafe/shredsafe/app/cfg"
	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
)

func NewHandler(accountRepo database.AccountRepository, exclusionRepo database.ExclusionRepository,
	recordRepo database.RecordRepository, profileRepo database.ProfileRepository,
	app reddit.AppInterface, c CacheInterface) *Handler {
	return &Handler{
		accountRepo:   accountRepo,
		exclusionRepo: exclusionRepo,
		recordRepo:    recordRepo,
		profileRepo:   profileRepo,
		app:           app,
		cache:         c,
	}
}

func (h *Handler) ListAccounts(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	accounts, err := h.accountRepo.GetAccountsByUser(userID)
	if err != nil {
		slog.Error("Database error", "operation", "list_accounts", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, accountResponse{
			ID:             account.ID,
			RedditUsername: account.RedditUsername,
			Schedule:       account.Schedule,
			AuthorizedAt:   account.AuthorizedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) ChangeSchedule(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !database.ValidSchedule(req.Schedule) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule"})
		return
	}

	account, ok := h.ownedAccount(c, userID, accountID)
	if !ok {
		return
	}

	if err := h.accountRepo.UpdateSchedule(account.ID, req.Schedule); err != nil {
		slog.Error("Database error", "operation", "change_schedule", "account", accountID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": account.ID, "schedule": req.Schedule})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	accountID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	account, ok := h.ownedAccount(c, userID, accountID)
	if !ok {
		return
	}

	if err := h.accountRepo.DeleteAccount(account.ID); err != nil {
		slog.Error("Database error", "operation", "delete_account", "account", accountID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	h.invalidateListing(c, userID)

	c.Status(http.StatusNoContent)
}

func (h *Handler) AddExclusion(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var req exclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
		return
	}

	if err := h.exclusionRepo.Add(userID, req.ItemID); err != nil {
		slog.Error("Database error", "operation", "add_exclusion", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item_id": req.ItemID})
}

func (h *Handler) RemoveExclusion(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	itemID := c.Param("itemID")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id is required"})
		return
	}

	if err := h.exclusionRepo.Remove(userID, itemID); err != nil {
		slog.Error("Database error", "operation", "remove_exclusion", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListRecords(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	records, err := h.recordRepo.ListByUser(userID)
	if err != nil {
		slog.Error("Database error", "operation", "list_records", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	profile, err := h.profileRepo.GetOrCreate(userID)
	if err != nil {
		slog.Error("Database error", "operation", "get_profile", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record_keeping": profile.RecordKeeping,
		"karma_exclude":  profile.KarmaExclude,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt(userIDKey)

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.profileRepo.UpdatePreferences(userID, req.RecordKeeping, req.KarmaExclude); err != nil {
		slog.Error("Database error", "operation", "update_profile", "user", userID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record_keeping": req.RecordKeeping,
		"karma_exclude":  req.KarmaExclude,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   cfg.Get().Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ownedAccount loads an account and enforces that it belongs to the
// requesting user. Writes the error response itself on failure.
func (h *Handler) ownedAccount(c *gin.Context, userID, accountID int) (*database.Account, bool) {
	account, err := h.accountRepo.GetAccount(accountID)
	if err != nil {
		slog.Error("Database error", "operation", "get_account", "account", accountID, "error", err)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}

	if account == nil || account.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return nil, false
	}

	return account, true
}

func (h *Handler) invalidateListing(c *gin.Context, userID int) {
	if err := h.cache.Delete(c.Request.Context(), cache.ListingKey(userID)); err != nil {
		slog.Warn("Failed to invalidate listing cache", "user", userID, "error", err)
	}
}
