package api

import (
	"context"
	"time"

	"github.com/shredsafe/shredsafe/app/cache"
	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
	"github.com/shredsafe/shredsafe/app/shredder"
)

// CacheInterface is the cache surface the handlers consume. Implemented by
// cache.Cache; faked in tests.
type CacheInterface interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var _ CacheInterface = (*cache.Cache)(nil)

type Handler struct {
	accountRepo   database.AccountRepository
	exclusionRepo database.ExclusionRepository
	recordRepo    database.RecordRepository
	profileRepo   database.ProfileRepository
	app           reddit.AppInterface
	cache         CacheInterface
}

// sessionCookie carries the transient credential reference for the
// unregistered manual-shred flow.
const sessionCookie = "shredsafe_session"

type shredRequest struct {
	AccountID        int  `json:"account_id"`
	KeepHours        int  `json:"keep_hours"`
	KarmaLimit       int  `json:"karma_limit"`
	DeleteEverything bool `json:"delete_everything"`
}

type shredResponse struct {
	Username string            `json:"username"`
	Results  []shredder.Result `json:"results"`
	Deleted  int               `json:"deleted"`
	Skipped  int               `json:"skipped"`
}

type accountResponse struct {
	ID             int       `json:"id"`
	RedditUsername string    `json:"reddit_username"`
	Schedule       string    `json:"schedule"`
	AuthorizedAt   time.Time `json:"authorized_at"`
}

type listedItem struct {
	ID       string `json:"cid"`
	Body     string `json:"body"`
	Karma    int    `json:"karma"`
	Username string `json:"user_name"`
	Kind     string `json:"item_type"`
}

type scheduleRequest struct {
	Schedule string `json:"schedule"`
}

type exclusionRequest struct {
	ItemID string `json:"item_id"`
}

type profileRequest struct {
	RecordKeeping bool `json:"record_keeping"`
	KarmaExclude  int  `json:"karma_exclude"`
}
