package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shredsafe/shredsafe/app/cfg"
	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
)

func init() {
	cfg.Set(&cfg.Cfg{
		ListingCacheTTL: 600,
		SessionTTL:      3600,
		UserAgent:       "test-agent",
		Version:         "test",
	})
}

// fakeCache implements CacheInterface in memory. TTLs are ignored; tests
// that care about expiry delete keys explicitly.
type fakeCache struct {
	strings map[string]string
	jsons   map[string][]byte

	deletedKeys []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		strings: make(map[string]string),
		jsons:   make(map[string][]byte),
	}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, ok := f.jsons[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.jsons[key] = raw
	return nil
}

func (f *fakeCache) GetString(ctx context.Context, key string) (string, bool, error) {
	value, ok := f.strings[key]
	return value, ok, nil
}

func (f *fakeCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	f.strings[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.strings, key)
	delete(f.jsons, key)
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

// mockAccountRepo implements database.AccountRepository in memory.
type mockAccountRepo struct {
	accounts []database.Account
}

func (m *mockAccountRepo) UpsertAccount(userID int, redditUsername, refreshToken string) (*database.Account, error) {
	for i := range m.accounts {
		if m.accounts[i].RedditUsername == redditUsername {
			m.accounts[i].UserID = userID
			m.accounts[i].RefreshToken = refreshToken
			m.accounts[i].Schedule = database.ScheduleNone
			return &m.accounts[i], nil
		}
	}
	account := database.Account{
		ID:             len(m.accounts) + 1,
		UserID:         userID,
		RedditUsername: redditUsername,
		RefreshToken:   refreshToken,
		Schedule:       database.ScheduleNone,
		AuthorizedAt:   time.Now().UTC(),
	}
	m.accounts = append(m.accounts, account)
	return &account, nil
}

func (m *mockAccountRepo) GetAccount(id int) (*database.Account, error) {
	for _, account := range m.accounts {
		if account.ID == id {
			return &account, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) GetAccountByUsername(redditUsername string) (*database.Account, error) {
	for _, account := range m.accounts {
		if account.RedditUsername == redditUsername {
			return &account, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) GetAccountsByUser(userID int) ([]database.Account, error) {
	var out []database.Account
	for _, account := range m.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	return out, nil
}

func (m *mockAccountRepo) GetAllAccounts() ([]database.Account, error) {
	return append([]database.Account(nil), m.accounts...), nil
}

func (m *mockAccountRepo) GetScheduledAccounts() ([]database.Account, error) {
	var out []database.Account
	for _, account := range m.accounts {
		if account.Schedule != database.ScheduleNone {
			out = append(out, account)
		}
	}
	return out, nil
}

func (m *mockAccountRepo) UpdateSchedule(id int, schedule string) error {
	for i := range m.accounts {
		if m.accounts[i].ID == id {
			m.accounts[i].Schedule = schedule
		}
	}
	return nil
}

func (m *mockAccountRepo) DeleteAccount(id int) error {
	var out []database.Account
	for _, account := range m.accounts {
		if account.ID != id {
			out = append(out, account)
		}
	}
	m.accounts = out
	return nil
}

// mockExclusionRepo implements database.ExclusionRepository in memory.
type mockExclusionRepo struct {
	ids map[int]map[string]struct{}
}

func (m *mockExclusionRepo) Add(userID int, itemID string) error {
	if m.ids == nil {
		m.ids = make(map[int]map[string]struct{})
	}
	if m.ids[userID] == nil {
		m.ids[userID] = make(map[string]struct{})
	}
	m.ids[userID][itemID] = struct{}{}
	return nil
}

func (m *mockExclusionRepo) Remove(userID int, itemID string) error {
	delete(m.ids[userID], itemID)
	return nil
}

func (m *mockExclusionRepo) ListIDs(userID int) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for id := range m.ids[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

// mockRecordRepo implements database.RecordRepository in memory.
type mockRecordRepo struct {
	records []database.ShredRecord
}

func (m *mockRecordRepo) Insert(record database.ShredRecord) error {
	record.ID = len(m.records) + 1
	m.records = append(m.records, record)
	return nil
}

func (m *mockRecordRepo) ListByUser(userID int) ([]database.ShredRecord, error) {
	var out []database.ShredRecord
	for _, record := range m.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (m *mockRecordRepo) PurgeOlderThan(cutoff time.Time) (int64, error) {
	var kept []database.ShredRecord
	var deleted int64
	for _, record := range m.records {
		if record.RunAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	m.records = kept
	return deleted, nil
}

// mockProfileRepo implements database.ProfileRepository in memory.
type mockProfileRepo struct {
	profiles map[int]database.Profile
}

func (m *mockProfileRepo) GetOrCreate(userID int) (*database.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return &profile, nil
	}
	if m.profiles == nil {
		m.profiles = make(map[int]database.Profile)
	}
	profile := database.Profile{UserID: userID}
	m.profiles[userID] = profile
	return &profile, nil
}

func (m *mockProfileRepo) UpdatePreferences(userID int, recordKeeping bool, karmaExclude int) error {
	if m.profiles == nil {
		m.profiles = make(map[int]database.Profile)
	}
	m.profiles[userID] = database.Profile{
		UserID:        userID,
		RecordKeeping: recordKeeping,
		KarmaExclude:  karmaExclude,
	}
	return nil
}

// fakeApp builds fakeRedditClient instances keyed by refresh token.
type fakeApp struct {
	clients map[string]*fakeRedditClient

	exchangeErr error
}

func (f *fakeApp) AuthURL(state string) string {
	return "https://example.com/authorize?state=" + state
}

func (f *fakeApp) ExchangeCode(ctx context.Context, code string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "refresh-" + code, nil
}

func (f *fakeApp) NewUserClient(refreshToken string) reddit.ClientInterface {
	if client, ok := f.clients[refreshToken]; ok {
		return client
	}
	return &fakeRedditClient{username: "unknown"}
}

type fakeRedditClient struct {
	username    string
	comments    []reddit.Item
	submissions []reddit.Item

	meErr   error
	listErr error

	listCalls int
	deleted   []string
	edited    []string
}

func (f *fakeRedditClient) Me(ctx context.Context) (string, error) {
	if f.meErr != nil {
		return "", f.meErr
	}
	return f.username, nil
}

func (f *fakeRedditClient) ListComments(ctx context.Context) ([]reddit.Item, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.comments, nil
}

func (f *fakeRedditClient) ListSubmissions(ctx context.Context) ([]reddit.Item, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.submissions, nil
}

func (f *fakeRedditClient) EditComment(ctx context.Context, fullname, body string) error {
	f.edited = append(f.edited, fullname)
	return nil
}

func (f *fakeRedditClient) Delete(ctx context.Context, fullname string) error {
	f.deleted = append(f.deleted, fullname)
	return nil
}

// testFixture bundles a wired server with its fakes.
type testFixture struct {
	router        *gin.Engine
	accountRepo   *mockAccountRepo
	exclusionRepo *mockExclusionRepo
	recordRepo    *mockRecordRepo
	profileRepo   *mockProfileRepo
	app           *fakeApp
	cache         *fakeCache
}

func newFixture() *testFixture {
	f := &testFixture{
		accountRepo:   &mockAccountRepo{},
		exclusionRepo: &mockExclusionRepo{},
		recordRepo:    &mockRecordRepo{},
		profileRepo:   &mockProfileRepo{},
		app:           &fakeApp{clients: make(map[string]*fakeRedditClient)},
		cache:         newFakeCache(),
	}

	handler := NewHandler(f.accountRepo, f.exclusionRepo, f.recordRepo, f.profileRepo, f.app, f.cache)
	f.router = NewServer(handler)

	return f
}

func (f *testFixture) request(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func asUser(id string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("X-User-ID", id)
	}
}

func withCookie(name, value string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
}
