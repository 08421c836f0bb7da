package tasks

import (
	"context"
	"time"

	"github.com/shredsafe/shredsafe/app/database"
	"github.com/shredsafe/shredsafe/app/reddit"
)

// mockAccountRepo implements database.AccountRepository in memory.
type mockAccountRepo struct {
	accounts []database.Account
}

func (m *mockAccountRepo) UpsertAccount(userID int, redditUsername, refreshToken string) (*database.Account, error) {
	account := database.Account{
		ID:             len(m.accounts) + 1,
		UserID:         userID,
		RedditUsername: redditUsername,
		RefreshToken:   refreshToken,
		Schedule:       database.ScheduleNone,
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

// mockProfileRepo implements database.ProfileRepository in memory.
type mockProfileRepo struct {
	profiles map[int]database.Profile
}

func (m *mockProfileRepo) GetOrCreate(userID int) (*database.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return &profile, nil
	}
	profile := database.Profile{UserID: userID}
	if m.profiles == nil {
		m.profiles = make(map[int]database.Profile)
	}
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

// fakeApp builds fakeRedditClient instances keyed by refresh token.
type fakeApp struct {
	clients map[string]*fakeRedditClient
}

func (f *fakeApp) AuthURL(state string) string {
	return "https://example.com/authorize?state=" + state
}

func (f *fakeApp) ExchangeCode(ctx context.Context, code string) (string, error) {
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

	meErr error
	// blockUntilCancel makes listings hang until the caller's context is
	// cancelled, simulating a stalled provider during shutdown.
	blockUntilCancel bool

	deleted []string
	edited  []string
}

func (f *fakeRedditClient) Me(ctx context.Context) (string, error) {
	if f.meErr != nil {
		return "", f.meErr
	}
	return f.username, nil
}

func (f *fakeRedditClient) ListComments(ctx context.Context) ([]reddit.Item, error) {
	if f.blockUntilCancel {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.comments, nil
}

func (f *fakeRedditClient) ListSubmissions(ctx context.Context) ([]reddit.Item, error) {
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
