package reddit

import (
	"context"
)

var _ ClientInterface = (*Client)(nil)

// ClientInterface is the capability set consumed by the shredder, the task
// scheduler, and the API handlers. Implemented by Client; faked in tests.
type ClientInterface interface {
	Me(ctx context.Context) (string, error)
	ListComments(ctx context.Context) ([]Item, error)
	ListSubmissions(ctx context.Context) ([]Item, error)
	EditComment(ctx context.Context, fullname, body string) error
	Delete(ctx context.Context, fullname string) error
}

// AppInterface builds authorize URLs, exchanges OAuth codes, and constructs
// per-credential clients. No shared authenticated client exists; every
// operation goes through a client built from an explicit refresh token.
type AppInterface interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	NewUserClient(refreshToken string) ClientInterface
}
