package reddit

import (
	"time"
)

// ItemKind distinguishes the two shreddable content types.
type ItemKind string

const (
	KindComment    ItemKind = "comment"
	KindSubmission ItemKind = "submission"
)

// Item is a single authored comment or submission. Body holds the comment
// body or the submission title. CreatedAt is always UTC.
type Item struct {
	Fullname  string
	Body      string
	Score     int
	CreatedAt time.Time
	Kind      ItemKind
}

// Wire types for the Reddit JSON API.

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	Error        string `json:"error"`
}

type meResponse struct {
	Name string `json:"name"`
}

type listingResponse struct {
	Data struct {
		After    string         `json:"after"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string `json:"kind"` // t1 = comment, t3 = submission
	Data struct {
		Name       string  `json:"name"` // fullname, e.g. t1_abc123
		Body       string  `json:"body"`
		Title      string  `json:"title"`
		Score      int     `json:"score"`
		CreatedUTC float64 `json:"created_utc"`
	} `json:"data"`
}
