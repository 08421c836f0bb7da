package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddr string

	// Reddit API configuration
	RedditClientID     string
	RedditClientSecret string
	RedditRedirectURI  string

	// Application configuration
	Port            string
	WorkerCount     int
	ShredInterval   int
	RecordRetention int
	ListingCacheTTL int
	SessionTTL      int

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
