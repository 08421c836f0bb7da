package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"shredsafe" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"shredsafe" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"shredsafe" description:"Database name"`

	// Redis configuration
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for listing cache and session credentials"`

	// Reddit API configuration
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit OAuth application client ID" required:"true"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit OAuth application client secret" required:"true"`
	RedditRedirectURI  string `long:"reddit-redirect-uri" env:"REDDIT_REDIRECT_URI" default:"http://localhost:8080/auth/callback" description:"OAuth redirect URI registered with Reddit"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for shred processing"`
	ShredInterval   int    `long:"shred-interval" env:"SHRED_INTERVAL" default:"3600" description:"Scheduled shred interval in seconds"`
	RecordRetention int    `long:"record-retention" env:"RECORD_RETENTION" default:"24" description:"Shred record retention in hours"`
	ListingCacheTTL int    `long:"listing-cache-ttl" env:"LISTING_CACHE_TTL" default:"600" description:"Listing cache TTL in seconds"`
	SessionTTL      int    `long:"session-ttl" env:"SESSION_TTL" default:"3600" description:"Transient session credential TTL in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"web:shredsafe:v1.0 (by /u/shredsafe)" description:"User agent string for Reddit API requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:             raw.DBHost,
		DBPort:             raw.DBPort,
		DBUser:             raw.DBUser,
		DBPassword:         raw.DBPassword,
		DBName:             raw.DBName,
		RedisAddr:          raw.RedisAddr,
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditRedirectURI:  raw.RedditRedirectURI,
		Port:               raw.Port,
		WorkerCount:        raw.WorkerCount,
		ShredInterval:      raw.ShredInterval,
		RecordRetention:    raw.RecordRetention,
		ListingCacheTTL:    raw.ListingCacheTTL,
		SessionTTL:         raw.SessionTTL,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests only.
func Set(c *Cfg) {
	globalCfg = c
}
