package config

import "time"

// CacheConfig defines settings for the status-listing response cache.
// When Enabled is false or no Redis client is available, caching is
// disabled entirely.  The TTL should stay short: the listing is the lock
// attendant's live view of occupancy.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      getenv("CACHE_ENABLED", "true") == "true",
        TTL:          getdur("CACHE_TTL", 5*time.Second),
        Prefix:       getenv("CACHE_PREFIX", "lockers"),
        MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
    }
}
