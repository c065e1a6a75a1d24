package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database fields are only required for the
// mysql store driver; the memory driver runs without them.
type Config struct {
    Env             string        // application environment (e.g. "dev", "prod")
    Port            string        // HTTP port to listen on
    APIKey          string        // static shared secret for the X-API-Key header
    StoreDriver     string        // "mysql" or "memory"
    DBUser          string        // database username
    DBPass          string        // database password (optional)
    DBHost          string        // database host address
    DBPort          string        // database port number
    DBName          string        // database name
    LockerCount     int           // pool size seeded on first startup
    CodeDigits      int           // access code width: 6 (default) or 4
    CodeTTL         time.Duration // assignment lifetime (default 24h)
    EnforceExpiry   bool          // reject expired codes during validation
    CustomerProfile string        // "simple" or "contact" payload shape
    QRBaseURL       string        // external QR renderer base URL (empty = default)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    cfg := Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        APIKey:          must("API_KEY"),
        StoreDriver:     getenv("STORE_DRIVER", "mysql"),
        LockerCount:     atoi(getenv("LOCKER_COUNT", "5")),
        CodeDigits:      atoi(getenv("CODE_DIGITS", "6")),
        CodeTTL:         getdur("CODE_TTL", 24*time.Hour),
        EnforceExpiry:   getenv("CODE_EXPIRY_ENFORCED", "false") == "true",
        CustomerProfile: getenv("CUSTOMER_PROFILE", "simple"),
        QRBaseURL:       os.Getenv("QR_BASE_URL"),
    }
    if cfg.StoreDriver == "mysql" {
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    }
    if cfg.LockerCount < 1 {
        log.Fatalf("LOCKER_COUNT must be positive, got %d", cfg.LockerCount)
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// Shared env helpers used by the per-concern loaders in this package.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}

// getdur reads a duration variable, keeping the given default when the
// variable is unset.  A value that does not parse is a configuration
// mistake: it is logged and the default kept rather than silently turning
// into some other duration.
func getdur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Printf("invalid duration %q for %s, using default %s", v, key, def)
        return def
    }
    return d
}
