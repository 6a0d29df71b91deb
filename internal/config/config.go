package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
    "time"

    "github.com/jeanpaul615/SmartRestaurantManagementSystem/internal/utils"
)

// Default token lifetimes used when the TTL env vars are missing or
// malformed.  Malformed values fall back instead of erroring; the
// fallback is logged by utils.ParseTTL.
const (
    DefaultAccessTTL  = time.Hour
    DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Required variables are
// enforced by must() and missing values cause the program to exit.
type Config struct {
    Env         string        // application environment ("dev", "prod")
    Port        string        // HTTP port to listen on
    DBUser      string        // database username
    DBPass      string        // database password (optional)
    DBHost      string        // database host address
    DBPort      string        // database port number
    DBName      string        // database name
    JWTSecret   string        // secret used to sign JWTs
    AccessTTL   time.Duration // access token lifetime (JWT_EXPIRES_IN)
    RefreshTTL  time.Duration // refresh token lifetime (JWT_REFRESH_EXPIRES_IN)
    BcryptCost  int           // bcrypt cost for password hashing
    FrontendURL string        // allowed CORS origin for the web client
}

// Load reads configuration from the environment and returns a Config.
// TTLs accept the "<integer><s|m|h|d>" shorthand ("1h", "7d") and fall
// back to documented defaults when malformed.
func Load() Config {
    return Config{
        Env:         getenvDefault("APP_ENV", "dev"),
        Port:        getenvDefault("APP_PORT", "8080"),
        DBUser:      must("DB_USER"),
        DBPass:      os.Getenv("DB_PASS"),
        DBHost:      must("DB_HOST"),
        DBPort:      must("DB_PORT"),
        DBName:      must("DB_NAME"),
        JWTSecret:   must("JWT_SECRET"),
        AccessTTL:   utils.ParseTTL("JWT_EXPIRES_IN", getenvDefault("JWT_EXPIRES_IN", "1h"), DefaultAccessTTL),
        RefreshTTL:  utils.ParseTTL("JWT_REFRESH_EXPIRES_IN", getenvDefault("JWT_REFRESH_EXPIRES_IN", "7d"), DefaultRefreshTTL),
        BcryptCost:  intDefault("BCRYPT_COST", 10),
        FrontendURL: getenvDefault("FRONTEND_URL", "http://localhost:3000"),
    }
}

// IsProd reports whether the app runs in production mode.  It toggles
// the Secure flag on auth cookies.
func (c Config) IsProd() bool { return c.Env == "prod" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func getenvDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func intDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("config: %s=%q is not an integer, using default %d", key, v, def)
        return def
    }
    return n
}
