package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"
    _ "time/tzdata" // zone database for minimal images

    "github.com/joho/godotenv" // optional .env file for local runs
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    AutoMigrate  bool   // apply embedded schema migrations at startup
    JWTSecret    string // secret used to sign admin access tokens
    AccessTTLMin int    // access token time‑to‑live in minutes
    Timezone     string // IANA zone the 09:00-18:00 grid and "today" refer to
}

// Load reads an optional .env file, then configuration values from
// environment variables.  Variables already set in the environment win
// over the file.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
    if err := godotenv.Load(); err == nil {
        log.Printf("config: loaded .env")
    }
    return Config{
        Env:          must("APP_ENV"),                     // environment (dev/test/prod)
        Port:         must("APP_PORT"),                    // port to bind the HTTP server
        DBUser:       must("DB_USER"),                     // database user
        DBPass:       os.Getenv("DB_PASS"),                // database password (empty allowed)
        DBHost:       must("DB_HOST"),                     // database host
        DBPort:       must("DB_PORT"),                     // database port
        DBName:       must("DB_NAME"),                     // database name
        AutoMigrate:  envBool("DB_AUTO_MIGRATE", false),   // run migrations on boot
        JWTSecret:    must("JWT_SECRET"),                  // secret used for signing JWTs
        AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),     // TTL for access tokens in minutes
        Timezone:     envStr("APP_TIMEZONE", "Asia/Seoul"), // booking location
    }
}

// Location resolves Timezone.  An unknown zone name is fatal because
// every date rule depends on it.
func (c Config) Location() *time.Location {
    loc, err := time.LoadLocation(c.Timezone)
    if err != nil {
        log.Fatalf("invalid APP_TIMEZONE %q: %v", c.Timezone, err)
    }
    return loc
}

// BcryptCost is the bcrypt cost used when provisioning admin passwords.
func BcryptCost() int { return envInt("BCRYPT_COST", 12) }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
