package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	CursorBackendFile  = "file"
	CursorBackendTable = "table"

	sinceDateLayout = "2006-01-02"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	YnabAPIKey      string
	YnabBaseURL     string
	BudgetID        string
	SinceDate       time.Time
	RequestsPerHour int
	HTTPTimeout     time.Duration

	CursorBackend string
	CursorDir     string

	StrictIntegrity bool
	SyncEntities    bool
	ArchiveBucket   string

	LogLevel string
	HTTPPort string
}

// PostgresURL builds the lib/pq connection string.
func (c *Config) PostgresURL() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// A missing .env file is fine, the real environment wins anyway.
	_ = godotenv.Load()

	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:  "localhost",
		PostgresPort:     "5432",
		PostgresDB:       "ynab_data",
		PostgresUsername: "ynab_user",
		PostgresPassword: "ynab_password",

		YnabBaseURL:     "https://api.ynab.com/v1",
		SinceDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RequestsPerHour: 200,
		HTTPTimeout:     30 * time.Second,

		CursorBackend: CursorBackendFile,
		CursorDir:     ".ynab-cursor",

		LogLevel: "info",
		HTTPPort: "9446",
	}

	setString(&env.PostgresAddress, "POSTGRES_HOST")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USER")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")

	setString(&env.YnabAPIKey, "YNAB_API_KEY")
	setString(&env.YnabBaseURL, "YNAB_BASE_URL")
	setString(&env.BudgetID, "BUDGET_ID")
	setString(&env.CursorBackend, "CURSOR_BACKEND")
	setString(&env.CursorDir, "CURSOR_DIR")
	setString(&env.ArchiveBucket, "ARCHIVE_BUCKET")
	setString(&env.LogLevel, "LOG_LEVEL")
	setString(&env.HTTPPort, "HTTP_PORT")

	if v := os.Getenv("SINCE_DATE"); len(v) != 0 {
		since, err := time.Parse(sinceDateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("SINCE_DATE: %w", err)
		}
		env.SinceDate = since
	}

	if v := os.Getenv("REQUESTS_PER_HOUR"); len(v) != 0 {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REQUESTS_PER_HOUR: invalid value %q", v)
		}
		env.RequestsPerHour = n
	}

	if v := os.Getenv("HTTP_TIMEOUT"); len(v) != 0 {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("HTTP_TIMEOUT: %w", err)
		}
		env.HTTPTimeout = d
	}

	var err error
	if env.StrictIntegrity, err = parseBool("STRICT_INTEGRITY"); err != nil {
		return nil, err
	}
	if env.SyncEntities, err = parseBool("SYNC_ENTITIES"); err != nil {
		return nil, err
	}

	if env.CursorBackend != CursorBackendFile && env.CursorBackend != CursorBackendTable {
		return nil, fmt.Errorf("CURSOR_BACKEND: must be %q or %q, got %q", CursorBackendFile, CursorBackendTable, env.CursorBackend)
	}

	return &env, nil
}

// ParseSinceDate parses a YYYY-MM-DD run parameter.
func ParseSinceDate(v string) (time.Time, error) {
	return time.Parse(sinceDateLayout, v)
}

func setString(target *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*target = v
	}
}

func parseBool(key string) (bool, error) {
	v := os.Getenv(key)
	if len(v) == 0 {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
