package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); the
// rest fall back to sensible defaults so a dev setup only needs the basics.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to sign JWTs

	TokenTTLDays      int // session token time-to-live in days
	BcryptCost        int // bcrypt cost for password hashing
	OTPTTLMin         int // one-time code lifetime in minutes
	ResetTicketTTLMin int // reset-ticket lifetime in minutes

	UploadDir      string // directory for uploaded images
	MaxUploadBytes int64  // maximum accepted upload size

	MailAPIURL string // transactional mail API endpoint
	MailAPIKey string // mail API bearer key
	MailFrom   string // From address on outgoing mail

	PushAPIURL string // push provider REST endpoint
	PushAppID  string // push provider application id
	PushAPIKey string // push provider REST key
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		TokenTTLDays:      envInt("TOKEN_TTL_DAYS", 30),
		BcryptCost:        envInt("BCRYPT_COST", 10),
		OTPTTLMin:         envInt("OTP_TTL_MIN", 10),
		ResetTicketTTLMin: envInt("RESET_TICKET_TTL_MIN", 10),

		UploadDir:      envStr("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_BYTES", 1<<20)),

		MailAPIURL: os.Getenv("MAIL_API_URL"),
		MailAPIKey: os.Getenv("MAIL_API_KEY"),
		MailFrom:   envStr("MAIL_FROM", "noreply@newsroom.local"),

		PushAPIURL: os.Getenv("PUSH_API_URL"),
		PushAppID:  os.Getenv("PUSH_APP_ID"),
		PushAPIKey: os.Getenv("PUSH_API_KEY"),
	}
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

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
