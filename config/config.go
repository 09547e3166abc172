package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	EmailSender string
	Password    string // SMTP App Password
	AdminEmail  string // Receiver for scheduler notifications

	AppBaseURL string // Used to build subscription links in reminder emails

	EncryptionKey string // Key material for OTP encryption at rest

	CurrencyApiURL string
	BaseCurrency   string

	ReminderOffsets    []int  // Days-before-expiry at which reminders go out
	ReminderCron       string // Daily reminder schedule
	StatusInterval     int    // Minutes between status reconciliation runs
	CurrencyCron       string // Currency rate refresh schedule
	RunRemindersAtBoot bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),
		AdminEmail:  getEnv("ADMIN_EMAIL", "admin@subman.local"),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		EncryptionKey: getEnv("ENCRYPTION_KEY", "defaultSecret"),

		CurrencyApiURL: getEnv("CURRENCY_API_URL", "https://open.er-api.com/v6/latest"),
		BaseCurrency:   getEnv("BASE_CURRENCY", "INR"),

		ReminderOffsets:    getEnvOffsets("REMINDER_OFFSETS", []int{7, 3, 0}),
		ReminderCron:       getEnv("REMINDER_CRON", "0 9 * * *"),
		StatusInterval:     getEnvInt("STATUS_INTERVAL_MINUTES", 12),
		CurrencyCron:       getEnv("CURRENCY_CRON", "30 0 * * *"),
		RunRemindersAtBoot: getEnv("RUN_REMINDERS_AT_BOOT", "true") == "true",
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.EncryptionKey == "defaultSecret" {
		log.Println("Warning: Using default ENCRYPTION_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvOffsets parses a comma-separated list of reminder offsets.
// Offset 0 is always kept so the same-day final notice cannot be disabled.
func getEnvOffsets(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var offsets []int
	hasZero := false
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			log.Printf("Ignoring invalid reminder offset %q in %s", part, key)
			continue
		}
		if n == 0 {
			hasZero = true
		}
		offsets = append(offsets, n)
	}
	if len(offsets) == 0 {
		return defaultValue
	}
	if !hasZero {
		offsets = append(offsets, 0)
	}
	return offsets
}
