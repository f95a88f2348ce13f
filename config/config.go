/* config.go
 * Contains the server configuration, loaded from an optional .env file and the environment
 * Authors: Zachary Bower
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"smallie/api/logic"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the optional environment prefix, e.g. SMALLIE_MONGO_URI takes precedence over MONGO_URI
const Prefix = "smallie"

// Config holds every setting the server reads at startup. Payment and admin secrets only ever live here, never in
// anything served to the browser.
type Config struct {
	MongoURI string `envconfig:"MONGO_URI"`
	DBName   string `envconfig:"DB_NAME" default:"smallie"`
	Addr     string `envconfig:"ADDR" default:":8080"`
	Debug    bool   `envconfig:"DEBUG"`

	// Admin session
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	SecureCookies     bool          `envconfig:"SECURE_COOKIES"`

	// Flutterwave
	FlutterwavePublicKey   string `envconfig:"FLW_PUBLIC_KEY"`
	FlutterwaveSecretKey   string `envconfig:"FLW_SECRET_KEY"`
	FlutterwaveWebhookHash string `envconfig:"FLW_WEBHOOK_HASH"`
	FlutterwaveBaseURL     string `envconfig:"FLW_BASE_URL"`
	FlutterwaveRedirectURL string `envconfig:"FLW_REDIRECT_URL"`

	// Receipts log. Without an address receipts are kept in memory.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	// Operator bot. Without a token the bot is not started.
	DiscordToken    string   `envconfig:"DISCORD_TOKEN"`
	AdminDiscordIDs []string `envconfig:"ADMIN_DISCORD_IDS"`

	CompetitionStart string        `envconfig:"COMPETITION_START" default:"2025-04-15"`
	TransferDelay    time.Duration `envconfig:"TRANSFER_DELAY" default:"2s"`
	RefreshInterval  time.Duration `envconfig:"REFRESH_INTERVAL" default:"5m"`
}

// Load reads envFile (if it exists) into the environment and then parses the environment into a Config. Variables
// already set in the environment win over the file.
// Preconditions: Receives the path of a .env file, or "" for none
// Postconditions: Returns the validated config, or an error if parsing or validation fails
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that have no usable default
func (c Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI must be set")
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME must not be empty")
	}
	if _, err := c.Competition(); err != nil {
		return err
	}
	if c.AdminPasswordHash != "" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set when admin login is enabled")
	}
	return nil
}

// Competition returns the competition schedule starting at COMPETITION_START
func (c Config) Competition() (logic.Competition, error) {
	start, err := time.Parse(time.DateOnly, c.CompetitionStart)
	if err != nil {
		return logic.Competition{}, fmt.Errorf("invalid COMPETITION_START %q: %w", c.CompetitionStart, err)
	}
	return logic.NewCompetition(start.Year(), start.Month(), start.Day()), nil
}

// AdminLoginEnabled reports whether the admin password and session secret are configured
func (c Config) AdminLoginEnabled() bool {
	return c.AdminPasswordHash != "" && c.JWTSecret != ""
}

// IsAdminDiscordID reports whether a Discord user may run admin bot commands
func (c Config) IsAdminDiscordID(id string) bool {
	for _, admin := range c.AdminDiscordIDs {
		if admin == id {
			return true
		}
	}
	return false
}
