package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting read from the environment
type Config struct {
	Env     string `env:"ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"8080"`
	AppURL  string `env:"APP_URL" envDefault:"http://localhost:8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH" envDefault:"./firebase-service-account.json"`
	FirebaseStorageBucket   string `env:"FIREBASE_STORAGE_BUCKET"`

	// UploadDir is used when no storage bucket is configured
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./public"`

	// PhotoServiceID is the catalog id of the plain "photo" service used to
	// compute the minimum number of photos a photographer must upload.
	PhotoServiceID uint `env:"PHOTO_SERVICE_ID" envDefault:"5"`

	AlbumLoginMaxAttempts int           `env:"ALBUM_LOGIN_MAX_ATTEMPTS" envDefault:"10"`
	AlbumLoginWindow      time.Duration `env:"ALBUM_LOGIN_WINDOW" envDefault:"15m"`
	CatalogCacheTTL       time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"10m"`

	ContactEmail string `env:"CONTACT_EMAIL"`

	WorkerInterval time.Duration `env:"WORKER_INTERVAL" envDefault:"1m"`

	SMTP     SMTPConfig     `envPrefix:"SMTP_"`
	Waha     WahaConfig     `envPrefix:"WAHA_"`
	Midtrans MidtransConfig `envPrefix:"MIDTRANS_"`
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host string `env:"HOST"`
	Port string `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	From string `env:"FROM" envDefault:"no-reply@picxury.com"`
}

// WahaConfig points at the WhatsApp HTTP API gateway
type WahaConfig struct {
	BaseURL string `env:"BASE_URL" envDefault:"http://waha:3000"`
	APIKey  string `env:"API_KEY"`
	Session string `env:"SESSION" envDefault:"default"`
}

// MidtransConfig holds payment gateway keys
type MidtransConfig struct {
	ServerKey    string `env:"SERVER_KEY"`
	ClientKey    string `env:"CLIENT_KEY"`
	IsProduction bool   `env:"IS_PRODUCTION" envDefault:"false"`
}

// IsProduction reports whether the app runs with production settings
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and parses the environment into Config.
// A missing .env file is not an error.
func Load() (Config, bool, error) {
	dotenvLoaded := godotenv.Load() == nil

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, dotenvLoaded, fmt.Errorf("parse env: %w", err)
	}
	return cfg, dotenvLoaded, nil
}
