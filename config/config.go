package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	LogDevelopment bool `envconfig:"LOG_DEVELOPMENT" default:"false"`

	// GeekSeek-Upstream (Places und Compare)
	GeekSeekBaseURL string        `envconfig:"GEEKSEEK_BASE_URL" default:"https://geekageddon-api.vercel.app"`
	GeekSeekTimeout time.Duration `envconfig:"GEEKSEEK_TIMEOUT" default:"120s"`
	MaxBodyBytes    int64         `envconfig:"GEEKSEEK_MAX_BODY_BYTES" default:"4194304"`

	// Anzahl der Vergleichsobjekte pro Tabelle (interaktiv nur 2)
	CompareSubjects int `envconfig:"COMPARE_SUBJECTS" default:"2"`

	SessionTTL             time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SessionCleanupInterval time.Duration `envconfig:"SESSION_CLEANUP_INTERVAL" default:"5m"`

	// Such-Protokoll; ohne DB_HOST wird nichts protokolliert
	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"geekseek"`

	SearchLogRetentionDays int    `envconfig:"SEARCH_LOG_RETENTION_DAYS" default:"30"`
	CronSchedule           string `envconfig:"CRON_SCHEDULE" default:"15 0 * * *"`

	// S3-Export des Such-Protokolls; ohne Bucket kein Export
	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION" default:"eu-central-1"`
	S3Bucket string `envconfig:"S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// SearchLogEnabled meldet, ob eine Datenbank für das Such-Protokoll konfiguriert ist.
func (c *Config) SearchLogEnabled() bool {
	return c.DBHost != ""
}

// ExportEnabled meldet, ob der S3-Export konfiguriert ist.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != "" && c.S3URL != ""
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	if c.CompareSubjects < 1 {
		return nil, fmt.Errorf("COMPARE_SUBJECTS must be at least 1, got %d", c.CompareSubjects)
	}
	return &c, nil
}
