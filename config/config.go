package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config carries all environment-sourced settings. CHAPA_SECRET_KEY is
// deliberately not required at boot: its absence disables the payment
// endpoints with a configuration error instead of stopping the server.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"root:root@tcp(127.0.0.1:3306)/travel_app?charset=utf8mb4&parseTime=True&loc=Local"`

	// AppBaseURL is this server's public base URL, used to build the
	// gateway callback for payment verification.
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	ChapaSecretKey string `env:"CHAPA_SECRET_KEY"`
	ChapaBaseURL   string `env:"CHAPA_BASE_URL" envDefault:"https://api.chapa.co/v1"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"no-reply@alxtravel.local"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// InitDB opens the MySQL connection used by the whole application.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("config.InitDB: %w", err)
	}
	return db, nil
}
