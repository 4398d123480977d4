package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/config"
	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/router"
	"github.com/alxtravel/travel-app/services"
	"github.com/alxtravel/travel-app/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if cfg.ChapaSecretKey == "" {
		utils.ErrorLogger.Println("CHAPA_SECRET_KEY is not set; payment endpoints will return a configuration error")
	}

	chapa := services.NewChapaService(&services.ChapaConfig{
		SecretKey: cfg.ChapaSecretKey,
		BaseURL:   cfg.ChapaBaseURL,
	})

	mailer := services.NewSMTPMailer(services.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	})

	notifier := services.NewNotifier(db, mailer)
	notifier.Start()
	defer notifier.Stop()

	paymentService := services.NewPaymentService(db, chapa, notifier, cfg.AppBaseURL)

	r := router.SetupRouter(db, paymentService, notifier)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Review{},
		&models.Payment{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
