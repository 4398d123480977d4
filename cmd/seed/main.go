package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/config"
	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

// Seeds the database with fake users, listings, bookings and reviews.
// Users created here get emails prefixed "seeder_" and only those are
// removed on --reset.
func main() {
	numUsers := flag.Int("users", 5, "number of users to create")
	numListings := flag.Int("listings", 10, "number of listings to create")
	numBookings := flag.Int("bookings", 20, "number of bookings to create")
	numReviews := flag.Int("reviews", 30, "number of reviews to create")
	reset := flag.Bool("reset", false, "delete seeded listings, bookings, reviews and seeder users")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{}, &models.Listing{}, &models.Booking{},
		&models.Review{}, &models.Payment{}, &models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if *reset {
		resetSeededData(db)
		return
	}

	users := seedUsers(db, *numUsers)
	listings := seedListings(db, users, *numListings)
	bookings := seedBookings(db, users, listings, *numBookings)
	seedReviews(db, users, listings, *numReviews)

	log.Printf("Created %d users, %d listings, %d bookings, and seeded reviews.",
		len(users), len(listings), len(bookings))
	log.Printf("Default password for seeder users is 'password123'.")
}

func resetSeededData(db *gorm.DB) {
	log.Println("Reset mode: deleting listings, bookings, reviews and seeder users...")
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Review{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Booking{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Listing{})
	db.Where("email LIKE ?", "seeder_%").Delete(&models.User{})
	log.Println("Reset complete.")
}

func seedUsers(db *gorm.DB, n int) []models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("seeder_user_%d@example.com", i+1)

		var user models.User
		err := db.Where("email = ?", email).First(&user).Error
		if err == gorm.ErrRecordNotFound {
			role := "guest"
			if i%2 == 0 {
				role = "host"
			}
			user = models.User{
				Name:     gofakeit.Name(),
				Email:    email,
				Password: string(hashed),
				Role:     role,
			}
			if err := db.Create(&user).Error; err != nil {
				log.Fatalf("failed to create user: %v", err)
			}
		}
		users = append(users, user)
	}
	return users
}

func seedListings(db *gorm.DB, users []models.User, n int) []models.Listing {
	hosts := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == "host" {
			hosts = append(hosts, u)
		}
	}
	if len(hosts) == 0 {
		hosts = users
	}

	listings := make([]models.Listing, 0, n)
	for i := 0; i < n; i++ {
		host := hosts[rand.Intn(len(hosts))]
		price := decimal.NewFromInt(int64(25 + rand.Intn(375))).
			Add(decimal.NewFromFloat([]float64{0.0, 0.5, 0.99}[rand.Intn(3)]))

		listing := models.Listing{
			HostID:        host.ID,
			Title:         fmt.Sprintf("%s %s Retreat", gofakeit.City(), capitalize(gofakeit.Word())),
			Description:   gofakeit.Paragraph(1, 3, 12, " "),
			Location:      fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
			PricePerNight: price.Round(2),
			MaxGuests:     1 + rand.Intn(8),
			IsActive:      true,
		}
		if err := db.Create(&listing).Error; err != nil {
			log.Fatalf("failed to create listing: %v", err)
		}
		listings = append(listings, listing)
	}
	return listings
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func seedBookings(db *gorm.DB, users []models.User, listings []models.Listing, n int) []models.Booking {
	today := time.Now().Truncate(24 * time.Hour)

	bookings := make([]models.Booking, 0, n)
	for i := 0; i < n; i++ {
		listing := listings[rand.Intn(len(listings))]
		guest := users[rand.Intn(len(users))]

		start := today.AddDate(0, 0, rand.Intn(90))
		nights := 1 + rand.Intn(10)
		end := start.AddDate(0, 0, nights)

		status := models.BookingStatusPending
		if rand.Intn(2) == 0 {
			status = models.BookingStatusConfirmed
		}

		booking := models.Booking{
			ListingID: listing.ID,
			GuestID:   guest.ID,
			Reference: fmt.Sprintf("BKSEED%04d", i+1),
			StartDate: start,
			EndDate:   end,
			Status:    status,
		}
		booking.ComputeTotals(listing.PricePerNight)

		if err := db.Create(&booking).Error; err != nil {
			log.Fatalf("failed to create booking: %v", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings
}

func seedReviews(db *gorm.DB, users []models.User, listings []models.Listing, n int) {
	for i := 0; i < n; i++ {
		listing := listings[rand.Intn(len(listings))]
		author := users[rand.Intn(len(users))]

		review := models.Review{
			ListingID: listing.ID,
			AuthorID:  author.ID,
			Rating:    1 + rand.Intn(5),
			Comment:   gofakeit.Sentence(12),
		}
		if err := db.Create(&review).Error; err != nil {
			log.Fatalf("failed to create review: %v", err)
		}
	}
}
