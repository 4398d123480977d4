package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/services"
	"github.com/alxtravel/travel-app/utils"
)

type noopQueue struct{}

func (noopQueue) EnqueuePaymentConfirmation(*models.Payment) error       { return nil }
func (noopQueue) EnqueueBookingConfirmation(email, bookingRef string) error { return nil }

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Booking{},
		&models.Review{}, &models.Payment{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	gateway := services.NewChapaService(&services.ChapaConfig{SecretKey: "test-secret"})
	svc := services.NewPaymentService(db, gateway, noopQueue{}, "http://localhost:8080")
	return SetupRouter(db, svc, noopQueue{})
}

func get(router *gin.Engine, url, addr string) int {
	req, _ := http.NewRequest("GET", url, nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

// The global limiter must actually run on registered routes, not just be
// attached to the engine.
func TestSetupRouter_GlobalRateLimitEnforced(t *testing.T) {
	router := setupTestRouter(t)

	limited := false
	for i := 0; i < globalRateLimit+10; i++ {
		code := get(router, "/ping", "203.0.113.7:1234")
		if i < globalRateLimit {
			assert.Equal(t, http.StatusOK, code, "request %d within budget", i+1)
		} else if code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited, "requests beyond the budget must get 429")
}

func TestSetupRouter_LoginIsStrictlyLimited(t *testing.T) {
	router := setupTestRouter(t)

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		req, _ := http.NewRequest("POST", "/login", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.8:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// 5 attempts per minute: the burst fails validation, the 6th is cut off.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusBadRequest, codes[i], "attempt %d reaches the handler", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, codes[5])
}
