package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/controllers"
	"github.com/alxtravel/travel-app/middlewares"
	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

func setupUserRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	userCtrl := controllers.NewUserController(db)

	router := gin.New()
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)

	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/profile", userCtrl.GetProfile)

	admin := router.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	admin.GET("/users", userCtrl.GetAllUsers)

	return router
}

func TestRegisterLoginProfile(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupUserRouter(t, db)

	w := doJSON(router, "POST", "/register", "", map[string]interface{}{
		"name":     "Hana",
		"email":    "hana@example.com",
		"password": "secret123",
		"role":     "host",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	assert.NoError(t, db.Where("email = ?", "hana@example.com").First(&user).Error)
	assert.Equal(t, "host", user.Role)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	w = doJSON(router, "POST", "/login", "", map[string]interface{}{
		"email":    "hana@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "POST", "/login", "", map[string]interface{}{
		"email":    "hana@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	data := loginResp["data"].(map[string]interface{})
	token, ok := data["token"].(string)
	assert.True(t, ok)
	assert.Equal(t, "host", data["role"])

	w = doJSON(router, "GET", "/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var profileResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profileResp))
	profile := profileResp["data"].(map[string]interface{})
	assert.Equal(t, "hana@example.com", profile["email"])
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupUserRouter(t, db)

	w := doJSON(router, "POST", "/register", "", map[string]interface{}{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "secret123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "admin cannot be self-assigned")

	w = doJSON(router, "POST", "/register", "", map[string]interface{}{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	assert.NoError(t, db.Where("email = ?", "eve@example.com").First(&user).Error)
	assert.Equal(t, "guest", user.Role, "role defaults to guest")
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupUserRouter(t, db)

	payload := map[string]interface{}{
		"name":     "Sara",
		"email":    "sara@example.com",
		"password": "secret123",
	}
	w := doJSON(router, "POST", "/register", "", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "email is already registered", resp["message"])

	var count int64
	db.Model(&models.User{}).Where("email = ?", "sara@example.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetAllUsers_AdminOnly(t *testing.T) {
	db := setupControllerTestDB(t)
	router := setupUserRouter(t, db)
	_, guestTok := seedGuest(t, db)

	w := doJSON(router, "GET", "/admin/users", guestTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateToken(42, "admin")
	assert.NoError(t, err)
	w = doJSON(router, "GET", "/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
