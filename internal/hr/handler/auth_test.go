package handler

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sistema-gth/internal/database"
	"sistema-gth/internal/database/models"
	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/utils"
)

func authTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedRoles(db))

	// The client is never dialed in these tests; logout short-circuits
	// before issuing a command.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	h := NewAuthHandler(store.New(db), rdb, 24*time.Hour)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, username, password string) {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Where("role_name = ?", models.RoleEditor).First(&role).Error)
	pwHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username:  username,
		Email:     username + "@test.local",
		Password:  string(pwHash),
		Firstname: "Test",
		Lastname:  "User",
		RoleID:    role.ID,
		IsActive:  true,
	}).Error)
}

func TestLoginStampsLastLogin(t *testing.T) {
	r, db := authTestRouter(t)
	seedUser(t, db, "editor", "secret123")

	w, resp := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"username": "editor",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	var user models.User
	require.NoError(t, db.Where("username = ?", "editor").First(&user).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	r, db := authTestRouter(t)
	seedUser(t, db, "editor", "secret123")

	w, resp := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"username": "editor",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, resp.Success)
}

func TestLogoutTokenWithoutExpiry(t *testing.T) {
	r, _ := authTestRouter(t)
	utils.SetSecret("handler-test-secret")

	// A valid signature with a jti but no exp claim must not panic the
	// denylist path; there is nothing to revoke with a TTL.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		UserId:   1,
		Username: "editor",
		Role:     models.RoleEditor,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:      "test-jti",
			Subject: "editor",
		},
	})
	signed, err := token.SignedString([]byte("handler-test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutRejectsGarbageToken(t *testing.T) {
	r, _ := authTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
