package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sistema-gth/internal/database/models"
	"sistema-gth/internal/gateway/middleware"
	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/utils"
)

type AuthHandler struct {
	store    *store.Store
	redis    *redis.Client
	tokenTTL time.Duration
}

func NewAuthHandler(s *store.Store, rdb *redis.Client, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		store:    s,
		redis:    rdb,
		tokenTTL: tokenTTL,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Firstname string `json:"firstname" binding:"required"`
	Lastname  string `json:"lastname" binding:"required"`
	RoleID    int32  `json:"role_id" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("username and password are required"))
		return
	}

	var user models.User
	err := h.store.DB().WithContext(c.Request.Context()).
		Preload("Role").
		Where("username = ? AND is_active = ?", req.Username, true).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, errorResponse("Invalid username or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid username or password"))
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.Role.RoleName, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error generating token"))
		return
	}

	now := time.Now()
	user.LastLogin = &now
	// The stamp is bookkeeping; a failed write must not fail the login.
	if err := h.store.DB().WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		log.Printf("Failed to stamp last_login for %s: %v", user.Username, err)
	}

	c.JSON(http.StatusOK, successResponse("Login successful", gin.H{
		"token":      token,
		"expires_at": exp,
		"user":       user,
	}))
}

func (h *AuthHandler) Register(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil || sess.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, errorResponse("Only ADMIN can register users"))
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid registration payload: "+err.Error()))
		return
	}

	ctx := c.Request.Context()
	var existing models.User
	err := h.store.DB().WithContext(ctx).
		Where("username = ? OR email = ?", req.Username, req.Email).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, errorResponse("Username or email already exists"))
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	var role models.Role
	if err := h.store.DB().WithContext(ctx).First(&role, req.RoleID).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid role specified"))
		return
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error hashing password"))
		return
	}

	newUser := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(pwHash),
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		RoleID:    role.ID,
		IsActive:  true,
	}
	if err := h.store.DB().WithContext(ctx).Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Error creating user"))
		return
	}
	newUser.Role = role

	c.JSON(http.StatusCreated, successResponse("User registered successfully", newUser))
}

// Logout denylists the presented token until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil || claims.ID == "" {
		c.JSON(http.StatusUnauthorized, errorResponse("invalid or expired token"))
		return
	}

	if h.redis != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			h.redis.Set(c.Request.Context(), middleware.DenylistKey(claims.ID), "1", ttl)
		}
	}

	c.JSON(http.StatusOK, successResponse("Logout successful", nil))
}
