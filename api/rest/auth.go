package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yunae/gamedash/cache"
	"github.com/yunae/gamedash/config"
	mw "github.com/yunae/gamedash/middleware"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues and revokes the single admin session.
type AuthHandler struct {
	cache cache.Cache
	sec   config.SecurityConfig
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(c cache.Cache, sec config.SecurityConfig) *AuthHandler {
	return &AuthHandler{cache: c, sec: sec}
}

type loginRequest struct {
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// Login handles POST /api/auth/login.
// The dashboard has one admin credential, verified against the bcrypt hash
// from config; a successful login yields a JWT backed by a cache session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.sec.AdminPasswordHash == "" {
		c.JSON(http.StatusServiceUnavailable,
			gin.H{"error": "login disabled: set security.admin_password_hash in config"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.sec.AdminPasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := mw.GenerateToken(h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Set(ctx, "session:"+token, "admin", h.sec.JWTTTLH)

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" || tokenStr == header {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+tokenStr)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
