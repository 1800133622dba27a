package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/config"
	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	ldapEnabled bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT, &cfg.LDAP),
		userService: services.NewUserService(db),
		ldapEnabled: cfg.LDAP.Enabled,
	}
}

type loginResponse struct {
	Token           string      `json:"token"`
	RefreshToken    string      `json:"refreshToken"`
	ExpireAt        time.Time   `json:"expireAt"`
	RefreshExpireAt time.Time   `json:"refreshExpireAt"`
	User            interface{} `json:"user"`
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, loginResponse{
		Token:           result.AccessToken,
		RefreshToken:    result.RefreshToken,
		ExpireAt:        result.AccessExpireAt,
		RefreshExpireAt: result.RefreshExpireAt,
		User:            result.User,
	})
}

// Register handles account signup
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Refresh rotates the refresh token and issues a new access token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":           result.AccessToken,
		"refreshToken":    result.RefreshToken,
		"expireAt":        result.AccessExpireAt,
		"refreshExpireAt": result.RefreshExpireAt,
	})
}

// Logout revokes the presented refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	// Body is optional; logging out without a refresh token is still fine
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.RevokeRefreshToken(req.RefreshToken); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "logged out successfully"})
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.userService.Profile(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// ChangePassword changes the caller's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(identity(c).UserID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "password changed successfully"})
}

// GetAuthConfig returns authentication configuration
// GET /api/auth/config
func (h *AuthHandler) GetAuthConfig(c *gin.Context) {
	response.Success(c, gin.H{
		"ldapEnabled": h.ldapEnabled,
	})
}

// CreateSuperadminIfNotExists seeds the default superadmin account
func (h *AuthHandler) CreateSuperadminIfNotExists() error {
	return h.authService.CreateSuperadminIfNotExists()
}
