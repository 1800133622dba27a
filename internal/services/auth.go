package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/config"
	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/utils"
	"github.com/taskflowhq/taskflow/internal/views"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type AuthService struct {
	db          *gorm.DB
	ldapService *LDAPService
	jwtConfig   *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, ldapCfg *config.LDAPConfig) *AuthService {
	return &AuthService{
		db:          db,
		ldapService: NewLDAPService(ldapCfg),
		jwtConfig:   jwtCfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	AuthType string `json:"authType"` // local, ldap
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=6"`
	Name      string `json:"name"`
	Email     string `json:"email" binding:"omitempty,email"`
	CompanyID string `json:"companyId"`
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	User            views.User
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// Login authenticates a user and issues an access/refresh token pair.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user *models.User
	var err error

	if req.AuthType == "" {
		req.AuthType = "local"
	}

	switch req.AuthType {
	case "local":
		user, err = s.localAuth(req.Username, req.Password)
	case "ldap":
		user, err = s.ldapAuth(req.Username, req.Password)
	default:
		return nil, response.NewBadRequest("invalid auth type")
	}
	if err != nil {
		return nil, err
	}

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	accessHours := s.jwtConfig.ExpireHour
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, companyID, accessHours)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpireAt := time.Now().Add(time.Duration(s.jwtConfig.RefreshExpireHour) * time.Hour)
	refreshRecord := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   refreshHash,
		ExpiresAt:   refreshExpireAt,
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}
	if err := s.db.Create(&refreshRecord).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(user)

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: refreshExpireAt,
		User:            views.NewUser(*user),
	}, nil
}

// Register creates a local account with the default role.
func (s *AuthService) Register(req *RegisterRequest) (views.User, error) {
	var zero views.User

	var count int64
	s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return zero, response.NewConflict("username already taken")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return zero, err
	}

	user := models.User{
		Username: req.Username,
		Password: hashed,
		Role:     models.RoleUser,
		AuthType: "local",
		IsActive: true,
	}
	if req.Name != "" {
		user.Name = &req.Name
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.CompanyID != "" {
		var company models.Company
		if err := s.db.First(&company, "id = ?", req.CompanyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return zero, response.NewBadRequest("unknown company")
			}
			return zero, err
		}
		user.CompanyID = &req.CompanyID
		user.CompanyName = &company.Name
	}

	if err := s.db.Create(&user).Error; err != nil {
		return zero, err
	}
	return views.NewUser(user), nil
}

// Refresh rotates a refresh token: the old token is revoked and linked to its
// replacement, and a fresh access token is issued.
func (s *AuthService) Refresh(refreshToken, clientIP, userAgent string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, response.NewBadRequest("refresh token required")
	}

	hash := hashRefreshToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}

	if stored.RevokedAt != nil {
		return nil, response.NewUnauthorized("refresh token revoked")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, response.NewUnauthorized("refresh token expired")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, response.NewUnauthorized("user is disabled")
	}

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	accessHours := s.jwtConfig.ExpireHour
	newAccessToken, err := utils.GenerateToken(user.ID, user.Username, user.Role, companyID, accessHours)
	if err != nil {
		return nil, err
	}

	newRefreshToken, newRefreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newRefresh := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   newRefreshHash,
		ExpiresAt:   now.Add(time.Duration(s.jwtConfig.RefreshExpireHour) * time.Hour),
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRefresh).Error; err != nil {
			return err
		}
		return tx.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           now,
			"replaced_by_token_id": newRefresh.ID,
		}).Error
	}); err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:     newAccessToken,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: newRefresh.ExpiresAt,
	}, nil
}

// RevokeRefreshToken invalidates a refresh token on logout. Unknown tokens
// are ignored.
func (s *AuthService) RevokeRefreshToken(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hash := hashRefreshToken(refreshToken)
	now := time.Now()
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error
}

// PurgeExpiredTokens deletes refresh tokens past their expiry. Run from the
// maintenance scheduler.
func (s *AuthService) PurgeExpiredTokens() error {
	return s.db.Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{}).Error
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (s *AuthService) ChangePassword(userID string, req *ChangePasswordRequest) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return response.NewNotFound("user not found")
	}

	if user.AuthType != "local" {
		return response.NewBadRequest("LDAP users cannot change password here")
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return response.NewBadRequest("incorrect old password")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.db.Save(&user).Error
}

// CreateSuperadminIfNotExists seeds the default superadmin account on first
// start.
func (s *AuthService) CreateSuperadminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleSuperadmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("admin")
	if err != nil {
		return err
	}

	name := "Administrator"
	admin := models.User{
		Username: "admin",
		Password: hashed,
		Name:     &name,
		Role:     models.RoleSuperadmin,
		AuthType: "local",
		IsActive: true,
	}
	return s.db.Create(&admin).Error
}

func (s *AuthService) IsLDAPEnabled() bool {
	return s.ldapService.IsEnabled()
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(randomBytes)
	tokenHash = hashRefreshToken(token)
	return token, tokenHash, nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) localAuth(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ? AND auth_type = ?", username, "local").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid username or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, response.NewUnauthorized("user is disabled")
	}

	if !utils.CheckPassword(password, user.Password) {
		return nil, response.NewUnauthorized("invalid username or password")
	}

	return &user, nil
}

func (s *AuthService) ldapAuth(username, password string) (*models.User, error) {
	ldapUser, err := s.ldapService.Authenticate(username, password)
	if err != nil {
		return nil, response.NewUnauthorized(err.Error())
	}

	var user models.User
	err = s.db.Where("username = ? AND auth_type = ?", ldapUser.Username, "ldap").First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Username: ldapUser.Username,
			Role:     models.RoleUser,
			AuthType: "ldap",
			IsActive: true,
		}
		if ldapUser.Email != "" {
			user.Email = &ldapUser.Email
		}
		if ldapUser.Name != "" {
			user.Name = &ldapUser.Name
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, response.NewUnauthorized("user is disabled")
	}

	// Refresh display attributes from the directory
	if ldapUser.Email != "" {
		user.Email = &ldapUser.Email
	}
	if ldapUser.Name != "" {
		user.Name = &ldapUser.Name
	}
	s.db.Save(&user)

	return &user, nil
}
