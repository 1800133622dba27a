package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/utils"
)

const (
	ContextUserID    = "user_id"
	ContextUsername  = "username"
	ContextRole      = "role"
	ContextCompanyID = "company_id"
)

// AuthRequired is a middleware that checks for a valid JWT token
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		// Set user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextCompanyID, claims.CompanyID)

		c.Next()
	}
}

// AdminRequired is a middleware that checks for an admin or superadmin role
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role != models.RoleAdmin && role != models.RoleSuperadmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(string)
	}
	return ""
}

// GetUsername gets the current username from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}

// GetCompanyID gets the current user's company ID from context
func GetCompanyID(c *gin.Context) string {
	if companyID, exists := c.Get(ContextCompanyID); exists {
		return companyID.(string)
	}
	return ""
}
