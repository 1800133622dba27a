// Package handlers contains the HTTP layer: request binding, identity
// extraction, and mapping service results onto the response envelope.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/taskflowhq/taskflow/internal/middleware"
	"github.com/taskflowhq/taskflow/internal/services"
)

// identity assembles the caller's identity from the auth middleware context.
func identity(c *gin.Context) services.Identity {
	return services.Identity{
		UserID:    middleware.GetUserID(c),
		Username:  middleware.GetUsername(c),
		Role:      middleware.GetRole(c),
		CompanyID: middleware.GetCompanyID(c),
	}
}
