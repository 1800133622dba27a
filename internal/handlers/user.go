package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
	}
}

// List returns the caller's visible accounts
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

// Get returns one account
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Update applies an administrative account update
// PATCH /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Delete removes an account
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "user deleted successfully"})
}

// UpdateProfile lets the caller edit their own display fields
// PATCH /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
