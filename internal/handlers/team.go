package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(db *gorm.DB, activity *services.ActivityService) *TeamHandler {
	return &TeamHandler{
		teamService: services.NewTeamService(db, activity),
	}
}

// List returns the caller's visible teams with members
// GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.List(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, teams)
}

// Get returns one team with members
// GET /api/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.teamService.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

// Create creates a team
// POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req services.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), identity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Update applies a partial team update
// PATCH /api/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	var req services.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, team)
}

// Delete removes a team and its membership rows
// DELETE /api/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teamService.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "team deleted successfully"})
}

// ListMembers returns a team's members
// GET /api/teams/:id/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.teamService.ListMembers(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// AddMember adds a person to a team
// POST /api/teams/:id/members
func (h *TeamHandler) AddMember(c *gin.Context) {
	var req services.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.teamService.AddMember(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// UpdateMember updates a membership row
// PUT /api/teams/:id/members/:memberId
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	var req services.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.teamService.UpdateMember(c.Request.Context(), identity(c), c.Param("id"), c.Param("memberId"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, member)
}

// RemoveMember removes a person from a team
// DELETE /api/teams/:id/members/:memberId
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	if err := h.teamService.RemoveMember(c.Request.Context(), identity(c), c.Param("id"), c.Param("memberId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "member removed successfully"})
}
