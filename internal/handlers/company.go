package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(db *gorm.DB, activity *services.ActivityService) *CompanyHandler {
	return &CompanyHandler{
		companyService: services.NewCompanyService(db, activity),
	}
}

// List returns the caller's visible companies
// GET /api/companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyService.List(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, companies)
}

// Get returns one company
// GET /api/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companyService.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, company)
}

// Create creates a company
// POST /api/companies
func (h *CompanyHandler) Create(c *gin.Context) {
	var req services.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), identity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, company)
}

// Update applies a partial company update
// PATCH /api/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	var req services.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, company)
}

// Delete removes a company; refused while teams, tasks or users reference it
// DELETE /api/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.companyService.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "company deleted successfully"})
}
