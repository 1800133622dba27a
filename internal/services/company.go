package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/repository"
	"github.com/taskflowhq/taskflow/internal/views"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type CompanyService struct {
	db       *gorm.DB
	repo     *repository.Repo[models.Company, views.Company]
	activity *ActivityService
}

func NewCompanyService(db *gorm.DB, activity *ActivityService) *CompanyService {
	return &CompanyService{
		db:       db,
		repo:     repository.New(db, views.NewCompany),
		activity: activity,
	}
}

type CreateCompanyRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	Status        string `json:"status"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	Website       string `json:"website"`
	Address       string `json:"address"`
	EmployeeCount int    `json:"employeeCount" binding:"min=0"`
	Logo          string `json:"logo"`
}

type UpdateCompanyRequest struct {
	Name          *string `json:"name"`
	Status        *string `json:"status"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Website       *string `json:"website"`
	Address       *string `json:"address"`
	EmployeeCount *int    `json:"employeeCount"`
	Logo          *string `json:"logo"`
}

// byID scopes a companies query to one row.
func byID(id string) repository.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

// List returns the companies visible to the caller: all of them for a
// superadmin, only their own otherwise.
func (s *CompanyService) List(ctx context.Context, who Identity) ([]views.Company, error) {
	if who.IsSuperadmin() || who.CompanyID == "" {
		return s.repo.List(ctx)
	}
	return s.repo.List(ctx, byID(who.CompanyID))
}

func (s *CompanyService) Get(ctx context.Context, who Identity, id string) (views.Company, error) {
	var zero views.Company

	company, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, response.NewNotFound("company not found")
		}
		return zero, err
	}
	if !who.canSee(company.ID) {
		return zero, response.NewNotFound("company not found")
	}
	return company, nil
}

func (s *CompanyService) Create(ctx context.Context, who Identity, req *CreateCompanyRequest) (views.Company, error) {
	var zero views.Company

	if req.Status == "" {
		req.Status = models.CompanyStatusActive
	}
	if !validCompanyStatus(req.Status) {
		return zero, response.NewBadRequest("invalid status")
	}

	rec := models.Company{
		Name:   req.Name,
		Status: req.Status,
	}
	if req.Email != "" {
		rec.Email = &req.Email
	}
	if req.Phone != "" {
		rec.Phone = &req.Phone
	}
	if req.Website != "" {
		rec.Website = &req.Website
	}
	if req.Address != "" {
		rec.Address = &req.Address
	}
	if req.Logo != "" {
		rec.Logo = &req.Logo
	}
	if req.EmployeeCount > 0 {
		rec.EmployeeCount = &req.EmployeeCount
	}

	company, err := s.repo.Create(ctx, &rec)
	if err != nil {
		return zero, err
	}

	s.activity.Record(ctx, who, "company", company.ID, "created", summarize("created", "company", company.Name))
	return company, nil
}

// Update applies a partial company update. A rename also refreshes the
// denormalized company name on every user of that company, in the same
// transaction.
func (s *CompanyService) Update(ctx context.Context, who Identity, id string, req *UpdateCompanyRequest) (views.Company, error) {
	var zero views.Company

	current, err := s.Get(ctx, who, id)
	if err != nil {
		return zero, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		if !validCompanyStatus(*req.Status) {
			return zero, response.NewBadRequest("invalid status")
		}
		updates["status"] = *req.Status
	}
	if req.Email != nil {
		updates["email"] = nullable(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = nullable(*req.Phone)
	}
	if req.Website != nil {
		updates["website"] = nullable(*req.Website)
	}
	if req.Address != nil {
		updates["address"] = nullable(*req.Address)
	}
	if req.Logo != nil {
		updates["logo"] = nullable(*req.Logo)
	}
	if req.EmployeeCount != nil {
		updates["employee_count"] = *req.EmployeeCount
	}

	renamed := req.Name != nil && *req.Name != "" && *req.Name != current.Name

	if len(updates) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Company{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
			if renamed {
				return tx.Model(&models.User{}).
					Where("company_id = ?", id).
					Update("company_name", *req.Name).Error
			}
			return nil
		})
		if err != nil {
			return zero, err
		}
	}

	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	s.activity.Record(ctx, who, "company", company.ID, "updated", summarize("updated", "company", company.Name))
	return company, nil
}

// Delete removes a company. Deletion is refused while teams, tasks or users
// still reference it.
func (s *CompanyService) Delete(ctx context.Context, who Identity, id string) error {
	current, err := s.Get(ctx, who, id)
	if err != nil {
		return err
	}

	type dependent struct {
		model interface{}
		label string
	}
	for _, dep := range []dependent{
		{&models.Team{}, "teams"},
		{&models.Task{}, "tasks"},
		{&models.User{}, "users"},
	} {
		var count int64
		if err := s.db.WithContext(ctx).Model(dep.model).Where("company_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return response.NewConflict(fmt.Sprintf("company still has %d %s", count, dep.label))
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NewNotFound("company not found")
		}
		return err
	}

	s.activity.Record(ctx, who, "company", id, "deleted", summarize("deleted", "company", current.Name))
	return nil
}

func validCompanyStatus(s string) bool {
	switch s {
	case models.CompanyStatusActive, models.CompanyStatusInactive, models.CompanyStatusSuspended:
		return true
	}
	return false
}
