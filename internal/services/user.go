package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/repository"
	"github.com/taskflowhq/taskflow/internal/views"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type UserService struct {
	db   *gorm.DB
	repo *repository.Repo[models.User, views.User]
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:   db,
		repo: repository.New(db, views.NewUser),
	}
}

type UpdateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Avatar    *string `json:"avatar"`
	Role      *string `json:"role"`
	CompanyID *string `json:"companyId"`
	IsActive  *bool   `json:"isActive"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
}

// List returns the accounts visible to the caller.
func (s *UserService) List(ctx context.Context, who Identity) ([]views.User, error) {
	return s.repo.List(ctx, who.scope()...)
}

func (s *UserService) Get(ctx context.Context, who Identity, id string) (views.User, error) {
	var zero views.User

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, response.NewNotFound("user not found")
		}
		return zero, err
	}
	if !who.canSee(user.CompanyID) {
		return zero, response.NewNotFound("user not found")
	}
	return user, nil
}

// Update applies an administrative account update. Assigning a company also
// refreshes the denormalized company name.
func (s *UserService) Update(ctx context.Context, who Identity, id string, req *UpdateUserRequest) (views.User, error) {
	var zero views.User

	if _, err := s.Get(ctx, who, id); err != nil {
		return zero, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = nullable(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = nullable(*req.Email)
	}
	if req.Avatar != nil {
		updates["avatar"] = nullable(*req.Avatar)
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return zero, response.NewBadRequest("invalid role")
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.CompanyID != nil {
		if *req.CompanyID == "" {
			updates["company_id"] = nil
			updates["company_name"] = nil
		} else {
			var company models.Company
			if err := s.db.WithContext(ctx).First(&company, "id = ?", *req.CompanyID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return zero, response.NewBadRequest("unknown company")
				}
				return zero, err
			}
			updates["company_id"] = company.ID
			updates["company_name"] = company.Name
		}
	}

	return s.repo.Update(ctx, id, updates)
}

// Delete removes an account. Callers cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, who Identity, id string) error {
	if id == who.UserID {
		return response.NewBadRequest("cannot delete your own account")
	}

	if _, err := s.Get(ctx, who, id); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, who Identity) (views.User, error) {
	user, err := s.repo.Get(ctx, who.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return views.User{}, response.NewNotFound("user not found")
		}
		return views.User{}, err
	}
	return user, nil
}

// UpdateProfile lets the caller edit their own display fields.
func (s *UserService) UpdateProfile(ctx context.Context, who Identity, req *UpdateProfileRequest) (views.User, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = nullable(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = nullable(*req.Email)
	}
	if req.Avatar != nil {
		updates["avatar"] = nullable(*req.Avatar)
	}

	user, err := s.repo.Update(ctx, who.UserID, updates)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return views.User{}, response.NewNotFound("user not found")
		}
		return views.User{}, err
	}
	return user, nil
}

func validRole(role string) bool {
	switch role {
	case models.RoleSuperadmin, models.RoleAdmin, models.RoleUser:
		return true
	}
	return false
}
