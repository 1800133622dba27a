package services

import (
	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/repository"
)

// Identity is the authenticated caller, threaded explicitly from the auth
// middleware into every service call that scopes or attributes data.
type Identity struct {
	UserID    string
	Username  string
	Role      string
	CompanyID string
}

func (id Identity) IsSuperadmin() bool {
	return id.Role == models.RoleSuperadmin
}

// scope returns the listing scopes for the caller. Superadmins see every
// company; callers attached to a company only see that company's rows.
func (id Identity) scope() []repository.Scope {
	if id.IsSuperadmin() || id.CompanyID == "" {
		return nil
	}
	return []repository.Scope{repository.ByCompany(id.CompanyID)}
}

// canSee reports whether the caller may read a row belonging to companyID.
// An empty companyID means the row is unscoped and visible to everyone.
func (id Identity) canSee(companyID string) bool {
	if id.IsSuperadmin() || id.CompanyID == "" || companyID == "" {
		return true
	}
	return companyID == id.CompanyID
}
