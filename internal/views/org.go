package views

import "github.com/taskflowhq/taskflow/internal/models"

type Company struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Logo          string `json:"logo,omitempty"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Website       string `json:"website,omitempty"`
	CreatedAt     string `json:"createdAt"`
	EmployeeCount int    `json:"employeeCount"`
	Status        string `json:"status"`
}

type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Members     []TeamMember `json:"members"`
	CompanyID   string       `json:"companyId"`
	CompanyName string       `json:"companyName"`
	CreatedAt   string       `json:"createdAt"`
}

type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role"`
	CompanyID   string `json:"companyId,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	AuthType    string `json:"authType"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
}

// NewCompany maps a company wire record to its view model.
func NewCompany(rec models.Company) Company {
	count := 0
	if rec.EmployeeCount != nil {
		count = *rec.EmployeeCount
	}
	return Company{
		ID:            rec.ID,
		Name:          rec.Name,
		Logo:          strOrEmpty(rec.Logo),
		Address:       strOrEmpty(rec.Address),
		Phone:         strOrEmpty(rec.Phone),
		Email:         strOrEmpty(rec.Email),
		Website:       strOrEmpty(rec.Website),
		CreatedAt:     isoTime(rec.CreatedAt),
		EmployeeCount: count,
		Status:        rec.Status,
	}
}

// CompanyRecord maps a company view back to its writable wire fields.
func CompanyRecord(v Company) models.Company {
	count := v.EmployeeCount
	return models.Company{
		ID:            v.ID,
		Name:          v.Name,
		Status:        v.Status,
		Logo:          ptrOrNil(v.Logo),
		Address:       ptrOrNil(v.Address),
		Phone:         ptrOrNil(v.Phone),
		Email:         ptrOrNil(v.Email),
		Website:       ptrOrNil(v.Website),
		EmployeeCount: &count,
	}
}

// NewTeam maps a team wire record to its view model. The company name is
// joined on read; members come from the per-team fan-out fetch.
func NewTeam(rec models.Team, companyName string, members []TeamMember) Team {
	if members == nil {
		members = []TeamMember{}
	}
	return Team{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: strOrEmpty(rec.Description),
		Members:     members,
		CompanyID:   strOrEmpty(rec.CompanyID),
		CompanyName: companyName,
		CreatedAt:   isoTime(rec.CreatedAt),
	}
}

// TeamRecord maps a team view back to its writable wire fields. The company
// name is derived on read only and never written.
func TeamRecord(v Team) models.Team {
	return models.Team{
		ID:          v.ID,
		Name:        v.Name,
		Description: ptrOrNil(v.Description),
		CompanyID:   ptrOrNil(v.CompanyID),
	}
}

// NewTeamMember maps a membership wire record to its view model.
func NewTeamMember(rec models.TeamMember) TeamMember {
	return TeamMember{
		ID:     rec.ID,
		Name:   rec.Name,
		Role:   strOrEmpty(rec.Role),
		Email:  strOrEmpty(rec.Email),
		Avatar: strOrEmpty(rec.Avatar),
	}
}

// TeamMemberRecord maps a membership view back to its writable wire fields.
func TeamMemberRecord(v TeamMember, teamID, userID string) models.TeamMember {
	return models.TeamMember{
		ID:     v.ID,
		Name:   v.Name,
		Role:   ptrOrNil(v.Role),
		Email:  ptrOrNil(v.Email),
		Avatar: ptrOrNil(v.Avatar),
		TeamID: teamID,
		UserID: userID,
	}
}

// NewUser maps a user wire record to its view model.
func NewUser(rec models.User) User {
	return User{
		ID:          rec.ID,
		Username:    rec.Username,
		Name:        strOrEmpty(rec.Name),
		Email:       strOrEmpty(rec.Email),
		Avatar:      strOrEmpty(rec.Avatar),
		Role:        rec.Role,
		CompanyID:   strOrEmpty(rec.CompanyID),
		CompanyName: strOrEmpty(rec.CompanyName),
		AuthType:    rec.AuthType,
		IsActive:    rec.IsActive,
		CreatedAt:   isoTime(rec.CreatedAt),
	}
}
