package views

import (
	"testing"

	"github.com/taskflowhq/taskflow/internal/models"
)

func TestNewCompany_Defaults(t *testing.T) {
	v := NewCompany(models.Company{ID: "c-1", Name: "Acme", Status: "active"})

	if v.EmployeeCount != 0 {
		t.Errorf("EmployeeCount = %d, expected 0", v.EmployeeCount)
	}
	if v.Email != "" || v.Phone != "" || v.Website != "" || v.Address != "" || v.Logo != "" {
		t.Error("optional fields should default to empty strings")
	}
}

func TestCompanyRoundTrip(t *testing.T) {
	v := Company{
		ID:            "c-2",
		Name:          "Globex",
		Logo:          "https://cdn/globex.png",
		Address:       "1 Main St",
		Phone:         "+1 555 0100",
		Email:         "hello@globex.test",
		Website:       "https://globex.test",
		EmployeeCount: 42,
		Status:        "suspended",
	}
	got := NewCompany(CompanyRecord(v))

	if got.ID != v.ID || got.Name != v.Name || got.Status != v.Status {
		t.Errorf("round trip mismatch: got %+v, expected %+v", got, v)
	}
	if got.EmployeeCount != v.EmployeeCount {
		t.Errorf("EmployeeCount = %d, expected %d", got.EmployeeCount, v.EmployeeCount)
	}
	if got.Logo != v.Logo || got.Address != v.Address || got.Phone != v.Phone ||
		got.Email != v.Email || got.Website != v.Website {
		t.Errorf("optional fields mismatch: got %+v, expected %+v", got, v)
	}
}

func TestNewTeam_JoinedFields(t *testing.T) {
	rec := models.Team{ID: "tm-1", Name: "Platform", CompanyID: strPtr("c-1")}
	members := []TeamMember{{ID: "m-1", Name: "Dana", Role: "lead"}}

	v := NewTeam(rec, "Acme", members)

	if v.CompanyName != "Acme" {
		t.Errorf("CompanyName = %q, expected Acme", v.CompanyName)
	}
	if len(v.Members) != 1 || v.Members[0].Name != "Dana" {
		t.Errorf("Members = %+v", v.Members)
	}
}

func TestNewTeam_NilMembers(t *testing.T) {
	v := NewTeam(models.Team{ID: "tm-2", Name: "QA"}, "", nil)
	if v.Members == nil {
		t.Error("nil members should map to empty slice")
	}
	if len(v.Members) != 0 {
		t.Errorf("Members length = %d, expected 0", len(v.Members))
	}
}

func TestTeamRecord_NeverWritesCompanyName(t *testing.T) {
	// The wire record has no company_name column at all; this pins the
	// allowlist: only name, description and company_id survive a write.
	rec := TeamRecord(Team{
		ID:          "tm-3",
		Name:        "Design",
		Description: "brand work",
		CompanyID:   "c-1",
		CompanyName: "Acme (stale)",
	})

	if rec.Name != "Design" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Description == nil || *rec.Description != "brand work" {
		t.Error("Description should be preserved")
	}
	if rec.CompanyID == nil || *rec.CompanyID != "c-1" {
		t.Error("CompanyID should be preserved")
	}
}

func TestTeamMemberRoundTrip(t *testing.T) {
	v := TeamMember{ID: "m-2", Name: "Sam", Role: "engineer", Email: "sam@acme.test"}
	got := NewTeamMember(TeamMemberRecord(v, "tm-1", "u-9"))

	if got != v {
		t.Errorf("round trip mismatch: got %+v, expected %+v", got, v)
	}
}

func TestNewUser(t *testing.T) {
	rec := models.User{
		ID:          "u-1",
		Username:    "riley",
		Name:        strPtr("Riley"),
		Email:       strPtr("riley@acme.test"),
		Role:        "admin",
		CompanyID:   strPtr("c-1"),
		CompanyName: strPtr("Acme"),
		AuthType:    "local",
		IsActive:    true,
	}

	v := NewUser(rec)

	if v.Username != "riley" || v.Name != "Riley" || v.Role != "admin" {
		t.Errorf("unexpected view: %+v", v)
	}
	if v.CompanyID != "c-1" || v.CompanyName != "Acme" {
		t.Errorf("company fields = %q/%q", v.CompanyID, v.CompanyName)
	}
}
