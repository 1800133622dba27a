package services

import (
	"context"
	"errors"
	"testing"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/pkg/response"
)

func newCompanyService(t *testing.T) *CompanyService {
	t.Helper()
	db := setupTestDB(t)
	return NewCompanyService(db, newActivityService(db))
}

func TestCompanyCRUD(t *testing.T) {
	svc := newCompanyService(t)
	ctx := context.Background()
	sa := superadmin()

	company, err := svc.Create(ctx, sa, &CreateCompanyRequest{
		Name:  "Acme",
		Email: "hello@acme.test",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if company.Status != models.CompanyStatusActive {
		t.Errorf("Status = %q, expected active default", company.Status)
	}

	phone := "+1 555 0100"
	updated, err := svc.Update(ctx, sa, company.ID, &UpdateCompanyRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Phone != phone {
		t.Errorf("Phone = %q", updated.Phone)
	}
	if updated.Email != "hello@acme.test" {
		t.Errorf("untouched Email changed: %q", updated.Email)
	}

	if err := svc.Delete(ctx, sa, company.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, sa, company.ID); err == nil {
		t.Error("Get after delete should fail")
	}
}

func TestCompanyList_Scoped(t *testing.T) {
	svc := newCompanyService(t)
	ctx := context.Background()

	companyA := seedCompany(t, svc.db, "A Corp")
	seedCompany(t, svc.db, "B Corp")

	all, err := svc.List(ctx, superadmin())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("superadmin list = %d, expected 2", len(all))
	}

	own, err := svc.List(ctx, companyUser("u1", companyA.ID))
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || own[0].ID != companyA.ID {
		t.Errorf("company user should only see their own company, got %v", own)
	}
}

func TestCompanyDelete_RefusedWhileReferenced(t *testing.T) {
	svc := newCompanyService(t)
	ctx := context.Background()
	sa := superadmin()

	company := seedCompany(t, svc.db, "Busy Corp")
	seedUser(t, svc.db, "worker", company.ID)

	err := svc.Delete(ctx, sa, company.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 409 {
		t.Fatalf("expected 409 conflict, got %v", err)
	}

	// Detach the user, then deletion goes through
	if err := svc.db.Model(&models.User{}).Where("company_id = ?", company.ID).
		Updates(map[string]interface{}{"company_id": nil, "company_name": nil}).Error; err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, sa, company.ID); err != nil {
		t.Fatalf("Delete() after detach error = %v", err)
	}
}

func TestCompanyRename_ResyncsUsers(t *testing.T) {
	svc := newCompanyService(t)
	ctx := context.Background()
	sa := superadmin()

	company := seedCompany(t, svc.db, "Old Name")
	user := seedUser(t, svc.db, "renamed", company.ID)
	if err := svc.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("company_name", "Old Name").Error; err != nil {
		t.Fatal(err)
	}

	newName := "New Name"
	if _, err := svc.Update(ctx, sa, company.ID, &UpdateCompanyRequest{Name: &newName}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var refreshed models.User
	if err := svc.db.First(&refreshed, "id = ?", user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if refreshed.CompanyName == nil || *refreshed.CompanyName != "New Name" {
		t.Errorf("user company_name = %v, expected New Name", refreshed.CompanyName)
	}
}

func TestCompanyUpdate_InvalidStatus(t *testing.T) {
	svc := newCompanyService(t)
	ctx := context.Background()

	company := seedCompany(t, svc.db, "Statused")
	bogus := "bogus"
	_, err := svc.Update(ctx, superadmin(), company.ID, &UpdateCompanyRequest{Status: &bogus})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 400 {
		t.Errorf("expected 400, got %v", err)
	}
}
