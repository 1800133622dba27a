package services

import (
	"context"
	"testing"
	"time"

	"github.com/taskflowhq/taskflow/internal/models"
)

func newDashboardService(t *testing.T) (*DashboardService, *TaskService) {
	t.Helper()
	db := setupTestDB(t)
	activity := newActivityService(db)
	return NewDashboardService(db, activity), NewTaskService(db, activity)
}

func TestDashboardStats_Counters(t *testing.T) {
	dash, tasks := newDashboardService(t)
	ctx := context.Background()
	sa := superadmin()

	past := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	mk := func(title, status, priority, due string) {
		t.Helper()
		_, err := tasks.Create(ctx, sa, &CreateTaskRequest{
			Title: title, Status: status, Priority: priority, DueDate: due,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	mk("open", models.TaskStatusTodo, models.TaskPriorityHigh, "")
	mk("busy", models.TaskStatusInProgress, models.TaskPriorityHigh, "")
	mk("late", models.TaskStatusTodo, models.TaskPriorityUrgent, past)
	mk("done late", models.TaskStatusCompleted, models.TaskPriorityLow, past)

	stats, err := dash.Stats(ctx, sa)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d", stats.TotalTasks)
	}
	if stats.ByStatus[models.TaskStatusTodo] != 2 {
		t.Errorf("ByStatus[todo] = %d", stats.ByStatus[models.TaskStatusTodo])
	}
	if stats.ByPriority[models.TaskPriorityHigh] != 2 {
		t.Errorf("ByPriority[high] = %d", stats.ByPriority[models.TaskPriorityHigh])
	}
	// A completed task past its due date is not overdue
	if stats.Overdue != 1 {
		t.Errorf("Overdue = %d, expected 1", stats.Overdue)
	}
}

func TestDashboardStats_CompanyScoped(t *testing.T) {
	dash, tasks := newDashboardService(t)
	ctx := context.Background()
	sa := superadmin()

	companyA := seedCompany(t, dash.db, "A Corp")
	companyB := seedCompany(t, dash.db, "B Corp")

	if _, err := tasks.Create(ctx, sa, &CreateTaskRequest{Title: "a1", CompanyID: companyA.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.Create(ctx, sa, &CreateTaskRequest{Title: "b1", CompanyID: companyB.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := tasks.Create(ctx, sa, &CreateTaskRequest{Title: "b2", CompanyID: companyB.ID}); err != nil {
		t.Fatal(err)
	}

	stats, err := dash.Stats(ctx, companyUser("u1", companyB.ID))
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalTasks != 2 {
		t.Errorf("scoped TotalTasks = %d, expected 2", stats.TotalTasks)
	}
	if stats.Companies != 1 {
		t.Errorf("scoped Companies = %d, expected 1", stats.Companies)
	}
}

func TestWorkdaysFrom_SkipsWeekend(t *testing.T) {
	dash, _ := newDashboardService(t)

	// Friday 2026-08-28; three workdays later lands on Wednesday
	friday := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	got := dash.workdaysFrom(friday, 3)

	if got.Weekday() != time.Wednesday {
		t.Errorf("three workdays after Friday = %s, expected Wednesday", got.Weekday())
	}
	if days := got.Sub(friday).Hours() / 24; days != 5 {
		t.Errorf("calendar span = %.0f days, expected 5", days)
	}
}
