package services

import (
	"context"
	"errors"
	"testing"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/pkg/response"
)

func newTaskService(t *testing.T) (*TaskService, *TeamService) {
	t.Helper()
	db := setupTestDB(t)
	activity := newActivityService(db)
	return NewTaskService(db, activity), NewTeamService(db, activity)
}

func TestCreateTask_Defaults(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, superadmin(), &CreateTaskRequest{Title: "Ship it"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.Status != models.TaskStatusTodo {
		t.Errorf("Status = %q, expected todo", task.Status)
	}
	if task.Priority != models.TaskPriorityMedium {
		t.Errorf("Priority = %q, expected medium", task.Priority)
	}
	if task.Assignee.Name != "Unassigned" {
		t.Errorf("Assignee.Name = %q, expected Unassigned", task.Assignee.Name)
	}
	if task.DueDate == "" {
		t.Error("missing due date should default, not render empty")
	}
	if task.Todos == nil || task.Comments == nil || task.Attachments == nil {
		t.Error("child collections should be empty, never nil")
	}
}

func TestCreateTask_InvalidStatus(t *testing.T) {
	svc, _ := newTaskService(t)

	_, err := svc.Create(context.Background(), superadmin(), &CreateTaskRequest{Title: "x", Status: "bogus"})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 400 {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestListTasks_FilterAndScope(t *testing.T) {
	svc, _ := newTaskService(t)
	db := svc.db
	ctx := context.Background()

	companyA := seedCompany(t, db, "A Corp")
	companyB := seedCompany(t, db, "B Corp")

	sa := superadmin()
	mk := func(title, status, priority, companyID string) {
		t.Helper()
		_, err := svc.Create(ctx, sa, &CreateTaskRequest{
			Title: title, Status: status, Priority: priority, CompanyID: companyID,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	mk("Fix login", models.TaskStatusTodo, models.TaskPriorityHigh, companyA.ID)
	mk("Write docs", models.TaskStatusCompleted, models.TaskPriorityLow, companyA.ID)
	mk("Other work", models.TaskStatusTodo, models.TaskPriorityHigh, companyB.ID)

	// Superadmin sees everything
	all, err := svc.List(ctx, sa, &TaskListRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("superadmin list = %d tasks, expected 3", len(all))
	}

	// Company user only sees their company's tasks
	scoped, err := svc.List(ctx, companyUser("u1", companyA.ID), &TaskListRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 2 {
		t.Errorf("scoped list = %d tasks, expected 2", len(scoped))
	}

	// Status filter narrows within the visible set
	todos, err := svc.List(ctx, companyUser("u1", companyA.ID), &TaskListRequest{Status: models.TaskStatusTodo})
	if err != nil {
		t.Fatal(err)
	}
	if len(todos) != 1 || todos[0].Title != "Fix login" {
		t.Errorf("status filter returned %v", todos)
	}

	// Search matches the title case-insensitively
	found, err := svc.List(ctx, sa, &TaskListRequest{Search: "DOCS"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Title != "Write docs" {
		t.Errorf("search returned %v", found)
	}
}

func TestListTasks_AssigneeResolution(t *testing.T) {
	taskSvc, teamSvc := newTaskService(t)
	ctx := context.Background()
	sa := superadmin()

	team, err := teamSvc.Create(ctx, sa, &CreateTeamRequest{Name: "Core"})
	if err != nil {
		t.Fatal(err)
	}
	member, err := teamSvc.AddMember(ctx, sa, team.ID, &MemberRequest{Name: "Grace Hopper"})
	if err != nil {
		t.Fatal(err)
	}

	task, err := taskSvc.Create(ctx, sa, &CreateTaskRequest{Title: "Assigned", AssigneeID: member.ID})
	if err != nil {
		t.Fatal(err)
	}
	if task.Assignee.Name != "Grace Hopper" {
		t.Errorf("Assignee.Name = %q, expected resolved member name", task.Assignee.Name)
	}

	// "unassigned" filter excludes it
	got, err := taskSvc.List(ctx, sa, &TaskListRequest{Assignee: "unassigned"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("unassigned filter returned %d tasks, expected 0", len(got))
	}
}

func TestUpdateTask_PartialAndClear(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	sa := superadmin()

	task, err := svc.Create(ctx, sa, &CreateTaskRequest{
		Title:       "Before",
		Description: "has description",
		DueDate:     "2026-09-01T12:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}

	status := models.TaskStatusInProgress
	updated, err := svc.Update(ctx, sa, task.ID, &UpdateTaskRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != models.TaskStatusInProgress {
		t.Errorf("Status = %q", updated.Status)
	}
	if updated.Title != "Before" {
		t.Errorf("untouched Title changed: %q", updated.Title)
	}
	if updated.Description != "has description" {
		t.Errorf("untouched Description changed: %q", updated.Description)
	}

	// Explicit empty string clears the nullable due date; the view then
	// falls back to its default instead of rendering empty.
	empty := ""
	cleared, err := svc.Update(ctx, sa, task.ID, &UpdateTaskRequest{DueDate: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if cleared.DueDate == "" {
		t.Error("cleared due date should render the default, not empty")
	}

	var rec models.Task
	if err := svc.db.First(&rec, "id = ?", task.ID).Error; err != nil {
		t.Fatal(err)
	}
	if rec.DueDate != nil {
		t.Error("due_date should be NULL after clearing")
	}
}

func TestUpdateTask_NotVisible(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	companyA := seedCompany(t, svc.db, "A Corp")
	companyB := seedCompany(t, svc.db, "B Corp")

	task, err := svc.Create(ctx, superadmin(), &CreateTaskRequest{Title: "Private", CompanyID: companyA.ID})
	if err != nil {
		t.Fatal(err)
	}

	title := "Hijacked"
	_, err = svc.Update(ctx, companyUser("u9", companyB.ID), task.ID, &UpdateTaskRequest{Title: &title})
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 404 {
		t.Errorf("cross-company update: expected 404, got %v", err)
	}
}

func TestDeleteTask_CascadesChildren(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	sa := superadmin()

	task, err := svc.Create(ctx, sa, &CreateTaskRequest{Title: "Parent"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddTodo(ctx, sa, task.ID, &AddTodoRequest{Content: "child"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddComment(ctx, sa, task.ID, &AddCommentRequest{Content: "note"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, sa, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var todoCount, commentCount int64
	svc.db.Model(&models.Todo{}).Where("task_id = ?", task.ID).Count(&todoCount)
	svc.db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&commentCount)
	if todoCount != 0 || commentCount != 0 {
		t.Errorf("children survived delete: %d todos, %d comments", todoCount, commentCount)
	}
}

func TestTodoLifecycle(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	sa := superadmin()

	task, err := svc.Create(ctx, sa, &CreateTaskRequest{Title: "With todos"})
	if err != nil {
		t.Fatal(err)
	}

	todo, err := svc.AddTodo(ctx, sa, task.ID, &AddTodoRequest{Content: "step one"})
	if err != nil {
		t.Fatalf("AddTodo() error = %v", err)
	}
	if todo.Completed {
		t.Error("new todo should start incomplete")
	}

	toggled, err := svc.ToggleTodo(ctx, sa, task.ID, todo.ID)
	if err != nil {
		t.Fatalf("ToggleTodo() error = %v", err)
	}
	if !toggled.Completed {
		t.Error("toggle should complete the todo")
	}

	back, err := svc.ToggleTodo(ctx, sa, task.ID, todo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if back.Completed {
		t.Error("second toggle should revert to incomplete")
	}

	if err := svc.DeleteTodo(ctx, sa, task.ID, todo.ID); err != nil {
		t.Fatalf("DeleteTodo() error = %v", err)
	}

	full, err := svc.Get(ctx, sa, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(full.Todos) != 0 {
		t.Errorf("todos remaining after delete: %d", len(full.Todos))
	}
}

func TestToggleTodo_WrongParent(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	sa := superadmin()

	taskA, _ := svc.Create(ctx, sa, &CreateTaskRequest{Title: "A"})
	taskB, _ := svc.Create(ctx, sa, &CreateTaskRequest{Title: "B"})
	todo, err := svc.AddTodo(ctx, sa, taskA.ID, &AddTodoRequest{Content: "of A"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ToggleTodo(ctx, sa, taskB.ID, todo.ID); err == nil {
		t.Error("toggling a todo through the wrong parent task should fail")
	}
}

func TestAddComment_CapturesAuthorSnapshot(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	name := "Henry"
	author := models.User{Username: "henry", Name: &name, Role: models.RoleUser, AuthType: "local", IsActive: true}
	if err := svc.db.Create(&author).Error; err != nil {
		t.Fatal(err)
	}
	who := Identity{UserID: author.ID, Username: "henry", Role: models.RoleUser}

	task, err := svc.Create(ctx, superadmin(), &CreateTaskRequest{Title: "Discussed"})
	if err != nil {
		t.Fatal(err)
	}

	comment, err := svc.AddComment(ctx, who, task.ID, &AddCommentRequest{Content: "looks good"})
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.User.Name != "Henry" {
		t.Errorf("comment author = %q, expected display name snapshot", comment.User.Name)
	}
	if comment.User.ID != author.ID {
		t.Errorf("comment author id = %q", comment.User.ID)
	}
}

func TestAttachmentLifecycle(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()
	sa := superadmin()

	task, err := svc.Create(ctx, sa, &CreateTaskRequest{Title: "With files"})
	if err != nil {
		t.Fatal(err)
	}

	attachment, err := svc.AddAttachment(ctx, sa, task.ID, &AddAttachmentRequest{
		Name: "spec.pdf", URL: "https://files.example.com/spec.pdf", Type: "application/pdf", Size: 1024,
	})
	if err != nil {
		t.Fatalf("AddAttachment() error = %v", err)
	}
	if attachment.UploadedBy.Name != "root" {
		t.Errorf("UploadedBy.Name = %q", attachment.UploadedBy.Name)
	}

	if err := svc.DeleteAttachment(ctx, sa, task.ID, attachment.ID); err != nil {
		t.Fatalf("DeleteAttachment() error = %v", err)
	}
}
