package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/collection"
	"github.com/taskflowhq/taskflow/internal/filter"
	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/repository"
	"github.com/taskflowhq/taskflow/internal/views"
	"github.com/taskflowhq/taskflow/pkg/response"
)

// taskFields wires the list criteria to the task view: free-text search spans
// title and description, the assignee filter matches the assignee id.
var taskFields = filter.Fields[views.Task]{
	Search: []func(views.Task) string{
		func(t views.Task) string { return t.Title },
		func(t views.Task) string { return t.Description },
	},
	Status:   func(t views.Task) string { return t.Status },
	Priority: func(t views.Task) string { return t.Priority },
	Assignee: func(t views.Task) string { return t.Assignee.ID },
}

func taskID(t views.Task) string { return t.ID }

type TaskService struct {
	db          *gorm.DB
	repo        *repository.Repo[models.Task, views.Task]
	todos       *repository.Repo[models.Todo, views.Todo]
	comments    *repository.Repo[models.Comment, views.Comment]
	attachments *repository.Repo[models.Attachment, views.Attachment]
	activity    *ActivityService
}

func NewTaskService(db *gorm.DB, activity *ActivityService) *TaskService {
	return &TaskService{
		db: db,
		repo: repository.New(db, func(rec models.Task) views.Task {
			return views.NewTask(rec, views.TaskRefs{})
		}),
		todos:       repository.New(db, views.NewTodo),
		comments:    repository.New(db, views.NewComment),
		attachments: repository.New(db, views.NewAttachment),
		activity:    activity,
	}
}

type TaskListRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Assignee string `form:"assignee"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	CompanyID   string `json:"companyId"`
	AssigneeID  string `json:"assigneeId"`
	ReporterID  string `json:"reporterId"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	AssigneeID  *string `json:"assigneeId"`
	ReporterID  *string `json:"reporterId"`
}

// List returns the caller's visible tasks after applying the list criteria.
// The criteria always run against the full fetched collection, so loosening a
// filter brings rows back without another fetch.
func (s *TaskService) List(ctx context.Context, who Identity, req *TaskListRequest) ([]views.Task, error) {
	ctrl := collection.New(taskID, taskFields)
	epoch := ctrl.Epoch()

	items, err := s.repo.List(ctx, who.scope()...)
	if err != nil {
		return nil, err
	}
	if err := s.resolveRefs(ctx, items); err != nil {
		return nil, err
	}

	if err := ctrl.Load(epoch, items); err != nil {
		return nil, err
	}
	ctrl.SetCriteria(filter.Criteria{
		Search:   req.Search,
		Status:   req.Status,
		Priority: req.Priority,
		Assignee: req.Assignee,
		UserID:   who.UserID,
	})
	return ctrl.Visible(), nil
}

// Get returns one task with its resolved references and child collections.
func (s *TaskService) Get(ctx context.Context, who Identity, id string) (views.Task, error) {
	var zero views.Task

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, response.NewNotFound("task not found")
		}
		return zero, err
	}
	if !who.canSee(task.CompanyID) {
		return zero, response.NewNotFound("task not found")
	}

	single := []views.Task{task}
	if err := s.resolveRefs(ctx, single); err != nil {
		return zero, err
	}
	task = single[0]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		task.Todos, err = s.todos.List(gctx, repository.ByTask(id))
		return err
	})
	g.Go(func() error {
		var err error
		task.Comments, err = s.comments.List(gctx, repository.ByTask(id))
		return err
	})
	g.Go(func() error {
		var err error
		task.Attachments, err = s.attachments.List(gctx, repository.ByTask(id))
		return err
	})
	if err := g.Wait(); err != nil {
		return zero, err
	}

	return task, nil
}

// Create creates a task. Status and priority default to "todo" and "medium";
// non-superadmins always create inside their own company.
func (s *TaskService) Create(ctx context.Context, who Identity, req *CreateTaskRequest) (views.Task, error) {
	var zero views.Task

	if req.Status == "" {
		req.Status = models.TaskStatusTodo
	}
	if req.Priority == "" {
		req.Priority = models.TaskPriorityMedium
	}
	if !validTaskStatus(req.Status) {
		return zero, response.NewBadRequest("invalid status")
	}
	if !validTaskPriority(req.Priority) {
		return zero, response.NewBadRequest("invalid priority")
	}

	rec := models.Task{
		Title:    req.Title,
		Status:   req.Status,
		Priority: req.Priority,
	}
	if req.Description != "" {
		rec.Description = &req.Description
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return zero, response.NewBadRequest("invalid due date")
		}
		rec.DueDate = &due
	}

	companyID := req.CompanyID
	if !who.IsSuperadmin() && who.CompanyID != "" {
		companyID = who.CompanyID
	}
	if companyID != "" {
		rec.CompanyID = &companyID
	}
	if req.AssigneeID != "" {
		rec.AssigneeID = &req.AssigneeID
	}
	reporterID := req.ReporterID
	if reporterID == "" {
		reporterID = who.UserID
	}
	if reporterID != "" {
		rec.ReporterID = &reporterID
	}

	task, err := s.repo.Create(ctx, &rec)
	if err != nil {
		return zero, err
	}

	single := []views.Task{task}
	if err := s.resolveRefs(ctx, single); err != nil {
		return zero, err
	}
	task = single[0]

	s.activity.Record(ctx, who, "task", task.ID, "created", summarize("created", "task", task.Title))
	return task, nil
}

// Update applies a partial task update. Nullable references are cleared by
// sending an explicit empty string.
func (s *TaskService) Update(ctx context.Context, who Identity, id string, req *UpdateTaskRequest) (views.Task, error) {
	var zero views.Task

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, response.NewNotFound("task not found")
		}
		return zero, err
	}
	if !who.canSee(current.CompanyID) {
		return zero, response.NewNotFound("task not found")
	}

	updates := make(map[string]interface{})
	if req.Title != nil && *req.Title != "" {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = nullable(*req.Description)
	}
	if req.Status != nil {
		if !validTaskStatus(*req.Status) {
			return zero, response.NewBadRequest("invalid status")
		}
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		if !validTaskPriority(*req.Priority) {
			return zero, response.NewBadRequest("invalid priority")
		}
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			updates["due_date"] = nil
		} else {
			due, err := time.Parse(time.RFC3339, *req.DueDate)
			if err != nil {
				return zero, response.NewBadRequest("invalid due date")
			}
			updates["due_date"] = due
		}
	}
	if req.AssigneeID != nil {
		updates["assignee_id"] = nullable(*req.AssigneeID)
	}
	if req.ReporterID != nil {
		updates["reporter_id"] = nullable(*req.ReporterID)
	}

	task, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return zero, err
	}

	single := []views.Task{task}
	if err := s.resolveRefs(ctx, single); err != nil {
		return zero, err
	}
	task = single[0]

	s.activity.Record(ctx, who, "task", task.ID, "updated", summarize("updated", "task", task.Title))
	return task, nil
}

// Delete removes a task and its child rows in one transaction.
func (s *TaskService) Delete(ctx context.Context, who Identity, id string) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NewNotFound("task not found")
		}
		return err
	}
	if !who.canSee(current.CompanyID) {
		return response.NewNotFound("task not found")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Todo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, who, "task", id, "deleted", summarize("deleted", "task", current.Title))
	return nil
}

// resolveRefs fills assignee and reporter display names in one batch query
// per reference table. Unresolved ids keep the "Unassigned"/"System"
// defaults from the mapping.
func (s *TaskService) resolveRefs(ctx context.Context, items []views.Task) error {
	assigneeIDs := make([]string, 0, len(items))
	reporterIDs := make([]string, 0, len(items))
	for _, t := range items {
		if t.Assignee.ID != "" {
			assigneeIDs = append(assigneeIDs, t.Assignee.ID)
		}
		if t.Reporter.ID != "" {
			reporterIDs = append(reporterIDs, t.Reporter.ID)
		}
	}

	assignees := make(map[string]views.PersonRef)
	if len(assigneeIDs) > 0 {
		var members []models.TeamMember
		if err := s.db.WithContext(ctx).Where("id IN ?", assigneeIDs).Find(&members).Error; err != nil {
			return err
		}
		for _, m := range members {
			ref := views.PersonRef{ID: m.ID, Name: m.Name}
			if m.Avatar != nil {
				ref.Avatar = *m.Avatar
			}
			assignees[m.ID] = ref
		}
	}

	reporters := make(map[string]views.PersonRef)
	if len(reporterIDs) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", reporterIDs).Find(&users).Error; err != nil {
			return err
		}
		for _, u := range users {
			ref := views.PersonRef{ID: u.ID, Name: u.Username}
			if u.Name != nil && *u.Name != "" {
				ref.Name = *u.Name
			}
			if u.Avatar != nil {
				ref.Avatar = *u.Avatar
			}
			reporters[u.ID] = ref
		}
	}

	for i := range items {
		if ref, ok := assignees[items[i].Assignee.ID]; ok {
			items[i].Assignee.Name = ref.Name
			items[i].Assignee.Avatar = ref.Avatar
		}
		if ref, ok := reporters[items[i].Reporter.ID]; ok {
			items[i].Reporter.Name = ref.Name
			items[i].Reporter.Avatar = ref.Avatar
		}
	}
	return nil
}

func validTaskStatus(s string) bool {
	switch s {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusCompleted, models.TaskStatusBlocked:
		return true
	}
	return false
}

func validTaskPriority(p string) bool {
	switch p {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh, models.TaskPriorityUrgent:
		return true
	}
	return false
}

// nullable maps an empty string to SQL NULL in an updates map.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
