package services

import (
	"context"
	"errors"

	"github.com/taskflowhq/taskflow/internal/models"
	"github.com/taskflowhq/taskflow/internal/repository"
	"github.com/taskflowhq/taskflow/internal/views"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type AddTodoRequest struct {
	Content string `json:"content" binding:"required"`
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type AddAttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"required"`
	Size int64  `json:"size" binding:"min=0"`
}

// parentTask loads and authorizes the parent task for a child mutation.
func (s *TaskService) parentTask(ctx context.Context, who Identity, taskID string) (views.Task, error) {
	task, err := s.repo.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return views.Task{}, response.NewNotFound("task not found")
		}
		return views.Task{}, err
	}
	if !who.canSee(task.CompanyID) {
		return views.Task{}, response.NewNotFound("task not found")
	}
	return task, nil
}

// AddTodo appends a checklist item to a task.
func (s *TaskService) AddTodo(ctx context.Context, who Identity, taskID string, req *AddTodoRequest) (views.Todo, error) {
	var zero views.Todo

	if _, err := s.parentTask(ctx, who, taskID); err != nil {
		return zero, err
	}

	completed := false
	rec := models.Todo{
		Content:   req.Content,
		Completed: &completed,
		TaskID:    &taskID,
	}
	return s.todos.Create(ctx, &rec)
}

// ToggleTodo flips a checklist item's completed flag.
func (s *TaskService) ToggleTodo(ctx context.Context, who Identity, taskID, todoID string) (views.Todo, error) {
	var zero views.Todo

	if _, err := s.parentTask(ctx, who, taskID); err != nil {
		return zero, err
	}

	todo, err := s.todos.Get(ctx, todoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, response.NewNotFound("todo not found")
		}
		return zero, err
	}
	if todo.TaskID != taskID {
		return zero, response.NewNotFound("todo not found")
	}

	return s.todos.Update(ctx, todoID, map[string]interface{}{
		"completed": !todo.Completed,
	})
}

// DeleteTodo removes a checklist item.
func (s *TaskService) DeleteTodo(ctx context.Context, who Identity, taskID, todoID string) error {
	if _, err := s.parentTask(ctx, who, taskID); err != nil {
		return err
	}

	todo, err := s.todos.Get(ctx, todoID)
	if err != nil || todo.TaskID != taskID {
		return response.NewNotFound("todo not found")
	}

	return s.todos.Delete(ctx, todoID)
}

// AddComment posts a comment on a task. Comments are immutable, so the
// author's display name and avatar are captured at post time.
func (s *TaskService) AddComment(ctx context.Context, who Identity, taskID string, req *AddCommentRequest) (views.Comment, error) {
	var zero views.Comment

	if _, err := s.parentTask(ctx, who, taskID); err != nil {
		return zero, err
	}

	rec := models.Comment{
		Content:  req.Content,
		TaskID:   &taskID,
		UserID:   &who.UserID,
		UserName: who.Username,
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", who.UserID).Error; err == nil {
		if author.Name != nil && *author.Name != "" {
			rec.UserName = *author.Name
		}
		rec.UserAvatar = author.Avatar
	}

	comment, err := s.comments.Create(ctx, &rec)
	if err != nil {
		return zero, err
	}

	task, _ := s.repo.Get(ctx, taskID)
	s.activity.Record(ctx, who, "task", taskID, "commented", summarize("commented on", "task", task.Title))
	return comment, nil
}

// AddAttachment records an uploaded file reference on a task.
func (s *TaskService) AddAttachment(ctx context.Context, who Identity, taskID string, req *AddAttachmentRequest) (views.Attachment, error) {
	var zero views.Attachment

	if _, err := s.parentTask(ctx, who, taskID); err != nil {
		return zero, err
	}

	rec := models.Attachment{
		Name:           req.Name,
		URL:            req.URL,
		Type:           req.Type,
		Size:           req.Size,
		TaskID:         &taskID,
		UploadedByID:   &who.UserID,
		UploadedByName: who.Username,
	}
	return s.attachments.Create(ctx, &rec)
}

// DeleteAttachment removes an attachment reference from a task.
func (s *TaskService) DeleteAttachment(ctx context.Context, who Identity, taskID, attachmentID string) error {
	if _, err := s.parentTask(ctx, who, taskID); err != nil {
		return err
	}

	attachment, err := s.attachments.Get(ctx, attachmentID)
	if err != nil || attachment.TaskID != taskID {
		return response.NewNotFound("attachment not found")
	}

	return s.attachments.Delete(ctx, attachmentID)
}
