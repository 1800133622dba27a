package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(db *gorm.DB, activity *services.ActivityService) *TaskHandler {
	return &TaskHandler{
		taskService: services.NewTaskService(db, activity),
	}
}

// List returns the caller's visible tasks, filtered by the query criteria
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var req services.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), identity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

// Get returns one task with its todos, comments and attachments
// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.taskService.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// Create creates a task
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), identity(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update applies a partial task update
// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

// Delete removes a task and its child rows
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "task deleted successfully"})
}

// AddTodo appends a checklist item
// POST /api/tasks/:id/todos
func (h *TaskHandler) AddTodo(c *gin.Context) {
	var req services.AddTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	todo, err := h.taskService.AddTodo(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, todo)
}

// ToggleTodo flips a checklist item's completed flag
// PATCH /api/tasks/:id/todos/:todoId/toggle
func (h *TaskHandler) ToggleTodo(c *gin.Context) {
	todo, err := h.taskService.ToggleTodo(c.Request.Context(), identity(c), c.Param("id"), c.Param("todoId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, todo)
}

// DeleteTodo removes a checklist item
// DELETE /api/tasks/:id/todos/:todoId
func (h *TaskHandler) DeleteTodo(c *gin.Context) {
	if err := h.taskService.DeleteTodo(c.Request.Context(), identity(c), c.Param("id"), c.Param("todoId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "todo deleted successfully"})
}

// AddComment posts a comment
// POST /api/tasks/:id/comments
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req services.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// AddAttachment records an uploaded file reference
// POST /api/tasks/:id/attachments
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	var req services.AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	attachment, err := h.taskService.AddAttachment(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attachment)
}

// DeleteAttachment removes an attachment reference
// DELETE /api/tasks/:id/attachments/:attachmentId
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	if err := h.taskService.DeleteAttachment(c.Request.Context(), identity(c), c.Param("id"), c.Param("attachmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "attachment deleted successfully"})
}
