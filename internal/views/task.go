package views

import (
	"time"

	"github.com/taskflowhq/taskflow/internal/models"
)

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	CreatedAt   string       `json:"createdAt"`
	DueDate     string       `json:"dueDate"`
	CompanyID   string       `json:"companyId"`
	Assignee    PersonRef    `json:"assignee"`
	Reporter    PersonRef    `json:"reporter"`
	Todos       []Todo       `json:"todos"`
	Comments    []Comment    `json:"comments"`
	Attachments []Attachment `json:"attachments"`
}

type Todo struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
	TaskID    string `json:"taskId"`
	CreatedAt string `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	TaskID    string    `json:"taskId"`
	User      PersonRef `json:"user"`
	CreatedAt string    `json:"createdAt"`
}

type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	TaskID     string    `json:"taskId"`
	UploadedBy PersonRef `json:"uploadedBy"`
	CreatedAt  string    `json:"createdAt"`
}

// TaskRefs carries the display data joined onto a task view: resolved names
// for the assignee/reporter ids and the task's child collections.
type TaskRefs struct {
	AssigneeName   string
	AssigneeAvatar string
	ReporterName   string
	ReporterAvatar string
	Todos          []Todo
	Comments       []Comment
	Attachments    []Attachment
}

// NewTask maps a task wire record to its view model. Mapping never fails:
// a missing due date defaults to now, a missing assignee renders as
// "Unassigned", a missing reporter as "System".
func NewTask(rec models.Task, refs TaskRefs) Task {
	assigneeName := refs.AssigneeName
	if assigneeName == "" {
		assigneeName = "Unassigned"
	}
	reporterName := refs.ReporterName
	if reporterName == "" {
		reporterName = "System"
	}

	dueDate := time.Now()
	if rec.DueDate != nil {
		dueDate = *rec.DueDate
	}

	todos := refs.Todos
	if todos == nil {
		todos = []Todo{}
	}
	comments := refs.Comments
	if comments == nil {
		comments = []Comment{}
	}
	attachments := refs.Attachments
	if attachments == nil {
		attachments = []Attachment{}
	}

	return Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: strOrEmpty(rec.Description),
		Status:      rec.Status,
		Priority:    rec.Priority,
		CreatedAt:   isoTime(rec.CreatedAt),
		DueDate:     isoTime(dueDate),
		CompanyID:   strOrEmpty(rec.CompanyID),
		Assignee: PersonRef{
			ID:     strOrEmpty(rec.AssigneeID),
			Name:   assigneeName,
			Avatar: refs.AssigneeAvatar,
		},
		Reporter: PersonRef{
			ID:     strOrEmpty(rec.ReporterID),
			Name:   reporterName,
			Avatar: refs.ReporterAvatar,
		},
		Todos:       todos,
		Comments:    comments,
		Attachments: attachments,
	}
}

// TaskRecord maps a task view back to its writable wire fields. Derived data
// (created_at, resolved names, child collections) is never written back.
func TaskRecord(v Task) models.Task {
	rec := models.Task{
		ID:          v.ID,
		Title:       v.Title,
		Description: ptrOrNil(v.Description),
		Status:      v.Status,
		Priority:    v.Priority,
		DueDate:     parseISO(v.DueDate),
		CompanyID:   ptrOrNil(v.CompanyID),
		AssigneeID:  ptrOrNil(v.Assignee.ID),
		ReporterID:  ptrOrNil(v.Reporter.ID),
	}
	return rec
}

// NewTodo maps a todo wire record to its view model.
func NewTodo(rec models.Todo) Todo {
	completed := false
	if rec.Completed != nil {
		completed = *rec.Completed
	}
	return Todo{
		ID:        rec.ID,
		Content:   rec.Content,
		Completed: completed,
		TaskID:    strOrEmpty(rec.TaskID),
		CreatedAt: isoTime(rec.CreatedAt),
	}
}

// TodoRecord maps a todo view back to its writable wire fields.
func TodoRecord(v Todo) models.Todo {
	completed := v.Completed
	return models.Todo{
		ID:        v.ID,
		Content:   v.Content,
		Completed: &completed,
		TaskID:    ptrOrNil(v.TaskID),
	}
}

// NewComment maps a comment wire record to its view model.
func NewComment(rec models.Comment) Comment {
	return Comment{
		ID:      rec.ID,
		Content: rec.Content,
		TaskID:  strOrEmpty(rec.TaskID),
		User: PersonRef{
			ID:     strOrEmpty(rec.UserID),
			Name:   rec.UserName,
			Avatar: strOrEmpty(rec.UserAvatar),
		},
		CreatedAt: isoTime(rec.CreatedAt),
	}
}

// CommentRecord maps a comment view back to its writable wire fields.
func CommentRecord(v Comment) models.Comment {
	return models.Comment{
		ID:         v.ID,
		Content:    v.Content,
		TaskID:     ptrOrNil(v.TaskID),
		UserID:     ptrOrNil(v.User.ID),
		UserName:   v.User.Name,
		UserAvatar: ptrOrNil(v.User.Avatar),
	}
}

// NewAttachment maps an attachment wire record to its view model.
func NewAttachment(rec models.Attachment) Attachment {
	return Attachment{
		ID:     rec.ID,
		Name:   rec.Name,
		URL:    rec.URL,
		Type:   rec.Type,
		Size:   rec.Size,
		TaskID: strOrEmpty(rec.TaskID),
		UploadedBy: PersonRef{
			ID:   strOrEmpty(rec.UploadedByID),
			Name: rec.UploadedByName,
		},
		CreatedAt: isoTime(rec.CreatedAt),
	}
}

// AttachmentRecord maps an attachment view back to its writable wire fields.
func AttachmentRecord(v Attachment) models.Attachment {
	return models.Attachment{
		ID:             v.ID,
		Name:           v.Name,
		URL:            v.URL,
		Type:           v.Type,
		Size:           v.Size,
		TaskID:         ptrOrNil(v.TaskID),
		UploadedByID:   ptrOrNil(v.UploadedBy.ID),
		UploadedByName: v.UploadedBy.Name,
	}
}
