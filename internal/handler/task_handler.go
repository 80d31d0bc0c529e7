package handler

import (
	"errors"
	"net/http"

	"taskmanager/internal/form"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/session"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
}

func NewTaskHandler(projects ProjectStore, tasks TaskStore, users UserStore) *TaskHandler {
	return &TaskHandler{projects: projects, tasks: tasks, users: users}
}

// Create adds a task to the project named in the URL. Only admins and
// managers may add tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	project, err := h.projects.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err, "failed to load project")
		return
	}

	if !middleware.FlagsFrom(c).CanCreate() {
		flash(c, session.LevelError, "You don't have permission to add a task.")
		middleware.Redirect(c, projectURL(project.ID))
		return
	}

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		serverError(c, err, "failed to list users")
		return
	}
	data := gin.H{"Project": project, "Users": users, "Statuses": model.StatusChoices}

	var f form.TaskForm
	if c.Request.Method != http.MethodPost {
		data["Form"], data["Errors"] = f, form.Errors{}
		render(c, "create_task.html", data)
		return
	}

	errs := form.Bind(c, &f)
	assignee := f.AssignedToID(errs)
	if assignee != nil && !containsUser(users, *assignee) {
		form.InvalidChoice(errs, "assigned_to")
		assignee = nil
	}

	if !errs.Valid() {
		flash(c, session.LevelError, fixFormErrors)
		data["Form"], data["Errors"] = f, errs
		render(c, "create_task.html", data)
		return
	}

	task := &model.Task{
		Title:        f.Title,
		Description:  f.Description,
		ProjectID:    project.ID,
		AssignedToID: assignee,
		Status:       f.StatusValue(),
		DueDate:      f.DueDateValue(),
	}
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		serverError(c, err, "failed to create task")
		return
	}

	flash(c, session.LevelSuccess, "Task created.")
	middleware.Redirect(c, projectURL(project.ID))
}
