package handler

import (
	"errors"
	"net/http"
	"strconv"

	"taskmanager/internal/form"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/session"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects ProjectStore
	users    UserStore
}

func NewProjectHandler(projects ProjectStore, users UserStore) *ProjectHandler {
	return &ProjectHandler{projects: projects, users: users}
}

func (h *ProjectHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		notFound(c)
		return
	}
	project, err := h.projects.GetWithTasks(c.Request.Context(), id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err, "failed to load project")
		return
	}

	render(c, "project_detail.html", gin.H{"Project": project})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	flags := middleware.FlagsFrom(c)
	if !flags.CanCreate() {
		flash(c, session.LevelError, "You don't have permission to create a project.")
		middleware.Redirect(c, "/")
		return
	}
	user := middleware.CurrentUserFrom(c)
	// Managers without admin rights default to managing what they create.
	selfManaged := flags.IsManager && !flags.IsAdmin

	users, err := h.users.List(c.Request.Context())
	if err != nil {
		serverError(c, err, "failed to list users")
		return
	}

	var f form.ProjectForm
	errs := form.Errors{}
	if c.Request.Method != http.MethodPost {
		if selfManaged {
			f.Manager = strconv.FormatUint(uint64(user.ID), 10)
		}
		render(c, "create_project.html", gin.H{"Form": f, "Errors": errs, "Users": users})
		return
	}

	errs = form.Bind(c, &f)
	managerID := f.ManagerID(errs)
	if managerID != nil && !containsUser(users, *managerID) {
		form.InvalidChoice(errs, "manager")
		managerID = nil
	}
	if managerID == nil && f.Manager == "" && selfManaged {
		managerID = &user.ID
	}

	if !errs.Valid() {
		flash(c, session.LevelError, fixFormErrors)
		render(c, "create_project.html", gin.H{"Form": f, "Errors": errs, "Users": users})
		return
	}

	project := &model.Project{
		Name:        f.Name,
		Description: f.Description,
		ManagerID:   managerID,
	}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		serverError(c, err, "failed to create project")
		return
	}

	flash(c, session.LevelSuccess, "Project created.")
	middleware.Redirect(c, projectURL(project.ID))
}
