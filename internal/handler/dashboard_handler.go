package handler

import (
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	projects ProjectStore
}

func NewDashboardHandler(projects ProjectStore) *DashboardHandler {
	return &DashboardHandler{projects: projects}
}

// Show lists the projects visible to the caller's role: all of them for
// admins, the managed ones for managers and otherwise those with a task
// assigned to the caller.
func (h *DashboardHandler) Show(c *gin.Context) {
	user := middleware.CurrentUserFrom(c)
	flags := middleware.FlagsFrom(c)
	ctx := c.Request.Context()

	var (
		projects []model.Project
		err      error
	)
	switch {
	case flags.IsAdmin:
		projects, err = h.projects.ListAll(ctx)
	case flags.IsManager:
		projects, err = h.projects.ListManagedBy(ctx, user.ID)
	default:
		projects, err = h.projects.ListAssignedTo(ctx, user.ID)
	}
	if err != nil {
		serverError(c, err, "failed to list projects")
		return
	}

	render(c, "dashboard.html", gin.H{"Projects": projects})
}
