package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskmanager/internal/logging"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/session"

	"github.com/gin-gonic/gin"
)

const fixFormErrors = "Please fix the errors in the form."

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type ProjectStore interface {
	Create(ctx context.Context, project *model.Project) error
	Get(ctx context.Context, id uint) (*model.Project, error)
	GetWithTasks(ctx context.Context, id uint) (*model.Project, error)
	ListAll(ctx context.Context) ([]model.Project, error)
	ListManagedBy(ctx context.Context, userID uint) ([]model.Project, error)
	ListAssignedTo(ctx context.Context, userID uint) ([]model.Project, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
}

// render merges the page values every template needs into data and renders
// the page with status 200.
func render(c *gin.Context, name string, data gin.H) {
	page := middleware.PageData(c)
	for k, v := range data {
		page[k] = v
	}
	middleware.Render(c, http.StatusOK, name, page)
}

func flash(c *gin.Context, level session.Level, text string) {
	middleware.SessionFrom(c).AddMessage(level, text)
}

func serverError(c *gin.Context, err error, msg string) {
	logging.Logger.WithError(err).WithField("path", c.Request.URL.Path).Error(msg)
	middleware.ErrorPage(c, http.StatusInternalServerError)
}

func notFound(c *gin.Context) {
	middleware.ErrorPage(c, http.StatusNotFound)
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func projectURL(id uint) string {
	return "/project/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func containsUser(users []model.User, id uint) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}
