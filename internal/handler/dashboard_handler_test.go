package handler_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func sampleProjects() []model.Project {
	now := time.Now()
	return []model.Project{
		{ID: 2, Name: "Beta launch", CreatedAt: now, Tasks: []model.Task{{ID: 7, Title: "Ship it", Status: model.StatusDone}}},
		{ID: 1, Name: "Alpha research", CreatedAt: now.Add(-time.Hour)},
	}
}

func TestDashboard_AnonymousRedirectsToLogin(t *testing.T) {
	env := setupTest(nil)

	resp := env.get("/")

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login/?next=%2F", resp.Header().Get("Location"))
}

func TestDashboard_AdminSeesAllProjects(t *testing.T) {
	env := setupTest(adminUser())
	env.projects.On("ListAll", mock.Anything).Return(sampleProjects(), nil)

	resp := env.get("/")

	assert.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Beta launch")
	assert.Contains(t, body, "Alpha research")
	assert.Contains(t, body, "Ship it")
	assert.Less(t, strings.Index(body, "Beta launch"), strings.Index(body, "Alpha research"))
	env.projects.AssertNotCalled(t, "ListManagedBy", mock.Anything, mock.Anything)
}

func TestDashboard_ManagerSeesManagedProjects(t *testing.T) {
	env := setupTest(managerUser())
	env.projects.On("ListManagedBy", mock.Anything, uint(5)).Return(sampleProjects()[:1], nil)

	resp := env.get("/")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Beta launch")
	assert.NotContains(t, resp.Body.String(), "Alpha research")
	env.projects.AssertExpectations(t)
}

func TestDashboard_PlainUserSeesAssignedProjects(t *testing.T) {
	env := setupTest(plainUser())
	env.projects.On("ListAssignedTo", mock.Anything, uint(9)).Return([]model.Project{}, nil)

	resp := env.get("/")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "No projects to show.")
	env.projects.AssertExpectations(t)
}

func TestDashboard_StoreFailure(t *testing.T) {
	env := setupTest(adminUser())
	env.projects.On("ListAll", mock.Anything).Return(nil, errors.New("connection reset"))

	resp := env.get("/")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
