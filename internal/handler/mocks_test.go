package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/handler"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/session"
	"taskmanager/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

func (m *MockUserStore) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) Create(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectStore) Get(ctx context.Context, id uint) (*model.Project, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockProjectStore) GetWithTasks(ctx context.Context, id uint) (*model.Project, error) {
	return m.one(m.Called(ctx, id))
}

func (m *MockProjectStore) one(args mock.Arguments) (*model.Project, error) {
	project := args.Get(0)
	if project == nil {
		return nil, args.Error(1)
	}
	return project.(*model.Project), args.Error(1)
}

func (m *MockProjectStore) list(args mock.Arguments) ([]model.Project, error) {
	projects := args.Get(0)
	if projects == nil {
		return nil, args.Error(1)
	}
	return projects.([]model.Project), args.Error(1)
}

func (m *MockProjectStore) ListAll(ctx context.Context) ([]model.Project, error) {
	return m.list(m.Called(ctx))
}

func (m *MockProjectStore) ListManagedBy(ctx context.Context, userID uint) ([]model.Project, error) {
	return m.list(m.Called(ctx, userID))
}

func (m *MockProjectStore) ListAssignedTo(ctx context.Context, userID uint) ([]model.Project, error) {
	return m.list(m.Called(ctx, userID))
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type testEnv struct {
	router   *gin.Engine
	users    *MockUserStore
	projects *MockProjectStore
	tasks    *MockTaskStore
	session  *session.Session
}

// setupTest wires the handlers behind the session middleware. A non-nil
// user is treated as already logged in.
func setupTest(user *model.User) *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		users:    new(MockUserStore),
		projects: new(MockProjectStore),
		tasks:    new(MockTaskStore),
	}

	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	manager := session.NewManager(session.NewMemoryStore(), auth.NewTokenSigner("test-secret", time.Hour), time.Hour)
	r.Use(middleware.Sessions(manager, false))
	r.Use(func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		env.session = s
		if user != nil {
			s.SetUserID(user.ID)
			middleware.SetCurrentUser(c, user)
		}
		c.Next()
	})

	authHandler := handler.NewAuthHandler(env.users)
	dashboardHandler := handler.NewDashboardHandler(env.projects)
	projectHandler := handler.NewProjectHandler(env.projects, env.users)
	taskHandler := handler.NewTaskHandler(env.projects, env.tasks, env.users)

	methods := []string{http.MethodGet, http.MethodPost}
	r.Match(methods, "/login/", authHandler.Login)
	r.Match(methods, "/logout/", authHandler.Logout)
	r.Match(methods, "/register/", authHandler.Register)

	protected := r.Group("/", middleware.LoginRequired())
	protected.Match(methods, "/", dashboardHandler.Show)
	protected.Match(methods, "/projects/create/", projectHandler.Create)
	protected.Match(methods, "/project/:id/", projectHandler.Detail)
	protected.Match(methods, "/project/:id/tasks/create/", taskHandler.Create)

	env.router = r
	return env
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) post(path string, values url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) messages() []string {
	var texts []string
	for _, m := range e.session.Messages() {
		texts = append(texts, m.Text)
	}
	return texts
}

func adminUser() *model.User {
	return &model.User{ID: 1, Username: "root", IsActive: true, IsSuperuser: true}
}

func managerUser() *model.User {
	return &model.User{ID: 5, Username: "mia", IsActive: true, Groups: []model.Group{{ID: 2, Name: model.GroupManager}}}
}

func plainUser() *model.User {
	return &model.User{ID: 9, Username: "paul", IsActive: true}
}
