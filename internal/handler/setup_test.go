package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"groop/internal/auth"
	"groop/internal/handler"
	"groop/internal/middleware"
	"groop/internal/model"
	"groop/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) MemberAdded(ctx context.Context, member *model.User, group *model.Group, addedBy *model.User) error {
	return m.Called(ctx, member, group, addedBy).Error(0)
}

func (m *MockNotifier) MemberRemoved(ctx context.Context, member *model.User, group *model.Group) error {
	return m.Called(ctx, member, group).Error(0)
}

func (m *MockNotifier) TaskAssigned(ctx context.Context, assignee *model.User, task *model.Task, group *model.Group, assignedBy *model.User) error {
	return m.Called(ctx, assignee, task, group, assignedBy).Error(0)
}

func (m *MockNotifier) TaskCompleted(ctx context.Context, creator *model.User, task *model.Task, group *model.Group, completedBy *model.User) error {
	return m.Called(ctx, creator, task, group, completedBy).Error(0)
}

// testEnv is a router wired to real repositories over an in-memory database.
type testEnv struct {
	t        *testing.T
	router   *gin.Engine
	db       *gorm.DB
	tokens   *auth.JWTManager
	notifier *MockNotifier

	users   *repository.UserRepository
	groups  *repository.GroupRepository
	members *repository.GroupMemberRepository
	tasks   *repository.TaskRepository
	cats    *repository.CategoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Group{}, &model.GroupMember{}, &model.TaskCategory{}, &model.Task{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	env := &testEnv{
		t:        t,
		db:       db,
		tokens:   auth.NewJWTManager("test-secret", time.Hour),
		notifier: new(MockNotifier),
		users:    repository.NewUserRepository(db),
		groups:   repository.NewGroupRepository(db),
		members:  repository.NewGroupMemberRepository(db),
		tasks:    repository.NewTaskRepository(db),
		cats:     repository.NewCategoryRepository(db),
	}
	t.Cleanup(func() { env.notifier.AssertExpectations(t) })

	authHandler := handler.NewAuthHandler(env.users, env.tokens)
	userHandler := handler.NewUserHandler(env.users)
	groupHandler := handler.NewGroupHandler(env.groups, env.members)
	memberHandler := handler.NewGroupMemberHandler(env.groups, env.members, env.users, env.notifier)
	taskHandler := handler.NewTaskHandler(env.tasks, env.cats, env.groups, env.members, env.users, env.notifier)
	categoryHandler := handler.NewCategoryHandler(env.cats, env.members)

	r := gin.New()
	r.Use(middleware.ErrorHandler(false), middleware.Recovery())
	requireAuth := middleware.JWTAuthMiddleware(env.tokens, env.users)

	api := r.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.PUT("/auth/login", requireAuth, authHandler.Refresh)
	api.POST("/users", userHandler.Register)
	api.GET("/users", requireAuth, userHandler.Me)
	api.PATCH("/users", requireAuth, userHandler.Update)

	protected := api.Group("", requireAuth)
	protected.POST("/groups", groupHandler.Create)
	protected.GET("/groups/:group_id", groupHandler.Get)
	protected.DELETE("/groups/:group_id", groupHandler.Delete)

	protected.GET("/groupsmembers", memberHandler.ListMine)
	protected.POST("/groupsmembers", memberHandler.Add)
	protected.GET("/groupsmembers/:group_id", memberHandler.List)
	protected.DELETE("/groupsmembers/:group_id/:member_id", memberHandler.Remove)

	protected.GET("/tasks", taskHandler.ListMine)
	protected.POST("/tasks", taskHandler.Create)
	protected.GET("/tasks/:group_id", taskHandler.ListByGroup)
	protected.GET("/tasks/task/:task_id", taskHandler.Get)
	protected.PATCH("/tasks/task/:task_id", taskHandler.Update)
	protected.DELETE("/tasks/task/:task_id", taskHandler.Delete)

	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories/group/:group_id", categoryHandler.ListByGroup)
	protected.GET("/categories/:category_id", categoryHandler.Get)
	protected.PATCH("/categories/:category_id", categoryHandler.Update)
	protected.DELETE("/categories/:category_id/:group_id", categoryHandler.Delete)

	env.router = r
	return env
}

// do sends body as JSON (a string is sent verbatim) with a token for as, if set.
func (e *testEnv) do(method, path string, body any, as *model.User) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(e.t, json.NewEncoder(&buf).Encode(b))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := e.tokens.GenerateToken(as)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

const testPassword = "Passw0rd!"

var testPasswordHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	return hash
})

func (e *testEnv) createUser(username string) *model.User {
	user := &model.User{
		Username:      username,
		Password:      testPasswordHash(),
		Fullname:      "Test " + username,
		Email:         username + "@example.com",
		Notifications: true,
	}
	require.NoError(e.t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) createGroup(owner *model.User, name string, members ...*model.User) *model.Group {
	group := &model.Group{Name: name, OwnerID: owner.ID}
	_, err := e.groups.CreateWithOwner(context.Background(), group)
	require.NoError(e.t, err)
	for _, m := range members {
		require.NoError(e.t, e.members.Add(context.Background(), &model.GroupMember{GroupID: group.ID, MemberID: m.ID}))
	}
	return group
}

func (e *testEnv) createTask(creator *model.User, group *model.Group, mutate func(*model.Task)) *model.Task {
	task := &model.Task{
		Name:        "dishes",
		Description: "after dinner",
		CreatorID:   creator.ID,
		GroupID:     group.ID,
		Priority:    model.PriorityLow,
		DateDue:     time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(e.t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *testEnv) score(group *model.Group, user *model.User) int64 {
	member, err := e.members.Get(context.Background(), group.ID, user.ID)
	require.NoError(e.t, err)
	return member.Score
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, resp)["error"]
}

func int64Ptr(v int64) *int64 { return &v }
