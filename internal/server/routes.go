package server

import (
	"net/http"

	"groop/internal/config"
	"groop/internal/handler"
	"groop/internal/middleware"

	"github.com/gin-gonic/gin"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Group    *handler.GroupHandler
	Member   *handler.GroupMemberHandler
	Task     *handler.TaskHandler
	Category *handler.CategoryHandler
	Health   *handler.HealthHandler
}

// NewRouter builds the gin engine with the global middlewares and every route.
// requireAuth guards everything under /api except login and registration.
func NewRouter(logger zerolog.Logger, isProduction bool, h Handlers, requireAuth gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(logger),
		middleware.RequestLogger(),
		middleware.ErrorHandler(isProduction),
		middleware.Recovery(),
	)

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Auth & users
	api.POST("/auth/login", h.Auth.Login)
	api.PUT("/auth/login", requireAuth, h.Auth.Refresh)
	api.POST("/users", h.User.Register)
	api.GET("/users", requireAuth, h.User.Me)
	api.PATCH("/users", requireAuth, h.User.Update)

	authorized := api.Group("")
	authorized.Use(requireAuth)
	{
		// Group routes
		authorized.POST("/groups", h.Group.Create)
		authorized.GET("/groups/:group_id", h.Group.Get)
		authorized.DELETE("/groups/:group_id", h.Group.Delete)

		// Membership routes
		authorized.GET("/groupsmembers", h.Member.ListMine)
		authorized.POST("/groupsmembers", h.Member.Add)
		authorized.GET("/groupsmembers/:group_id", h.Member.List)
		authorized.DELETE("/groupsmembers/:group_id/:member_id", h.Member.Remove)

		// Task routes
		authorized.GET("/tasks", h.Task.ListMine)
		authorized.POST("/tasks", h.Task.Create)
		authorized.GET("/tasks/:group_id", h.Task.ListByGroup)
		authorized.GET("/tasks/task/:task_id", h.Task.Get)
		authorized.PATCH("/tasks/task/:task_id", h.Task.Update)
		authorized.DELETE("/tasks/task/:task_id", h.Task.Delete)

		// Category routes
		authorized.POST("/categories", h.Category.Create)
		authorized.GET("/categories/group/:group_id", h.Category.ListByGroup)
		authorized.GET("/categories/:category_id", h.Category.Get)
		authorized.PATCH("/categories/:category_id", h.Category.Update)
		authorized.DELETE("/categories/:category_id/:group_id", h.Category.Delete)
	}

	return r
}

// withCORS wraps the engine with the CORS policy from cfg.
func withCORS(cfg *config.Config, engine http.Handler) http.Handler {
	headers := gorillahandlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(cfg.AllowedOrigins())
	exposed := gorillahandlers.ExposedHeaders([]string{"Location", middleware.RequestIDHeader})

	return gorillahandlers.CORS(headers, methods, origins, exposed)(engine)
}
