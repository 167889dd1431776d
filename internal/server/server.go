package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groop/internal/auth"
	"groop/internal/config"
	"groop/internal/database"
	"groop/internal/handler"
	"groop/internal/lib/email"
	"groop/internal/lib/job"
	"groop/internal/middleware"
	"groop/internal/notify"
	"groop/internal/repository"
	"groop/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 5 * time.Second
	emailTimeout    = 30 * time.Second
	digestTimeout   = 30 * time.Minute
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config

	logger      zerolog.Logger
	scheduler   *scheduler.Scheduler
	digestEntry cron.EntryID
	jobs        *job.JobService
	mailer      *email.AsyncDispatcher
}

func Init(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("Connected to database")

	location, err := time.LoadLocation(cfg.DigestTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid digest timezone: %w", err)
	}

	s := &Server{DB: db, Config: cfg, logger: logger}

	// Email delivery
	sender, err := email.NewSender(cfg, logger)
	if err != nil {
		return nil, err
	}
	var dispatcher email.Dispatcher
	if cfg.RedisAddress != "" {
		s.jobs = job.NewJobService(cfg.RedisAddress, sender, logger)
		dispatcher = s.jobs
	} else {
		s.mailer = email.NewAsyncDispatcher(sender, emailTimeout, logger)
		dispatcher = s.mailer
	}
	notifier := notify.NewNotifier(dispatcher, location, logger)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewGroupMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Initialize handlers
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	handlers := Handlers{
		Auth:     handler.NewAuthHandler(userRepo, tokens),
		User:     handler.NewUserHandler(userRepo),
		Group:    handler.NewGroupHandler(groupRepo, memberRepo),
		Member:   handler.NewGroupMemberHandler(groupRepo, memberRepo, userRepo, notifier),
		Task:     handler.NewTaskHandler(taskRepo, categoryRepo, groupRepo, memberRepo, userRepo, notifier),
		Category: handler.NewCategoryHandler(categoryRepo, memberRepo),
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
	}
	s.Engine = NewRouter(logger, cfg.IsProduction(), handlers, middleware.JWTAuthMiddleware(tokens, userRepo))

	// Weekly digest
	s.scheduler = scheduler.New(location, digestTimeout, logger)
	digest := notify.NewDigestJob(userRepo, taskRepo, notifier, cfg.DigestSkipEmpty)
	s.digestEntry, err = s.scheduler.Add("weekly_digest", cfg.DigestCron, func(ctx context.Context) error {
		_, err := digest.Run(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("schedule", cfg.DigestCron).Str("timezone", cfg.DigestTimezone).
		Msg("weekly digest scheduled")

	return s, nil
}

func (s *Server) Run() {
	if s.jobs != nil {
		if err := s.jobs.Start(); err != nil {
			s.logger.Fatal().Err(err).Msg("Failed to start job worker")
		}
	}
	s.scheduler.Start()
	s.logger.Info().Time("next_digest", s.scheduler.Next(s.digestEntry)).Msg("Scheduler started")

	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           withCORS(s.Config, s.Engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.Info().Str("port", s.Config.ServerPort).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal().Err(err).Msg("Failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	s.scheduler.Stop()
	if s.jobs != nil {
		s.jobs.Stop()
	}
	if s.mailer != nil {
		s.mailer.Wait()
	}
	if err := database.Close(s.DB); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close database")
	}

	s.logger.Info().Msg("Server exited properly")
}
