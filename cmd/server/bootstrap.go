package main

import (
	"github.com/collabdesk/collabdesk/internal/config"
	"github.com/collabdesk/collabdesk/internal/handlers"
	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/internal/services"
	"github.com/collabdesk/collabdesk/internal/utils"
	"github.com/collabdesk/collabdesk/pkg/logger"
)

// appServices holds the initialized handlers and background services.
type appServices struct {
	maintenance *services.MaintenanceService

	authHandler       *handlers.AuthHandler
	userHandler       *handlers.UserHandler
	projectHandler    *handlers.ProjectHandler
	membershipHandler *handlers.MembershipHandler
	taskHandler       *handlers.TaskHandler
	commentHandler    *handlers.CommentHandler
	reportHandler     *handlers.ReportHandler
	fileHandler       *handlers.FileHandler
	logHandler        *handlers.ProjectLogHandler
	stateHandler      *handlers.PersonalStateHandler
	friendHandler     *handlers.FriendHandler
	todoHandler       *handlers.TodoHandler
	healthHandler     *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, handlers,
// schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Start the retention sweep scheduler
	maintenance := services.NewMaintenanceService(db)
	if err := maintenance.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start maintenance scheduler")
	}

	return &appServices{
		maintenance:       maintenance,
		authHandler:       handlers.NewAuthHandler(db, &cfg.JWT),
		userHandler:       handlers.NewUserHandler(db),
		projectHandler:    handlers.NewProjectHandler(db),
		membershipHandler: handlers.NewMembershipHandler(db),
		taskHandler:       handlers.NewTaskHandler(db),
		commentHandler:    handlers.NewCommentHandler(db),
		reportHandler:     handlers.NewReportHandler(db),
		fileHandler:       handlers.NewFileHandler(db, &cfg.Upload),
		logHandler:        handlers.NewProjectLogHandler(db),
		stateHandler:      handlers.NewPersonalStateHandler(db),
		friendHandler:     handlers.NewFriendHandler(db),
		todoHandler:       handlers.NewTodoHandler(db),
		healthHandler:     handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.maintenance.Stop()
	logger.Info().Msg("All schedulers stopped")
}
