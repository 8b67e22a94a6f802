package main

import (
	"github.com/collabdesk/collabdesk/internal/middleware"
	"github.com/collabdesk/collabdesk/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)

			// Users
			protected.GET("/users", svc.userHandler.Search)
			protected.GET("/users/:publicId", svc.userHandler.GetProfile)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Collaborators and membership lifecycle
			protected.GET("/projects/:id/collaborators", svc.membershipHandler.ListCollaborators)
			protected.POST("/projects/:id/collaborators", svc.membershipHandler.AddCollaborator)
			protected.POST("/projects/:id/leave", svc.membershipHandler.Leave)
			protected.PUT("/memberships/:id/role", svc.membershipHandler.ChangeRole)
			protected.DELETE("/memberships/:id", svc.membershipHandler.RemoveMember)

			// Access requests
			protected.GET("/projects/:id/access-requests", svc.membershipHandler.ListAccessRequests)
			protected.POST("/projects/:id/access-requests", svc.membershipHandler.RequestAccess)
			protected.POST("/access-requests/:id/approve", svc.membershipHandler.ApproveAccess)
			protected.POST("/access-requests/:id/deny", svc.membershipHandler.DenyAccess)

			// Bans
			protected.GET("/projects/:id/bans", svc.membershipHandler.ListBans)
			protected.POST("/memberships/:id/ban", svc.membershipHandler.BanMember)
			protected.DELETE("/bans/:id", svc.membershipHandler.UnbanMember)

			// Tasks and assignments
			protected.GET("/projects/:id/tasks", svc.taskHandler.List)
			protected.POST("/projects/:id/tasks", svc.taskHandler.Create)
			protected.PUT("/tasks/:id", svc.taskHandler.Update)
			protected.POST("/tasks/:id/toggle", svc.taskHandler.Toggle)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)
			protected.POST("/tasks/:id/assignments", svc.taskHandler.Assign)
			protected.DELETE("/tasks/:id/assignments/:userId", svc.taskHandler.Unassign)

			// Personal state: pins and read marks
			protected.GET("/tasks/pinned", svc.stateHandler.PinnedTasks)
			protected.POST("/tasks/:id/pin", svc.stateHandler.PinTask)
			protected.DELETE("/tasks/:id/pin", svc.stateHandler.UnpinTask)
			protected.POST("/tasks/:id/read", svc.stateHandler.MarkTaskRead)
			protected.POST("/comments/:id/read", svc.stateHandler.MarkCommentRead)
			protected.POST("/files/:id/read", svc.stateHandler.MarkFileRead)

			// Comments
			protected.GET("/projects/:id/comments", svc.commentHandler.List)
			protected.POST("/projects/:id/comments", svc.commentHandler.Create)
			protected.PUT("/comments/:id", svc.commentHandler.Update)
			protected.DELETE("/comments/:id", svc.commentHandler.Delete)

			// Reports
			protected.POST("/comments/:id/reports", svc.reportHandler.File)
			protected.GET("/projects/:id/reports", svc.reportHandler.List)
			protected.POST("/reports/:id/resolve", svc.reportHandler.Resolve)
			protected.POST("/reports/:id/dismiss", svc.reportHandler.Dismiss)

			// Files
			protected.GET("/projects/:id/files", svc.fileHandler.List)
			protected.POST("/projects/:id/files", svc.fileHandler.Upload)
			protected.GET("/files/:id/download", svc.fileHandler.Download)
			protected.DELETE("/files/:id", svc.fileHandler.Delete)

			// Audit log
			protected.GET("/projects/:id/logs", svc.logHandler.List)

			// Friends
			protected.GET("/friends", svc.friendHandler.Friends)
			protected.DELETE("/friends/:userId", svc.friendHandler.Remove)
			protected.GET("/friends/requests", svc.friendHandler.Pending)
			protected.POST("/friends/requests", svc.friendHandler.Send)
			protected.POST("/friends/requests/:id/accept", svc.friendHandler.Accept)
			protected.POST("/friends/requests/:id/decline", svc.friendHandler.Decline)
			protected.DELETE("/friends/requests/:id", svc.friendHandler.Cancel)

			// Personal todos
			protected.GET("/todos", svc.todoHandler.List)
			protected.POST("/todos", svc.todoHandler.Create)
			protected.POST("/todos/:id/toggle", svc.todoHandler.Toggle)
			protected.DELETE("/todos/:id", svc.todoHandler.Delete)
		}
	}
}
