package main

import (
	"github.com/gin-gonic/gin"

	"github.com/taskflowhq/taskflow/internal/middleware"
	"github.com/taskflowhq/taskflow/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth endpoints
	authLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.Check)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Own profile
			protected.PATCH("/profile", svc.userHandler.UpdateProfile)

			// Dashboard
			protected.GET("/dashboard/stats", svc.dashboardHandler.Stats)
			protected.GET("/dashboard/activity", svc.dashboardHandler.Activity)

			// Tasks
			protected.GET("/tasks", svc.taskHandler.List)
			protected.GET("/tasks/:id", svc.taskHandler.Get)
			protected.POST("/tasks", svc.taskHandler.Create)
			protected.PATCH("/tasks/:id", svc.taskHandler.Update)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)

			// Task todos
			protected.POST("/tasks/:id/todos", svc.taskHandler.AddTodo)
			protected.PATCH("/tasks/:id/todos/:todoId/toggle", svc.taskHandler.ToggleTodo)
			protected.DELETE("/tasks/:id/todos/:todoId", svc.taskHandler.DeleteTodo)

			// Task comments
			protected.POST("/tasks/:id/comments", svc.taskHandler.AddComment)

			// Task attachments
			protected.POST("/tasks/:id/attachments", svc.taskHandler.AddAttachment)
			protected.DELETE("/tasks/:id/attachments/:attachmentId", svc.taskHandler.DeleteAttachment)

			// Companies (read for all users)
			protected.GET("/companies", svc.companyHandler.List)
			protected.GET("/companies/:id", svc.companyHandler.Get)

			// Teams
			protected.GET("/teams", svc.teamHandler.List)
			protected.GET("/teams/:id", svc.teamHandler.Get)
			protected.POST("/teams", svc.teamHandler.Create)
			protected.PATCH("/teams/:id", svc.teamHandler.Update)
			protected.DELETE("/teams/:id", svc.teamHandler.Delete)

			// Team members
			protected.GET("/teams/:id/members", svc.teamHandler.ListMembers)
			protected.POST("/teams/:id/members", svc.teamHandler.AddMember)
			protected.PATCH("/teams/:id/members/:memberId", svc.teamHandler.UpdateMember)
			protected.DELETE("/teams/:id/members/:memberId", svc.teamHandler.RemoveMember)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Companies (write operations)
			admin.POST("/companies", svc.companyHandler.Create)
			admin.PATCH("/companies/:id", svc.companyHandler.Update)
			admin.DELETE("/companies/:id", svc.companyHandler.Delete)

			// Users
			admin.GET("/users", svc.userHandler.List)
			admin.GET("/users/:id", svc.userHandler.Get)
			admin.PATCH("/users/:id", svc.userHandler.Update)
			admin.DELETE("/users/:id", svc.userHandler.Delete)
		}
	}
}
