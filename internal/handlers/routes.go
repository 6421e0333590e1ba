package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mtakagi/task-tracker-api/internal/middleware"
)

// RegisterRoutes wires the HTTP surface. Each protected route declares its
// required role as data; middleware.RequireRole evaluates the policy.
func RegisterRoutes(r *gin.Engine, authHandler *AuthHandler, taskHandler *TaskHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	r.POST("/register/", authHandler.Register)
	r.POST("/login/", authHandler.Login)
	r.POST("/logout/", middleware.RequireAuth(), authHandler.Logout)
	r.GET("/me/", middleware.RequireAuth(), middleware.RequireRole(middleware.RoleAuthenticated), authHandler.Me)

	tasks := r.Group("/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("/", middleware.RequireRole(middleware.RoleAuthenticated), taskHandler.ListTasks)
		tasks.POST("/", middleware.RequireRole(middleware.RoleStaff), taskHandler.CreateTask)
		tasks.GET("/:task_id/", middleware.RequireRole(middleware.RoleAuthenticated), taskHandler.GetTask)
		tasks.PATCH("/:task_id/", middleware.RequireRole(middleware.RoleStaff), taskHandler.UpdateTask)
		tasks.POST("/:task_id/assign/", middleware.RequireRole(middleware.RoleStaff), taskHandler.AssignTask)
	}

	r.GET("/users/:user_id/tasks/",
		middleware.RequireAuth(),
		middleware.RequireRole(middleware.RoleAuthenticated),
		taskHandler.ListUserTasks,
	)
}
