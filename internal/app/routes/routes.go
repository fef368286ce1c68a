// Package routes wires controllers to their URL paths
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/convenia/convenia-backend/internal/app/controllers"
	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/middleware"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
)

// Controllers bundles everything the router needs
type Controllers struct {
	Auth    *controllers.AuthController
	Users   *controllers.UserController
	Request *controllers.RequestController
}

// SetupRoutes registers every route on the engine
func SetupRoutes(router *gin.Engine, ctrl *Controllers, jwtService *auth.JWTService) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", ctrl.Auth.Login)
		authRoutes.POST("/register", ctrl.Auth.Register)
		authRoutes.POST("/refresh", ctrl.Auth.RefreshToken)
		authRoutes.POST("/logout", ctrl.Auth.Logout)

		protected := authRoutes.Group("")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			protected.GET("/user", ctrl.Auth.GetUserByEmail)
			protected.GET("/teachers", ctrl.Users.ListTeachers)
		}
	}

	requests := api.Group("/requests")
	requests.Use(middleware.JWTAuth(jwtService))
	{
		// Listing and moderating all requests is for admins; ownership checks
		// for the remaining routes live in the service layer
		requests.GET("", middleware.RoleRequired(models.RoleAdmin), ctrl.Request.ListRequests)
		requests.GET("/search", middleware.RoleRequired(models.RoleAdmin), ctrl.Request.SearchRequests)
		requests.PATCH("/:id/status", middleware.RoleRequired(models.RoleAdmin), ctrl.Request.UpdateRequestStatus)

		requests.POST("", ctrl.Request.CreateRequest)
		requests.GET("/teacher/:id", ctrl.Request.ListTeacherRequests)
		requests.GET("/:id", ctrl.Request.GetRequest)
		requests.DELETE("/:id", ctrl.Request.DeleteRequest)
	}

	users := api.Group("/users")
	users.Use(middleware.JWTAuth(jwtService), middleware.RoleRequired(models.RoleAdmin))
	{
		users.GET("", ctrl.Users.ListUsers)
		users.POST("", ctrl.Users.CreateUser)
		users.GET("/:id", ctrl.Users.GetUser)
		users.PATCH("/:id/role", ctrl.Users.UpdateUserRole)
		users.PATCH("/:id/active", ctrl.Users.UpdateUserActive)
		users.DELETE("/:id", ctrl.Users.DeleteUser)
	}
}
