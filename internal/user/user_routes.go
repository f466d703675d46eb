package user

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"leaveflow/internal/middleware"
	"leaveflow/internal/policy"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(rdb), middleware.RequireRoles(policy.RoleAdmin))
	{
		users.GET("", handler.GetAll)
		users.POST("", handler.Create)
		users.GET("/:id", handler.GetByID)
		users.PUT("/:id", handler.Update)
		users.PATCH("/:id/activate", handler.Activate)
		users.PATCH("/:id/deactivate", handler.Deactivate)
		users.DELETE("/:id", handler.Delete)
	}
}
