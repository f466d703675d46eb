package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"leaveflow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(rdb))
	{
		leaves.GET("", handler.List)
		leaves.POST("", middleware.Idempotency(rdb), handler.Create)
		leaves.GET("/:id", handler.GetByID)
		leaves.PATCH("/:id/approve", handler.Approve)
		leaves.PATCH("/:id/reject", handler.Reject)
	}

	personal := r.Group("/personal-leaves")
	personal.Use(middleware.AuthMiddleware(rdb))
	{
		personal.GET("", handler.ListOwn)
	}
}
