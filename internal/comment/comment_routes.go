package comment

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"leaveflow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	threads := r.Group("/leaves/:id/comments")
	threads.Use(middleware.AuthMiddleware(rdb))
	{
		threads.GET("", handler.ListForLeave)
		threads.POST("", handler.Create)
	}

	comments := r.Group("/comments")
	comments.Use(middleware.AuthMiddleware(rdb))
	{
		comments.PUT("/:id", handler.Update)
		comments.DELETE("/:id", handler.Delete)
	}
}
