package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"leaveflow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.5, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.Refresh)
		auth.GET("/me", middleware.AuthMiddleware(rdb), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", middleware.AuthMiddleware(rdb), handler.Logout)
	}
}
