package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"leaveflow/internal/auth"
	"leaveflow/internal/comment"
	"leaveflow/internal/leave"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB, db)
	leaveRepo := leave.NewRepository(gormDB, db)
	commentRepo := comment.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(userRepo, rdb)
	userService := user.NewService(userRepo)
	leaveService := leave.NewService(db, leaveRepo, userRepo, outboxRepo, rdb)
	commentService := comment.NewService(commentRepo, leaveRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	commentHandler := comment.NewHandler(commentService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rdb)
		user.RegisterRoutes(api, userHandler, rdb)
		leave.RegisterRoutes(api, leaveHandler, rdb)
		comment.RegisterRoutes(api, commentHandler, rdb)
	}

	return nil
}
