package app

import (
	"database/sql"

	"github.com/Santatra-A/leave-management/internal/auth"
	"github.com/Santatra-A/leave-management/internal/config"
	"github.com/Santatra-A/leave-management/internal/leave"
	"github.com/Santatra-A/leave-management/internal/messaging/kafka"
	"github.com/Santatra-A/leave-management/internal/rbac"
	"github.com/Santatra-A/leave-management/internal/report"
	"github.com/Santatra-A/leave-management/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	otpStore := auth.NewRedisOTPStore(rdb)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo, otpStore, outboxRepo, cfg.JWTSecret)
	userService := user.NewService(userRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, userRepo, outboxRepo)
	reportService := report.NewService(report.NewClient(cfg.ReportingServiceURL))

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	reportHandler := report.NewHandler(reportService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		report.RegisterRoutes(api, reportHandler, rbacService)
	}

	return nil
}
