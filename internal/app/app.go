package app

import (
	"context"

	"github.com/Santatra-A/leave-management/internal/config"
	"github.com/Santatra-A/leave-management/internal/middleware"
	"github.com/Santatra-A/leave-management/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, runs migrations and registers every
// module's routes on the router.
func BuildApp(router *gin.Engine) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := connection.RunMigrations(context.Background(), sqlDB); err != nil {
		return err
	}
	zap.L().Info("migrations applied")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, cfg, sqlDB, gormDB, rdb)
}
