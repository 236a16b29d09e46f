package app

import (
	"errors"

	"github.com/wcewong/paygen/internal/bootstrap"
	"github.com/wcewong/paygen/internal/shared/config"
	"github.com/wcewong/paygen/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config, auditLogger bootstrap.AuditLogger) (func(), error) {
	logger := zap.L().Named("app.api")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		cfg.MaxDBRetries,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.MaxDBRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	} else {
		logger.Warn("REDIS_ADDR not set, statistics cache and idempotency disabled")
	}

	cleanup := func() {
		var errs []error
		if rdb != nil {
			errs = append(errs, rdb.Close())
		}
		errs = append(errs, sqlDB.Close())
		if err := errors.Join(errs...); err != nil {
			logger.Error("close connections failed", zap.Error(err))
		}
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, auditLogger, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}
