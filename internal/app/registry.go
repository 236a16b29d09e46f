package app

import (
	"database/sql"

	"github.com/wcewong/paygen/internal/auth"
	"github.com/wcewong/paygen/internal/bootstrap"
	"github.com/wcewong/paygen/internal/messaging/kafka"
	"github.com/wcewong/paygen/internal/middleware"
	"github.com/wcewong/paygen/internal/payslip"
	"github.com/wcewong/paygen/internal/rbac"
	"github.com/wcewong/paygen/internal/shared/config"
	"github.com/wcewong/paygen/internal/shared/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const metricsNamespace = "paygen"

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(metricsNamespace, nil, registry)
	payslipMetrics := metrics.NewPayslipMetrics(metricsNamespace, registry)

	router.GET(cfg.MetricsPath, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.Use(
		httpMetrics.Middleware(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
	)

	// --- Repositories ---
	payslipRepo := payslip.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	payslipService := payslip.NewServiceWithOutbox(db, payslipRepo, outboxRepo, rdb, cfg.DefaultCurrency)

	// --- Handlers ---
	payslipHandler := payslip.NewHandlerWithRedis(payslipService, rdb, auditLogger).WithMetrics(payslipMetrics)

	strategyGuards, err := buildStrategyGuards(cfg, logger)
	if err != nil {
		return err
	}

	// --- Routes Registration ---
	api := router.Group(cfg.APIPrefix)
	{
		payslip.RegisterRoutes(api, payslipHandler, strategyGuards, rdb)

		if cfg.AdminJWTSecret != "" && cfg.AdminPasswordHash != "" {
			authService := auth.NewService(
				auth.Credentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash},
				[]byte(cfg.AdminJWTSecret),
				cfg.AdminTokenTTL,
			)
			auth.RegisterRoutes(api, auth.NewHandler(authService))
		}
	}

	return nil
}

// buildStrategyGuards protects tax strategy switching with a bearer token and
// the admin policy when ADMIN_JWT_SECRET is set.
func buildStrategyGuards(cfg config.Config, logger *zap.Logger) ([]gin.HandlerFunc, error) {
	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET not set, tax strategy switching is unauthenticated")
		return nil, nil
	}

	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return nil, err
	}

	return []gin.HandlerFunc{
		middleware.AuthMiddleware([]byte(cfg.AdminJWTSecret)),
		middleware.RBACAuthorize(enforcer, rbac.ResourceTaxStrategy, rbac.ActionWrite),
	}, nil
}
