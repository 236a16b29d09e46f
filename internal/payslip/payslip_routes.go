package payslip

import (
	"github.com/wcewong/paygen/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the payslip and tax strategy endpoints.
// strategyGuards run before PUT /tax-strategy; nil leaves it open.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	strategyGuards []gin.HandlerFunc,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payslips := r.Group("/payslip")
	{
		if redisClient != nil {
			payslips.POST("", middleware.Idempotency(redisClient), handler.Generate)
		} else {
			payslips.POST("", handler.Generate)
		}
		payslips.GET("", handler.GetAll)
		payslips.GET("/employee/:name", handler.GetByEmployee)
		payslips.GET("/statistics", handler.GetStatistics)
	}

	switchChain := make([]gin.HandlerFunc, 0, len(strategyGuards)+1)
	switchChain = append(switchChain, strategyGuards...)
	switchChain = append(switchChain, handler.SwitchTaxStrategy)

	strategy := r.Group("/tax-strategy")
	{
		strategy.GET("", handler.GetTaxStrategy)
		strategy.PUT("", switchChain...)
	}
}
