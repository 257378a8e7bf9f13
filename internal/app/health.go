package app

import (
	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/xbee-gateway/internal/health"
)

// NewHealthAggregator 链路与解码质量两项检查
func NewHealthAggregator(link health.LinkState, kind string, stats health.StatsSource) *health.Aggregator {
	return health.NewAggregator(
		health.NewLinkChecker(link, kind),
		health.NewDecoderChecker(stats, health.DefaultDropRatio),
	)
}

// RegisterHealthRoutes 注册健康检查HTTP路由
func RegisterHealthRoutes(r *gin.Engine, aggregator *health.Aggregator) {
	health.RegisterHTTPRoutes(r, aggregator)
}
