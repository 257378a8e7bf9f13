package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taoyao-code/xbee-gateway/internal/metrics"
	"github.com/taoyao-code/xbee-gateway/internal/protocol/xbee"
)

// NewMetrics 初始化注册表与应用指标
func NewMetrics() (*prometheus.Registry, *metrics.AppMetrics) {
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)
	return reg, appm
}

// ConnMetricsOptions 将丢帧与发送回调接到指标上
func ConnMetricsOptions(appm *metrics.AppMetrics) []xbee.ConnOption {
	return []xbee.ConnOption{
		xbee.WithDropHook(func(reason xbee.DropReason, _ []byte) {
			appm.FramesDropped.WithLabelValues(string(reason)).Inc()
		}),
		xbee.WithSentHook(func(t xbee.FrameType, _ int) {
			appm.FramesSent.WithLabelValues(t.Label()).Inc()
		}),
	}
}

// CountDecoded 上行记录计数，按帧类型分标签
func CountDecoded(appm *metrics.AppMetrics) func(xbee.Record) {
	return func(rec xbee.Record) {
		appm.FramesDecoded.WithLabelValues(rec.FrameType().Label()).Inc()
	}
}
