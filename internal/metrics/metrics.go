package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 协议与链路指标
type AppMetrics struct {
	FramesDecoded *prometheus.CounterVec // labels: type
	FramesDropped *prometheus.CounterVec // labels: reason
	FramesSent    *prometheus.CounterVec // labels: type
	BytesReceived prometheus.Counter
	BytesSent     prometheus.Counter
	LinkUp        prometheus.Gauge
}

// NewAppMetrics 注册并返回指标
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbee_frames_decoded_total",
			Help: "Validated inbound API frames by frame type.",
		}, []string{"type"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbee_frames_dropped_total",
			Help: "Inbound API frames dropped by reason.",
		}, []string{"reason"}),
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbee_frames_sent_total",
			Help: "Outbound API frames written by frame type.",
		}, []string{"type"}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xbee_link_bytes_received_total",
			Help: "Total bytes read from the radio link.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xbee_link_bytes_sent_total",
			Help: "Total bytes written to the radio link.",
		}),
		LinkUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xbee_link_up",
			Help: "1 while the radio link is open.",
		}),
	}
	reg.MustRegister(m.FramesDecoded, m.FramesDropped, m.FramesSent, m.BytesReceived, m.BytesSent, m.LinkUp)
	return m
}
