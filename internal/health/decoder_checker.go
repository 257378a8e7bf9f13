package health

import (
	"context"
	"fmt"
	"time"

	"github.com/taoyao-code/xbee-gateway/internal/protocol/xbee"
)

// DefaultDropRatio 丢帧比例超过该值视为降级
const DefaultDropRatio = 0.2

// StatsSource 提供解码统计
type StatsSource interface {
	Stats() xbee.Stats
}

// DecoderChecker 按累计丢帧比例判断线路质量
type DecoderChecker struct {
	src       StatsSource
	threshold float64
}

// NewDecoderChecker threshold <= 0 时使用 DefaultDropRatio
func NewDecoderChecker(src StatsSource, threshold float64) *DecoderChecker {
	if threshold <= 0 {
		threshold = DefaultDropRatio
	}
	return &DecoderChecker{src: src, threshold: threshold}
}

func (c *DecoderChecker) Name() string { return "decoder" }

func (c *DecoderChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	st := c.src.Stats()
	details := map[string]any{
		"frames":    st.Frames,
		"dropped":   st.Dropped,
		"discarded": st.Discarded,
	}

	total := st.Frames + st.Dropped
	if total == 0 {
		return CheckResult{Status: StatusHealthy, Message: "no frames yet", Details: details, Latency: time.Since(start)}
	}

	ratio := float64(st.Dropped) / float64(total)
	details["drop_ratio"] = fmt.Sprintf("%.1f%%", ratio*100)
	if ratio > c.threshold {
		return CheckResult{Status: StatusDegraded, Message: "high drop ratio", Details: details, Latency: time.Since(start)}
	}
	return CheckResult{Status: StatusHealthy, Message: "ok", Details: details, Latency: time.Since(start)}
}
