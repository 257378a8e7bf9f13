package health

import (
	"context"
	"time"
)

// LinkState 模块链路状态
type LinkState interface {
	Up() bool
}

// LinkChecker 链路检查：链路关闭即不健康
type LinkChecker struct {
	link LinkState
	kind string
}

// NewLinkChecker 创建链路检查器，kind 为 serial/tcp
func NewLinkChecker(link LinkState, kind string) *LinkChecker {
	return &LinkChecker{link: link, kind: kind}
}

func (c *LinkChecker) Name() string { return "link" }

func (c *LinkChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	details := map[string]any{"kind": c.kind}
	if c.link == nil || !c.link.Up() {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "link closed",
			Details: details,
			Latency: time.Since(start),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: details,
		Latency: time.Since(start),
	}
}
