package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/xbee-gateway/internal/config"
	"github.com/taoyao-code/xbee-gateway/internal/metrics"
	"github.com/taoyao-code/xbee-gateway/internal/transport"
)

// OpenLink 打开模块链路并挂上字节计数
func OpenLink(ctx context.Context, cfg cfgpkg.LinkConfig, appm *metrics.AppMetrics, log *zap.Logger) (*transport.Link, error) {
	rwc, err := transport.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s link: %w", cfg.Kind, err)
	}
	link := transport.New(rwc, transport.OptionsFrom(cfg), log)
	if appm != nil {
		link.SetMetricsCallbacks(
			func(n int) { appm.BytesReceived.Add(float64(n)) },
			func(n int) { appm.BytesSent.Add(float64(n)) },
		)
	}
	return link, nil
}
