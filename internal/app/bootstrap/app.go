package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-gateway/internal/app"
	cfgpkg "github.com/taoyao-code/xbee-gateway/internal/config"
	"github.com/taoyao-code/xbee-gateway/internal/metrics"
	"github.com/taoyao-code/xbee-gateway/internal/protocol/xbee"
)

// Run 统一启动流程：链路打开后再对外报告就绪，链路断开或收到信号即退出
func Run(cfg *cfgpkg.Config, log *zap.Logger) error {
	log.Info("starting xbee gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("link", cfg.Link.Kind))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========== 阶段1: 基础组件 ==========
	reg, appm := app.NewMetrics()
	var metricsHandler http.Handler
	if cfg.Metrics.Enable {
		metricsHandler = metrics.Handler(reg)
	}

	var names *xbee.StatusNames
	if cfg.XBee.StatusNamesPath != "" {
		if n, err := xbee.LoadStatusNames(cfg.XBee.StatusNamesPath); err == nil {
			names = n
			log.Info("status names loaded", zap.String("path", cfg.XBee.StatusNamesPath))
		} else {
			log.Warn("load status names failed, using defaults", zap.Error(err))
		}
	}

	// ========== 阶段2: 打开链路（失败直接返回）==========
	link, err := app.OpenLink(ctx, cfg.Link, appm, log)
	if err != nil {
		log.Error("link open failed", zap.Error(err))
		return err
	}

	// ========== 阶段3: 协议连接 ==========
	opts := []xbee.ConnOption{
		xbee.WithLogger(log),
		xbee.WithMaxFrameLen(cfg.XBee.MaxFrameLen),
	}
	if names != nil {
		opts = append(opts, xbee.WithStatusNames(names))
	}
	opts = append(opts, app.ConnMetricsOptions(appm)...)
	conn := xbee.NewConn(link, opts...)
	conn.OnData(app.CountDecoded(appm))
	conn.OnData(app.LogRecords(log))
	app.BindAdapter(link, conn, log.With(zap.String("conn", conn.ID())))
	log.Info("xbee connection ready", zap.String("conn", conn.ID()))

	// ========== 阶段4: HTTP 服务（非阻塞）==========
	httpSrv := app.NewHTTPServer(cfg.HTTP, cfg.Metrics.Path, metricsHandler, link.Up)
	healthAgg := app.NewHealthAggregator(link, cfg.Link.Kind, conn)
	httpSrv.Register(func(r *gin.Engine) {
		app.RegisterHealthRoutes(r, healthAgg)
	})
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
		}
	}()
	log.Info("http server started", zap.String("addr", cfg.HTTP.Addr))

	// ========== 阶段5: 链路读写循环 ==========
	runErr := make(chan error, 1)
	go func() { runErr <- link.Run(ctx) }()
	appm.LinkUp.Set(1)

	if n := app.SendStartupCommands(conn, cfg.XBee.StartupCommands, log); n > 0 {
		log.Warn("some startup commands failed", zap.Int("failed", n))
	}

	// ========== 阶段6: 等待退出 ==========
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, gracefully shutting down...")
		err = <-runErr
	case err = <-runErr:
		log.Error("link closed", zap.Error(err))
	}
	appm.LinkUp.Set(0)

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(sctx)
	log.Info("http server stopped")

	st := conn.Stats()
	log.Info("shutdown complete",
		zap.Uint64("frames", st.Frames),
		zap.Uint64("dropped", st.Dropped),
		zap.Uint64("discarded", st.Discarded))

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
