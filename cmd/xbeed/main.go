package main

import (
	"errors"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-gateway/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/xbee-gateway/internal/config"
	"github.com/taoyao-code/xbee-gateway/internal/logging"
)

// parseFlags 解析命令行，返回配置文件路径（空表示走 $XBEE_CONFIG 或默认路径）
func parseFlags(args []string) (string, error) {
	fs := pflag.NewFlagSet("xbeed", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "config file (default: $XBEE_CONFIG or configs/xbeed.yaml)")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *configPath, nil
}

func main() {
	configPath, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// 1) 加载配置
	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	// 3) 启动
	if err := bootstrap.Run(cfg, zap.L()); err != nil {
		zap.L().Error("xbeed exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
