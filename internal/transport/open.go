package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"go.bug.st/serial"

	cfgpkg "github.com/taoyao-code/xbee-gateway/internal/config"
)

// Open 按配置打开模块连接：本地串口（8N1）或 TCP 串口桥
func Open(ctx context.Context, cfg cfgpkg.LinkConfig) (io.ReadWriteCloser, error) {
	switch strings.ToLower(cfg.Kind) {
	case cfgpkg.LinkSerial:
		return openSerial(cfg)
	case cfgpkg.LinkTCP:
		var d net.Dialer
		c, err := d.DialContext(ctx, "tcp", cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", cfg.Addr, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown link kind %q", cfg.Kind)
	}
}

func openSerial(cfg cfgpkg.LinkConfig) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Device, err)
	}
	if cfg.ReadTimeout > 0 {
		// 超时返回 0 字节，读循环借此检查关闭状态
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
	}
	return port, nil
}

// OptionsFrom 由链路配置生成读写参数
func OptionsFrom(cfg cfgpkg.LinkConfig) Options {
	return Options{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		WriteQueue:   cfg.WriteQueue,
	}
}
