package app

import (
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-gateway/internal/protocol/xbee"
)

// ATSender 发送本地 AT 命令
type ATSender interface {
	SendAT(cmd string, params []byte) (byte, error)
}

// ParseStartupCommand 解析 "CH" 或 "NJ=FF" 形式的启动命令，参数为十六进制
func ParseStartupCommand(s string) (string, []byte, error) {
	cmd, param, hasParam := strings.Cut(strings.TrimSpace(s), "=")
	cmd = strings.ToUpper(strings.TrimSpace(cmd))
	if len(cmd) != 2 {
		return "", nil, fmt.Errorf("startup command %q: %w", s, xbee.ErrInvalidCommand)
	}
	if !hasParam {
		return cmd, nil, nil
	}
	param = strings.TrimSpace(param)
	if len(param)%2 == 1 {
		param = "0" + param
	}
	b, err := hex.DecodeString(param)
	if err != nil {
		return "", nil, fmt.Errorf("startup command %q: %w", s, err)
	}
	return cmd, b, nil
}

// SendStartupCommands 依次发送启动命令；单条失败只记录日志，返回失败条数
func SendStartupCommands(s ATSender, cmds []string, log *zap.Logger) int {
	failed := 0
	for _, line := range cmds {
		cmd, params, err := ParseStartupCommand(line)
		if err == nil {
			var id byte
			id, err = s.SendAT(cmd, params)
			if err == nil {
				log.Info("startup command sent", zap.String("command", cmd), zap.Uint8("frame_id", id))
				continue
			}
		}
		failed++
		log.Warn("startup command failed", zap.String("line", line), zap.Error(err))
	}
	return failed
}
