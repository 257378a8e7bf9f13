package app

import (
	"go.uber.org/zap"

	padapter "github.com/taoyao-code/xbee-gateway/internal/protocol/adapter"
)

// ReadSource 可安装读回调的链路
type ReadSource interface {
	SetOnRead(func([]byte))
}

// sniffLen 用于初判的前缀长度
const sniffLen = 8

// BindAdapter 为链路安装 onRead：首块数据做一次初判，之后直通处理
// 初判失败只告警（模块可能未处于 API 模式），数据仍交给解码器重新同步
func BindAdapter(src ReadSource, a padapter.Adapter, log *zap.Logger) {
	var sniffed bool
	src.SetOnRead(func(p []byte) {
		if !sniffed && len(p) > 0 {
			sniffed = true
			pref := p
			if len(pref) > sniffLen {
				pref = pref[:sniffLen]
			}
			if !a.Sniff(pref) {
				log.Warn("link data does not start with an API frame, check AP mode",
					zap.Binary("prefix", pref))
			}
		}
		if err := a.ProcessBytes(p); err != nil {
			log.Warn("xbee handler error", zap.Error(err))
		}
	})
}
