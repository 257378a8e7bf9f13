package app

import (
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-gateway/internal/protocol/xbee"
)

// RecordFields 将上行记录展开为日志字段
func RecordFields(rec xbee.Record) []zap.Field {
	fields := []zap.Field{
		zap.String("type", rec.FrameType().Label()),
		zap.String("kind", rec.Describe()),
	}
	switch r := rec.(type) {
	case *xbee.ATResponse:
		fields = append(fields,
			zap.Uint8("frame_id", r.FrameID),
			zap.String("command", r.Command),
			zap.Stringer("status", r.Status),
			zap.String("data", hex.EncodeToString(r.Data)))
	case *xbee.ModemStatus:
		fields = append(fields, zap.Stringer("status", r.Status))
	case *xbee.TransmitStatus:
		fields = append(fields,
			zap.Uint8("frame_id", r.FrameID),
			zap.String("addr16", r.Addr16.Hex),
			zap.Uint8("retries", r.RetryCount),
			zap.Stringer("delivery", r.Delivery),
			zap.Stringer("discovery", r.Discovery))
	case *xbee.ReceivedData:
		fields = append(fields,
			zap.String("addr64", r.Addr64.Hex),
			zap.String("addr16", r.Addr16.Hex),
			zap.Uint8("options", r.Options),
			zap.String("data", hex.EncodeToString(r.Data)))
	case *xbee.IOSample:
		fields = append(fields,
			zap.String("addr64", r.Addr64.Hex),
			zap.String("addr16", r.Addr16.Hex),
			zap.Uint8("samples", r.SampleCount),
			zap.Any("digital", r.Digital),
			zap.Any("analog", r.Analog))
	case *xbee.RemoteATResponse:
		fields = append(fields,
			zap.Uint8("frame_id", r.FrameID),
			zap.String("addr64", r.Addr64.Hex),
			zap.String("addr16", r.Addr16.Hex),
			zap.String("command", r.Command),
			zap.Stringer("status", r.Status),
			zap.String("data", hex.EncodeToString(r.Data)))
	case *xbee.RawFrame:
		fields = append(fields, zap.String("data", hex.EncodeToString(r.Data)))
	}
	return fields
}

// LogRecords 以 Info 级别记录每条上行记录
func LogRecords(log *zap.Logger) func(xbee.Record) {
	return func(rec xbee.Record) {
		log.Info("xbee frame", RecordFields(rec)...)
	}
}
