package xbee

import (
	"errors"
	"fmt"
)

// StartDelimiter API 帧起始符
const StartDelimiter = 0x7E

// MaxContentLen 长度字段可表示的最大内容长度
const MaxContentLen = 0xFFFF

// FrameType API 帧类型字节
type FrameType byte

// 下行（主机 -> 模块）
const (
	TypeATCommand         FrameType = 0x08
	TypeTransmitRequest   FrameType = 0x10
	TypeRemoteATCommand   FrameType = 0x17
	TypeCreateSourceRoute FrameType = 0x21
)

// 上行（模块 -> 主机）
const (
	TypeATResponse       FrameType = 0x88
	TypeModemStatus      FrameType = 0x8A
	TypeTransmitStatus   FrameType = 0x8B
	TypeReceivePacket    FrameType = 0x90
	TypeIOSample         FrameType = 0x92
	TypeRemoteATResponse FrameType = 0x97
)

var typeNames = map[FrameType]string{
	TypeATCommand:         "AT Command",
	TypeTransmitRequest:   "Transmit Request",
	TypeRemoteATCommand:   "Remote AT Command Request",
	TypeCreateSourceRoute: "Create Source Route",
	TypeATResponse:        "AT Command Response",
	TypeModemStatus:       "Modem Status",
	TypeTransmitStatus:    "Transmit Status",
	TypeReceivePacket:     "Received Data",
	TypeIOSample:          "Received IO Sample",
	TypeRemoteATResponse:  "Remote AT Command Response",
}

// String 返回帧类型名称，未知类型返回 0xNN
func (t FrameType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", byte(t))
}

// Label 指标标签用的两位十六进制
func (t FrameType) Label() string { return fmt.Sprintf("%02X", byte(t)) }

var (
	ErrShortFrame    = errors.New("short frame")
	ErrBadDelimiter  = errors.New("bad start delimiter")
	ErrBadLength     = errors.New("bad length")
	ErrFrameTooLarge = errors.New("frame content too large")
)

// Frame 编码后的下行帧
type Frame struct {
	Type  FrameType
	ID    byte   // 帧 ID（0 表示不需要应答）
	Bytes []byte // 完整帧：7E lenHi lenLo type id content... checksum
}
