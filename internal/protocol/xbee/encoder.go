package xbee

import (
	"errors"
	"fmt"
)

// MaxSourceRouteHops 源路由最大跳数
const MaxSourceRouteHops = 40

// 默认远程 AT 选项：立即应用修改
const DefaultRemoteATOptions = 0x02

var (
	ErrInvalidCommand = errors.New("invalid AT command")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrRouteTooLong   = errors.New("source route too long")
)

// FrameIDSequence 连接级帧 ID 计数器：每次 Next 自增，255 之后回到 1，从不产生 0
type FrameIDSequence struct {
	last byte
}

// Next 返回下一个帧 ID
func (s *FrameIDSequence) Next() byte {
	s.last++
	if s.last == 0 {
		s.last = 1
	}
	return s.last
}

// Last 返回最近一次分配的帧 ID（尚未分配时为 0）
func (s *FrameIDSequence) Last() byte { return s.last }

// Option 命令可选参数
type Option func(*cmdOptions)

type cmdOptions struct {
	radius  byte
	options *byte
}

// WithRadius 设置广播半径（发送数据帧，默认 0 表示最大跳数）
func WithRadius(r byte) Option { return func(o *cmdOptions) { o.radius = r } }

// WithOptions 设置选项字节（发送数据默认 0x00，远程 AT 默认 0x02）
func WithOptions(v byte) Option { return func(o *cmdOptions) { o.options = &v } }

func applyOptions(defaultOptions byte, opts []Option) cmdOptions {
	o := cmdOptions{}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.options == nil {
		o.options = &defaultOptions
	}
	return o
}

// Encoder 下行帧编码器，持有连接级帧 ID 计数器
// 非并发安全
type Encoder struct {
	ids FrameIDSequence
}

// NewEncoder 创建编码器
func NewEncoder() *Encoder { return &Encoder{} }

// LastFrameID 返回最近一次使用的帧 ID
func (e *Encoder) LastFrameID() byte { return e.ids.Last() }

// BuildFrame 构造一帧：7E lenHi lenLo type frameId content... checksum
// length = len(content) + 2；成功时消耗一个帧 ID
func (e *Encoder) BuildFrame(t FrameType, content []byte) (Frame, error) {
	if len(content)+2 > MaxContentLen {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(content))
	}
	id := e.ids.Next()
	return Frame{Type: t, ID: id, Bytes: buildFrame(t, id, content)}, nil
}

func buildFrame(t FrameType, id byte, content []byte) []byte {
	length := len(content) + 2
	buf := make([]byte, 0, 3+length+1)
	buf = append(buf, StartDelimiter, byte(length>>8), byte(length))
	buf = append(buf, byte(t), id)
	buf = append(buf, content...)
	return append(buf, CalculateChecksum(buf[3:]))
}

// ATCommand 本地 AT 命令（0x08）：两字节 ASCII 命令名 + 可选参数
func (e *Encoder) ATCommand(cmd string, params []byte) (Frame, error) {
	name, err := commandBytes(cmd)
	if err != nil {
		return Frame{}, err
	}
	content := append(name, params...)
	return e.BuildFrame(TypeATCommand, content)
}

// TransmitRequest 发送数据（0x10）：dest64[8] dest16[2] radius options data...
func (e *Encoder) TransmitRequest(dest64, dest16 Address, data []byte, opts ...Option) (Frame, error) {
	head, err := destination(dest64, dest16)
	if err != nil {
		return Frame{}, err
	}
	o := applyOptions(0x00, opts)
	content := append(head, o.radius, *o.options)
	content = append(content, data...)
	return e.BuildFrame(TypeTransmitRequest, content)
}

// TransmitText 发送字符串数据，每个字符按一个字节编码（字符码需 <= 0xFF）
func (e *Encoder) TransmitText(dest64, dest16 Address, text string, opts ...Option) (Frame, error) {
	data, err := textBytes(text)
	if err != nil {
		return Frame{}, err
	}
	return e.TransmitRequest(dest64, dest16, data, opts...)
}

// RemoteATCommand 远程 AT 命令（0x17）：dest64[8] dest16[2] options cmd[2] params...
func (e *Encoder) RemoteATCommand(dest64, dest16 Address, cmd string, params []byte, opts ...Option) (Frame, error) {
	head, err := destination(dest64, dest16)
	if err != nil {
		return Frame{}, err
	}
	name, err := commandBytes(cmd)
	if err != nil {
		return Frame{}, err
	}
	o := applyOptions(DefaultRemoteATOptions, opts)
	content := append(head, *o.options)
	content = append(content, name...)
	content = append(content, params...)
	return e.BuildFrame(TypeRemoteATCommand, content)
}

// CreateSourceRoute 创建源路由（0x21）：dest64[8] dest16[2] 0x00 n hop16[2]*n
func (e *Encoder) CreateSourceRoute(dest64, dest16 Address, route []Address) (Frame, error) {
	if len(route) > MaxSourceRouteHops {
		return Frame{}, fmt.Errorf("%w: %d hops, max %d", ErrRouteTooLong, len(route), MaxSourceRouteHops)
	}
	head, err := destination(dest64, dest16)
	if err != nil {
		return Frame{}, err
	}
	content := append(head, 0x00, byte(len(route)))
	for i, hop := range route {
		b, err := AddressToBytes(hop, Addr16Len)
		if err != nil {
			return Frame{}, fmt.Errorf("route hop %d: %w", i, err)
		}
		content = append(content, b...)
	}
	return e.BuildFrame(TypeCreateSourceRoute, content)
}

func destination(dest64, dest16 Address) ([]byte, error) {
	a64, err := AddressToBytes(dest64, Addr64Len)
	if err != nil {
		return nil, fmt.Errorf("dest64: %w", err)
	}
	a16, err := AddressToBytes(dest16, Addr16Len)
	if err != nil {
		return nil, fmt.Errorf("dest16: %w", err)
	}
	out := make([]byte, 0, Addr64Len+Addr16Len+4)
	out = append(out, a64...)
	return append(out, a16...), nil
}

func commandBytes(cmd string) ([]byte, error) {
	if len(cmd) != 2 || cmd[0] > 0x7F || cmd[1] > 0x7F {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCommand, cmd)
	}
	return []byte{cmd[0], cmd[1]}, nil
}

func textBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: character %q does not fit one byte", ErrInvalidPayload, r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
