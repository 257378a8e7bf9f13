package xbee

import "encoding/binary"

// 各类型负载（含类型字节）的最小长度
const (
	minATResponseLen       = 5
	minModemStatusLen      = 2
	minTransmitStatusLen   = 7
	minReceivePacketLen    = 12
	minIOSampleLen         = 16
	minRemoteATResponseLen = 15
)

// Interpreter 将帧负载映射为类型化记录
type Interpreter struct {
	names *StatusNames
}

// NewInterpreter 使用给定名称表创建解释器，nil 表示内置表
func NewInterpreter(names *StatusNames) *Interpreter {
	if names == nil {
		names = DefaultStatusNames()
	}
	return &Interpreter{names: names}
}

var defaultInterpreter = NewInterpreter(nil)

// Interpret 使用内置名称表解释负载
func Interpret(payload []byte) Record { return defaultInterpreter.Interpret(payload) }

// Interpret 解释一帧负载（payload[0] 为类型字节），总能返回一条记录：
// 未知类型或长度不足时退化为 *RawFrame
func (in *Interpreter) Interpret(payload []byte) Record {
	if len(payload) == 0 {
		return &RawFrame{}
	}
	p := payload
	switch FrameType(p[0]) {
	case TypeATResponse:
		if len(p) >= minATResponseLen {
			return &ATResponse{
				FrameID: p[1],
				Command: string([]byte{p[2], p[3]}),
				Status:  in.names.Lookup(KindCommand, p[4]),
				Data:    clone(p[5:]),
			}
		}
	case TypeModemStatus:
		if len(p) >= minModemStatusLen {
			return &ModemStatus{Status: in.names.Lookup(KindModem, p[1])}
		}
	case TypeTransmitStatus:
		if len(p) >= minTransmitStatusLen {
			return &TransmitStatus{
				FrameID:    p[1],
				Addr16:     AddressFromBytes(p[2:4]),
				RetryCount: p[4],
				Delivery:   in.names.Lookup(KindDelivery, p[5]),
				Discovery:  in.names.Lookup(KindDiscovery, p[6]),
			}
		}
	case TypeReceivePacket:
		if len(p) >= minReceivePacketLen {
			data := clone(p[12:])
			return &ReceivedData{
				Addr64:  AddressFromBytes(p[1:9]),
				Addr16:  AddressFromBytes(p[9:11]),
				Options: p[11],
				Data:    data,
				Text:    charString(data),
			}
		}
	case TypeIOSample:
		if len(p) >= minIOSampleLen {
			return decodeIOSample(p)
		}
	case TypeRemoteATResponse:
		if len(p) >= minRemoteATResponseLen {
			return &RemoteATResponse{
				FrameID: p[1],
				Addr64:  AddressFromBytes(p[2:10]),
				Addr16:  AddressFromBytes(p[10:12]),
				Command: string([]byte{p[12], p[13]}),
				Status:  in.names.Lookup(KindCommand, p[14]),
				Data:    clone(p[15:]),
			}
		}
	}
	return &RawFrame{Type: FrameType(p[0]), Data: clone(p)}
}

// decodeIOSample 布局：
// type | addr64[8] | addr16[2] | options | samples | dmask[2] | amask | dsample[2]? | analog[2]*n
// dsample 仅在任一数字通道启用时出现
func decodeIOSample(p []byte) *IOSample {
	s := &IOSample{
		Addr64:      AddressFromBytes(p[1:9]),
		Addr16:      AddressFromBytes(p[9:11]),
		Options:     p[11],
		SampleCount: p[12],
		DigitalMask: binary.BigEndian.Uint16(p[13:15]),
		AnalogMask:  p[15],
		Digital:     make(map[int]bool),
		Analog:      make(map[int]uint16),
	}
	off := 16
	if s.DigitalMask != 0 {
		if len(p) < off+2 {
			// 掩码声明了数字通道但缺少采样字节
			return s
		}
		sample := binary.BigEndian.Uint16(p[off : off+2])
		for ch := 0; ch < 16; ch++ {
			bit := uint16(1) << ch
			if s.DigitalMask&bit != 0 {
				s.Digital[ch] = sample&bit != 0
			}
		}
		off += 2
	}
	for ch := 0; ch < 8; ch++ {
		if s.AnalogMask&(1<<ch) == 0 {
			continue
		}
		if len(p) < off+2 {
			break
		}
		s.Analog[ch] = binary.BigEndian.Uint16(p[off : off+2])
		off += 2
	}
	return s
}

func charString(b []byte) string {
	r := make([]rune, len(b))
	for i, v := range b {
		r[i] = rune(v)
	}
	return string(r)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
