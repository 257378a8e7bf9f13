package xbee

import "sort"

// Record 解码后的上行帧；每种已知帧类型一个实现，未知类型为 *RawFrame
type Record interface {
	FrameType() FrameType
	// Describe 返回记录的可读类别
	Describe() string
}

// ATResponse 0x88 本地 AT 命令应答
type ATResponse struct {
	FrameID byte
	Command string
	Status  Status
	Data    []byte
}

// ModemStatus 0x8A 模块状态
type ModemStatus struct {
	Status Status
}

// TransmitStatus 0x8B 发送状态
type TransmitStatus struct {
	FrameID    byte
	Addr16     Addr
	RetryCount byte
	Delivery   Status
	Discovery  Status
}

// ReceivedData 0x90 接收数据
type ReceivedData struct {
	Addr64  Addr
	Addr16  Addr
	Options byte
	Data    []byte
	Text    string // 每个字节按一个字符码解释
}

// IOSample 0x92 IO 采样
// Digital 通道 0-15，Analog 通道 0-7，仅包含掩码中启用的通道
type IOSample struct {
	Addr64      Addr
	Addr16      Addr
	Options     byte
	SampleCount byte
	DigitalMask uint16
	AnalogMask  byte
	Digital     map[int]bool
	Analog      map[int]uint16
}

// RemoteATResponse 0x97 远程 AT 命令应答
type RemoteATResponse struct {
	FrameID byte
	Addr64  Addr
	Addr16  Addr
	Command string
	Status  Status
	Data    []byte
}

// RawFrame 未识别（或长度不足）的帧，Data 为包含类型字节在内的原始负载
type RawFrame struct {
	Type FrameType
	Data []byte
}

func (*ATResponse) FrameType() FrameType       { return TypeATResponse }
func (*ModemStatus) FrameType() FrameType      { return TypeModemStatus }
func (*TransmitStatus) FrameType() FrameType   { return TypeTransmitStatus }
func (*ReceivedData) FrameType() FrameType     { return TypeReceivePacket }
func (*IOSample) FrameType() FrameType         { return TypeIOSample }
func (*RemoteATResponse) FrameType() FrameType { return TypeRemoteATResponse }
func (r *RawFrame) FrameType() FrameType       { return r.Type }

func (*ATResponse) Describe() string       { return "AT Command" }
func (*ModemStatus) Describe() string      { return "Modem Status" }
func (*TransmitStatus) Describe() string   { return "Transmit Data" }
func (*ReceivedData) Describe() string     { return "Received Data" }
func (*IOSample) Describe() string         { return "Received IO Sample" }
func (*RemoteATResponse) Describe() string { return "Remote AT Command" }
func (*RawFrame) Describe() string         { return "Raw" }

// DigitalChannels 返回已启用的数字通道（升序）
func (s *IOSample) DigitalChannels() []int { return sortedKeys(s.Digital) }

// AnalogChannels 返回已读取的模拟通道（升序）
func (s *IOSample) AnalogChannels() []int { return sortedKeys(s.Analog) }

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
