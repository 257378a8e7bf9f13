package adapter

// Adapter 协议适配器接口：由传输链路绑定
// - Sniff 用首块数据判断对端是否在说本协议
// - ProcessBytes 处理来自链路的原始字节流（内部负责半包/粘包）
type Adapter interface {
	Sniff(prefix []byte) bool
	ProcessBytes(p []byte) error
}
