package xbee

import "sync/atomic"

// DropReason 丢弃帧的原因
type DropReason string

const (
	DropChecksum DropReason = "checksum"
	DropTooLong  DropReason = "too_long"
)

// DropFunc 丢帧诊断回调，frame 为包含起始符的原始字节副本
type DropFunc func(reason DropReason, frame []byte)

// Stats 解码统计
type Stats struct {
	Frames    uint64 // 校验通过并输出的帧
	Dropped   uint64 // 校验失败或超长被丢弃的帧
	Discarded uint64 // 空闲状态下丢弃的非起始符字节
}

// Parse 严格解析一整帧：7E lenHi lenLo content... checksum
func Parse(raw []byte) (Record, error) {
	if len(raw) < 4 {
		return nil, ErrShortFrame
	}
	if raw[0] != StartDelimiter {
		return nil, ErrBadDelimiter
	}
	length := int(raw[1])<<8 | int(raw[2])
	if len(raw) != 3+length+1 {
		return nil, ErrBadLength
	}
	if err := VerifyChecksum(raw[3:]); err != nil {
		return nil, err
	}
	return Interpret(raw[3 : 3+length]), nil
}

// StreamDecoder 流式解码器：处理任意切分的字节流（半包/粘包）
//
// 状态：空闲（寻找 0x7E，其它字节丢弃）-> 等待长度 -> 等待内容与校验和 -> 完成后回到空闲。
// 只有空闲状态才会寻找起始符，帧内出现的 0x7E 按普通数据处理。
// 校验失败的帧静默丢弃，可通过 SetDropHook / Stats 观察。
// 非并发安全，同一连接的 Feed 调用需串行；Stats 例外。
type StreamDecoder struct {
	buf         []byte // 起始符之后已收到的字节
	inFrame     bool
	maxFrameLen int // 允许的最大内容长度（长度字段值）
	interp      *Interpreter
	onDrop      DropFunc

	// 计数器可在其它协程读取（健康检查），其余字段只属于 Feed 所在协程
	frames    atomic.Uint64
	dropped   atomic.Uint64
	discarded atomic.Uint64
}

// NewStreamDecoder 创建流式解码器，maxFrameLen<=0 时不限制（按长度字段上限）
func NewStreamDecoder(maxFrameLen int) *StreamDecoder {
	if maxFrameLen <= 0 || maxFrameLen > MaxContentLen {
		maxFrameLen = MaxContentLen
	}
	return &StreamDecoder{maxFrameLen: maxFrameLen, interp: defaultInterpreter}
}

// SetInterpreter 替换帧解释器（如加载了自定义状态名称表）
func (d *StreamDecoder) SetInterpreter(in *Interpreter) {
	if in != nil {
		d.interp = in
	}
}

// SetDropHook 安装丢帧回调
func (d *StreamDecoder) SetDropHook(fn DropFunc) { d.onDrop = fn }

// Feed 追加数据并解出所有完整帧，按到达顺序返回
func (d *StreamDecoder) Feed(p []byte) []Record {
	var out []Record
	for _, b := range p {
		if !d.inFrame {
			if b != StartDelimiter {
				d.discarded.Add(1)
				continue
			}
			d.inFrame = true
			d.buf = d.buf[:0]
			continue
		}

		d.buf = append(d.buf, b)
		if len(d.buf) < 2 {
			continue
		}
		length := int(d.buf[0])<<8 | int(d.buf[1])
		if len(d.buf) == 2 && length > d.maxFrameLen {
			d.drop(DropTooLong)
			continue
		}
		// 长度字段 + 内容 + 校验和
		if len(d.buf) < 2+length+1 {
			continue
		}

		content := d.buf[2:]
		if err := VerifyChecksum(content); err != nil {
			d.drop(DropChecksum)
			continue
		}
		out = append(out, d.interp.Interpret(content[:length]))
		d.frames.Add(1)
		d.reset()
	}
	return out
}

// Pending 返回当前半包已缓存的字节数（含起始符），空闲时为 0
func (d *StreamDecoder) Pending() int {
	if !d.inFrame {
		return 0
	}
	return 1 + len(d.buf)
}

// Stats 返回解码统计快照，可与 Feed 并发调用
func (d *StreamDecoder) Stats() Stats {
	return Stats{
		Frames:    d.frames.Load(),
		Dropped:   d.dropped.Load(),
		Discarded: d.discarded.Load(),
	}
}

// Reset 丢弃半包，回到空闲状态
func (d *StreamDecoder) Reset() { d.reset() }

func (d *StreamDecoder) drop(reason DropReason) {
	d.dropped.Add(1)
	if d.onDrop != nil {
		frame := make([]byte, 0, 1+len(d.buf))
		frame = append(frame, StartDelimiter)
		frame = append(frame, d.buf...)
		d.onDrop(reason, frame)
	}
	d.reset()
}

func (d *StreamDecoder) reset() {
	d.inFrame = false
	d.buf = d.buf[:0]
}
