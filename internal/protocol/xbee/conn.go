package xbee

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Writer 下行字节写出（由传输链路实现）
type Writer interface {
	Write(b []byte) error
}

// SentFunc 下行帧写出成功后的回调（用于指标）
type SentFunc func(t FrameType, n int)

// Conn 一个模块连接：流式解码上行字节并分发记录，编码并写出下行命令
//
// 解码缓冲与帧 ID 计数器属于连接实例，内部不加锁；调用方需保证同一连接的
// ProcessBytes 与各发送方法串行执行（例如由单个读协程投递字节）。Stats 可并发读取。
type Conn struct {
	id     string
	w      Writer
	dec    *StreamDecoder
	enc    *Encoder
	table  *Table
	subs   []func(Record)
	onDrop DropFunc
	onSent SentFunc
	logger *zap.Logger
}

// ConnOption 连接选项
type ConnOption func(*Conn)

// WithLogger 设置日志器
func WithLogger(l *zap.Logger) ConnOption {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatusNames 使用自定义状态名称表解释上行帧
func WithStatusNames(n *StatusNames) ConnOption {
	return func(c *Conn) { c.dec.SetInterpreter(NewInterpreter(n)) }
}

// WithMaxFrameLen 设置允许的最大内容长度
func WithMaxFrameLen(n int) ConnOption {
	return func(c *Conn) {
		in := c.dec.interp
		c.dec = NewStreamDecoder(n)
		c.dec.SetInterpreter(in)
	}
}

// WithDropHook 设置丢帧诊断回调
func WithDropHook(fn DropFunc) ConnOption { return func(c *Conn) { c.onDrop = fn } }

// WithSentHook 设置下行写出回调
func WithSentHook(fn SentFunc) ConnOption { return func(c *Conn) { c.onSent = fn } }

// NewConn 创建连接；w 为 nil 时发送方法返回错误
func NewConn(w Writer, opts ...ConnOption) *Conn {
	c := &Conn{
		id:     uuid.New().String(),
		w:      w,
		dec:    NewStreamDecoder(0),
		enc:    NewEncoder(),
		table:  NewTable(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.dec.SetDropHook(c.handleDrop)
	return c
}

// ID 连接会话 ID（日志关联用）
func (c *Conn) ID() string { return c.id }

// OnData 订阅解码记录，每个校验通过的帧回调一次，按注册顺序调用
func (c *Conn) OnData(fn func(Record)) {
	if fn != nil {
		c.subs = append(c.subs, fn)
	}
}

// Handle 按帧类型注册处理器，处理器错误由 ProcessBytes 返回
func (c *Conn) Handle(t FrameType, h Handler) { c.table.Register(t, h) }

// Sniff 粗略判断是否为 API 帧（首字节为起始符）
func (c *Conn) Sniff(prefix []byte) bool {
	return len(prefix) > 0 && prefix[0] == StartDelimiter
}

// ProcessBytes 处理上行字节块：解码、通知订阅者并路由
// 解码失败不会返回错误；仅处理器错误被汇总返回
func (c *Conn) ProcessBytes(p []byte) error {
	var errs []error
	for _, rec := range c.dec.Feed(p) {
		if _, raw := rec.(*RawFrame); raw {
			c.logger.Debug("xbee unknown frame type",
				zap.String("conn", c.id),
				zap.String("type", rec.FrameType().Label()))
		}
		for _, fn := range c.subs {
			fn(rec)
		}
		if err := c.table.Route(rec); err != nil {
			errs = append(errs, fmt.Errorf("handle %s: %w", rec.FrameType(), err))
		}
	}
	return errors.Join(errs...)
}

// Stats 返回解码统计，可在其它协程调用
func (c *Conn) Stats() Stats { return c.dec.Stats() }

// SendAT 发送本地 AT 命令，返回所用帧 ID
func (c *Conn) SendAT(cmd string, params []byte) (byte, error) {
	return c.send(c.enc.ATCommand(cmd, params))
}

// TransmitData 向目标节点发送数据
func (c *Conn) TransmitData(dest64, dest16 Address, data []byte, opts ...Option) (byte, error) {
	return c.send(c.enc.TransmitRequest(dest64, dest16, data, opts...))
}

// TransmitText 向目标节点发送字符串（每字符一字节）
func (c *Conn) TransmitText(dest64, dest16 Address, text string, opts ...Option) (byte, error) {
	return c.send(c.enc.TransmitText(dest64, dest16, text, opts...))
}

// SendRemoteAT 发送远程 AT 命令
func (c *Conn) SendRemoteAT(dest64, dest16 Address, cmd string, params []byte, opts ...Option) (byte, error) {
	return c.send(c.enc.RemoteATCommand(dest64, dest16, cmd, params, opts...))
}

// CreateSourceRoute 为目标节点写入源路由
func (c *Conn) CreateSourceRoute(dest64, dest16 Address, route []Address) (byte, error) {
	return c.send(c.enc.CreateSourceRoute(dest64, dest16, route))
}

func (c *Conn) send(f Frame, err error) (byte, error) {
	if err != nil {
		return 0, err
	}
	if c.w == nil {
		return f.ID, errors.New("xbee: no writer")
	}
	if err := c.w.Write(f.Bytes); err != nil {
		return f.ID, fmt.Errorf("write %s frame %d: %w", f.Type, f.ID, err)
	}
	if c.onSent != nil {
		c.onSent(f.Type, len(f.Bytes))
	}
	c.logger.Debug("xbee frame sent",
		zap.String("conn", c.id),
		zap.String("type", f.Type.String()),
		zap.Uint8("frame_id", f.ID),
		zap.Int("len", len(f.Bytes)))
	return f.ID, nil
}

func (c *Conn) handleDrop(reason DropReason, frame []byte) {
	c.logger.Debug("xbee frame dropped",
		zap.String("conn", c.id),
		zap.String("reason", string(reason)),
		zap.Int("len", len(frame)))
	if c.onDrop != nil {
		c.onDrop(reason, frame)
	}
}
