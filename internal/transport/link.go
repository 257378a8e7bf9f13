package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrLinkClosed        = errors.New("link closed")
	ErrWriteQueueTimeout = errors.New("write queue timeout")
)

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// Options 链路读写参数
type Options struct {
	ReadTimeout  time.Duration // 单次读超时，超时后继续读
	WriteTimeout time.Duration // 写队列入队超时
	WriteQueue   int
}

// Link 包装一个串口/TCP 连接：单协程读循环投递字节块，写队列异步写出
// 读回调只在读协程中串行调用，同一连接的解码无需额外加锁
type Link struct {
	rwc    io.ReadWriteCloser
	opts   Options
	writeC chan []byte
	closed int32
	doneC  chan struct{}
	once   sync.Once
	logger *zap.Logger

	onRead      func([]byte)
	onRecvBytes func(n int)
	onSentBytes func(n int)
}

// New 创建链路；Run 之前需安装读回调
func New(rwc io.ReadWriteCloser, opts Options, logger *zap.Logger) *Link {
	if opts.WriteQueue <= 0 {
		opts.WriteQueue = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Link{
		rwc:    rwc,
		opts:   opts,
		writeC: make(chan []byte, opts.WriteQueue),
		doneC:  make(chan struct{}),
		logger: logger,
	}
}

// SetOnRead 安装读取回调（收到上行原始字节时触发）
func (l *Link) SetOnRead(h func([]byte)) { l.onRead = h }

// SetMetricsCallbacks 设置收发字节数回调
func (l *Link) SetMetricsCallbacks(onRecv, onSent func(int)) {
	l.onRecvBytes, l.onSentBytes = onRecv, onSent
}

// Up 链路是否仍然打开
func (l *Link) Up() bool { return atomic.LoadInt32(&l.closed) == 0 }

// Done 返回链路关闭通知通道
func (l *Link) Done() <-chan struct{} { return l.doneC }

// Write 异步写入，受写队列与入队超时影响
func (l *Link) Write(b []byte) error {
	if !l.Up() {
		return ErrLinkClosed
	}
	// 复制一份，避免调用方复用底层切片
	dup := make([]byte, len(b))
	copy(dup, b)
	t := time.NewTimer(l.opts.WriteTimeout)
	defer t.Stop()
	select {
	case l.writeC <- dup:
		return nil
	case <-l.doneC:
		return ErrLinkClosed
	case <-t.C:
		return ErrWriteQueueTimeout
	}
}

// Close 关闭链路
func (l *Link) Close() error {
	var err error
	l.once.Do(func() {
		atomic.StoreInt32(&l.closed, 1)
		close(l.doneC)
		err = l.rwc.Close()
	})
	return err
}

// Run 启动读/写循环，阻塞直至链路出错或 ctx 取消；返回时链路已关闭
func (l *Link) Run(ctx context.Context) error {
	defer l.Close()

	go func() {
		select {
		case <-ctx.Done():
			_ = l.Close()
		case <-l.doneC:
		}
	}()

	// 写循环
	doneW := make(chan struct{})
	go func() {
		defer close(doneW)
		for {
			select {
			case <-l.doneC:
				return
			case msg := <-l.writeC:
				n, err := l.rwc.Write(msg)
				if n > 0 && l.onSentBytes != nil {
					l.onSentBytes(n)
				}
				if err != nil {
					l.logger.Warn("link write failed", zap.Error(err))
					_ = l.Close()
					return
				}
			}
		}
	}()

	err := l.readLoop()
	_ = l.Close()
	<-doneW
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (l *Link) readLoop() error {
	rd, canDeadline := l.rwc.(readDeadliner)
	buf := make([]byte, 4096)
	for {
		if canDeadline && l.opts.ReadTimeout > 0 {
			_ = rd.SetReadDeadline(time.Now().Add(l.opts.ReadTimeout))
		}
		n, err := l.rwc.Read(buf)
		if n > 0 {
			if l.onRecvBytes != nil {
				l.onRecvBytes(n)
			}
			if l.onRead != nil {
				l.onRead(buf[:n])
			}
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() && l.Up() {
				continue
			}
			if !l.Up() {
				return nil
			}
			return err
		}
		if !l.Up() {
			return nil
		}
	}
}
