package xbee

import "sync"

// Handler 按帧类型注册的处理器
type Handler func(Record) error

// Table 路由表（帧类型 -> 处理器）
type Table struct {
	mu       sync.RWMutex
	handlers map[FrameType]Handler
}

func NewTable() *Table { return &Table{handlers: make(map[FrameType]Handler)} }

func (t *Table) Register(ft FrameType, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[ft] = h
}

func (t *Table) Route(r Record) error {
	t.mu.RLock()
	h := t.handlers[r.FrameType()]
	t.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h(r)
}
