package correlation

import (
	"context"
	"errors"
	"sync"

	"github.com/go-gotop/ems/session"
)

var (
	// ErrNotPrepared Wait 前未调用 Prepare
	ErrNotPrepared = errors.New("correlation id not prepared for waiting")
)

// Waiter 在异步事件队列上实现同步请求/响应
// 调用方线程按关联ID停靠, 由分发循环用终结消息唤醒
// 超时策略由调用方的 context 决定, 这里不设内置超时
type Waiter struct {
	mux     sync.Mutex
	pending map[session.CorrelationID]chan *session.Message
}

func NewWaiter() *Waiter {
	return &Waiter{
		pending: make(map[session.CorrelationID]chan *session.Message),
	}
}

// Prepare 在发送请求之前停靠一个请求上下文
// 必须先 Prepare 再发送, 否则响应可能先于停靠到达
func (w *Waiter) Prepare(id session.CorrelationID) {
	w.mux.Lock()
	defer w.mux.Unlock()

	if _, ok := w.pending[id]; ok {
		return
	}
	w.pending[id] = make(chan *session.Message, 1)
}

// Deliver 由分发循环调用, 用终结消息唤醒停靠的调用方
// 返回 false 表示没有调用方在等待该关联ID
// 停靠条目保留到 Wait 消费为止, 响应先于 Wait 到达时缓冲在通道里
func (w *Waiter) Deliver(id session.CorrelationID, msg *session.Message) bool {
	w.mux.Lock()
	ch, ok := w.pending[id]
	w.mux.Unlock()

	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		// 同一关联ID的重复终结消息
		return false
	}
}

// Wait 阻塞直到终结消息到达或 ctx 结束
// 消费后停靠条目被清除, 同一关联ID不能二次 Wait
func (w *Waiter) Wait(ctx context.Context, id session.CorrelationID) (*session.Message, error) {
	w.mux.Lock()
	ch, ok := w.pending[id]
	w.mux.Unlock()

	if !ok {
		return nil, ErrNotPrepared
	}

	select {
	case msg := <-ch:
		w.Abandon(id)
		return msg, nil
	case <-ctx.Done():
		w.Abandon(id)
		return nil, ctx.Err()
	}
}

// Abandon 放弃等待, 幂等
// 之后到达的响应按孤儿响应处理
func (w *Waiter) Abandon(id session.CorrelationID) {
	w.mux.Lock()
	defer w.mux.Unlock()

	delete(w.pending, id)
}
