package correlation

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gotop/ems/session"
)

var (
	// ErrDuplicateCorrelationID 重复注册关联ID, 属于编程错误, 不可恢复
	ErrDuplicateCorrelationID = errors.New("correlation id already registered")
)

// OpKind 挂起操作的类型
type OpKind string

const (
	KindSubscribe    OpKind = "SUBSCRIBE"
	KindUnsubscribe  OpKind = "UNSUBSCRIBE"
	KindQuery        OpKind = "QUERY"
	KindOrderRequest OpKind = "ORDER_REQUEST"
)

// Operation 是等待结果的逻辑操作
// 请求发出时创建, 终结响应到达或被放弃时销毁
type Operation struct {
	ID        session.CorrelationID
	Kind      OpKind
	Handler   func(msg *session.Message)
	CreatedAt time.Time
}

// Source 生成进程内唯一的关联ID
// 每个 gateway 持有自己的实例, 不使用全局单例
type Source struct {
	n atomic.Int64
}

func NewSource() *Source {
	return &Source{}
}

// Next 原子递增, 不会阻塞也不会失败
func (s *Source) Next() session.CorrelationID {
	return session.CorrelationID(s.n.Add(1))
}

// Registry 维护关联ID到挂起操作的映射
type Registry struct {
	mux sync.Mutex
	ops map[session.CorrelationID]*Operation
}

func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[session.CorrelationID]*Operation),
	}
}

// Register 注册挂起操作
// 同一关联ID重复注册返回 ErrDuplicateCorrelationID
func (r *Registry) Register(op *Operation) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if _, ok := r.ops[op.ID]; ok {
		return ErrDuplicateCorrelationID
	}
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now()
	}
	r.ops[op.ID] = op
	return nil
}

// Resolve 查找挂起操作
// 未命中是正常情况 (本地清理后才到达的事件), 由调用方记录日志
func (r *Registry) Resolve(id session.CorrelationID) (*Operation, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()

	op, ok := r.ops[id]
	return op, ok
}

// Remove 删除挂起操作, 幂等
func (r *Registry) Remove(id session.CorrelationID) {
	r.mux.Lock()
	defer r.mux.Unlock()

	delete(r.ops, id)
}

// Len 当前挂起操作数量
func (r *Registry) Len() int {
	r.mux.Lock()
	defer r.mux.Unlock()

	return len(r.ops)
}
