package orderstate

import (
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"

	"github.com/go-gotop/ems/session"
)

// Emit 归一化订单事件的推送回调
type Emit func(evt *OrderEvent)

// remoteOrder 每个远端序列号一条权威记录
// 序列号是唯一外部键, 连接存续期间不删除
type remoteOrder struct {
	sequence int64
	// localOrderID 从远端记录内嵌的引用字段恢复的平台订单ID
	localOrderID string
	// fields 按字段组合并的远端字段快照
	fields session.Fields
	// lastEmitted 最近一次发射的事件, 用于去重
	lastEmitted *OrderEvent
}

// Reconciler 把远端 append-only 的订单/路由事件流调和为本地订单状态变更
// 事件按到达顺序严格串行处理 (new -> update* -> delete), 串行化由分发层的
// 单队列保证, 记录本身不再加锁; records map 的并发读取仍走互斥锁
type Reconciler struct {
	opts     *options
	emit     Emit
	provider OrderProvider

	mux     sync.Mutex
	records map[int64]*remoteOrder

	// blotter 初始快照完成门闩, EndPaint 恰好触发一次
	readyOnce sync.Once
	readyCh   chan struct{}
}

func NewReconciler(provider OrderProvider, emit Emit, opts ...Option) *Reconciler {
	o := &options{
		logger: log.NewHelper(log.DefaultLogger),
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Reconciler{
		opts:     o,
		emit:     emit,
		provider: provider,
		records:  make(map[int64]*remoteOrder),
		readyCh:  make(chan struct{}),
	}
}

// Ready 返回 blotter 初始快照完成门闩
// 连接建立流程在宣告就绪之前等待该通道关闭
func (r *Reconciler) Ready() <-chan struct{} {
	return r.readyCh
}

func (r *Reconciler) initialized() bool {
	select {
	case <-r.readyCh:
		return true
	default:
		return false
	}
}

// OnOrderRouteMessage 处理一条订单/路由消息
// 必须由分发层在单个串行队列上调用, 保证单序列号的生命周期顺序
func (r *Reconciler) OnOrderRouteMessage(msg *session.Message) {
	code, ok := msg.Fields.Int64(FieldEventStatus)
	if !ok {
		r.opts.logger.Warnf("order route message without %s, skipped", FieldEventStatus)
		return
	}

	switch ParseEventStatus(code) {
	case EventStatusHeartbeat:
		// 心跳忽略
	case EventStatusInitialPaint:
		r.onInitialPaint(msg)
	case EventStatusEndPaint:
		r.onEndPaint()
	case EventStatusNew:
		r.onNew(msg)
	case EventStatusUpdate:
		r.onUpdateOrDelete(msg, false)
	case EventStatusDelete:
		r.onUpdateOrDelete(msg, true)
	case EventStatusUnknown:
		r.opts.logger.Warnf("unknown order route event status %d, skipped", code)
	}
}

// onInitialPaint 初始快照: 取或建记录, 合并全部字段
func (r *Reconciler) onInitialPaint(msg *session.Message) {
	seq, ok := msg.Fields.Int64(FieldSequence)
	if !ok {
		r.opts.logger.Warnf("initial paint without %s, skipped", FieldSequence)
		return
	}

	rec := r.getOrCreate(seq)
	r.merge(rec, msg.Fields)
	if refID, ok := msg.Fields.String(FieldOrderRefID); ok && refID != "" {
		rec.localOrderID = refID
	}
}

// onEndPaint 初始快照结束, 打开就绪门闩, 只触发一次
func (r *Reconciler) onEndPaint() {
	r.readyOnce.Do(func() {
		r.opts.logger.Info("order blotter initial paint complete")
		close(r.readyCh)
	})
}

// onNew 新订单事件
// 没有内嵌引用字段的是外部手工录入的订单, 不属于本系统, 记录并忽略
func (r *Reconciler) onNew(msg *session.Message) {
	seq, ok := msg.Fields.Int64(FieldSequence)
	if !ok {
		r.opts.logger.Warnf("new order event without %s, skipped", FieldSequence)
		return
	}

	refID, ok := msg.Fields.String(FieldOrderRefID)
	if !ok || refID == "" {
		r.opts.logger.Infof("new order event for sequence %d without order reference, manual order ignored", seq)
		return
	}

	rec := r.getOrCreate(seq)
	r.merge(rec, msg.Fields)
	rec.localOrderID = refID

	evt := r.buildEvent(rec, msg)
	if evt.Status == OrderStatusNone {
		evt.Status = OrderStatusSubmitted
	}
	r.emitDeduped(rec, evt)
}

// onUpdateOrDelete 更新/删除事件, 要求已知的序列号映射
// blotter 已初始化时缺失映射按错误记录, 启动期间按竞态静默丢弃
func (r *Reconciler) onUpdateOrDelete(msg *session.Message, isDelete bool) {
	seq, ok := msg.Fields.Int64(FieldSequence)
	if !ok {
		r.opts.logger.Warnf("order update without %s, skipped", FieldSequence)
		return
	}

	r.mux.Lock()
	rec, ok := r.records[seq]
	r.mux.Unlock()

	if !ok || rec.localOrderID == "" {
		if r.initialized() {
			r.opts.logger.Errorf("order update for unknown sequence %d after blotter init, delete=%v", seq, isDelete)
		}
		return
	}

	r.merge(rec, msg.Fields)
	r.emitDeduped(rec, r.buildEvent(rec, msg))
}

// buildEvent 从权威记录构造归一化事件
// 成交增量 = 远端累计成交 - 平台已确认成交
func (r *Reconciler) buildEvent(rec *remoteOrder, msg *session.Message) *OrderEvent {
	status := OrderStatusNone
	if s, ok := rec.fields.String(FieldStatus); ok {
		status = MapOrderStatus(s)
		if status == OrderStatusNone {
			r.opts.logger.Warnf("unrecognized remote order status %q for sequence %d", s, rec.sequence)
		}
	}

	fillQty := decimal.Zero
	if cumulative, ok := rec.fields.Decimal(FieldFilled); ok {
		confirmed := decimal.Zero
		if ord, ok := r.provider.OrderByID(rec.localOrderID); ok {
			confirmed = ord.FilledQuantity
		}
		fillQty = cumulative.Sub(confirmed)
		if fillQty.IsNegative() {
			fillQty = decimal.Zero
		}
	}

	fillPrice := decimal.Zero
	if p, ok := rec.fields.Decimal(FieldLastPrice); ok {
		fillPrice = p
	} else if p, ok := rec.fields.Decimal(FieldAvgPrice); ok {
		fillPrice = p
	}

	ts := r.opts.now()
	if t, ok := msg.Fields.Time(FieldTime); ok {
		ts = t
	}

	return &OrderEvent{
		OrderID:      rec.localOrderID,
		Status:       status,
		FillPrice:    fillPrice,
		FillQuantity: fillQty,
		Time:         ts.In(r.opts.loc),
	}
}

// emitDeduped 与最近一次发射的事件结构相等则抑制
// 吸收不携带新信息的重复更新
func (r *Reconciler) emitDeduped(rec *remoteOrder, evt *OrderEvent) {
	if evt.Equal(rec.lastEmitted) {
		r.opts.logger.Debugf("duplicate order event for sequence %d deduplicated, status %s", rec.sequence, evt.Status)
		return
	}
	rec.lastEmitted = evt
	r.emit(evt)
}

func (r *Reconciler) getOrCreate(seq int64) *remoteOrder {
	r.mux.Lock()
	defer r.mux.Unlock()

	rec, ok := r.records[seq]
	if !ok {
		rec = &remoteOrder{
			sequence: seq,
			fields:   make(session.Fields),
		}
		r.records[seq] = rec
	}
	return rec
}

// merge 合并消息里出现的字段, 缺失字段保留旧值
func (r *Reconciler) merge(rec *remoteOrder, fields session.Fields) {
	for k, v := range fields {
		rec.fields[k] = v
	}
}

// LocalOrderID 按序列号查已映射的平台订单ID
func (r *Reconciler) LocalOrderID(seq int64) (string, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()

	rec, ok := r.records[seq]
	if !ok || rec.localOrderID == "" {
		return "", false
	}
	return rec.localOrderID, true
}
