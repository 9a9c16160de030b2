package marketdata

import (
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/shopspring/decimal"

	"github.com/go-gotop/ems/instrument"
	"github.com/go-gotop/ems/session"
	"github.com/go-gotop/ems/subscription"
)

// Emit 归一化tick的推送回调
type Emit func(tick *Tick)

// runningState 每个行情订阅的运行中累积状态
// 协议发送部分更新, 消息里缺失的字段保留之前的值
// 只在构造时清零, 发射tick不会清零
type runningState struct {
	inst     instrument.Instrument
	bidPrice decimal.Decimal
	bidSize  decimal.Decimal
	askPrice decimal.Decimal
	askSize  decimal.Decimal
}

// valid 有效性判定
// 外汇只要求买卖价 > 0, 其他证券类型要求买卖价和买卖量都 > 0
func (s *runningState) valid() bool {
	if !s.bidPrice.IsPositive() || !s.askPrice.IsPositive() {
		return false
	}
	if s.inst.SecurityType == instrument.SecurityTypeForex {
		return true
	}
	return s.bidSize.IsPositive() && s.askSize.IsPositive()
}

// Reconciler 消费分类后的行情事件, 累积每个订阅的运行状态,
// 按有效性规则在每次有意义的更新后恰好发射一次归一化tick
type Reconciler struct {
	opts   *options
	emit   Emit
	mux    sync.Mutex
	states map[session.CorrelationID]*runningState
}

func NewReconciler(emit Emit, opts ...Option) *Reconciler {
	o := &options{
		logger: log.NewHelper(log.DefaultLogger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Reconciler{
		opts:   o,
		emit:   emit,
		states: make(map[session.CorrelationID]*runningState),
	}
}

// Track 订阅建立时登记运行状态
func (r *Reconciler) Track(id session.CorrelationID, inst instrument.Instrument) {
	r.mux.Lock()
	defer r.mux.Unlock()

	if _, ok := r.states[id]; ok {
		return
	}
	r.states[id] = &runningState{inst: inst}
}

// Untrack 退订时清除运行状态, 幂等
func (r *Reconciler) Untrack(id session.CorrelationID) {
	r.mux.Lock()
	defer r.mux.Unlock()

	delete(r.states, id)
}

// OnSubscriptionData 处理一条归属该关联ID的行情消息
// 未跟踪的关联ID按 NotFound 记录日志, 不算错误
func (r *Reconciler) OnSubscriptionData(id session.CorrelationID, msg *session.Message) {
	r.mux.Lock()
	defer r.mux.Unlock()

	state, ok := r.states[id]
	if !ok {
		r.opts.logger.Warnf("market data for untracked correlation id %d, type %s", id, msg.Type)
		return
	}

	eventType, _ := msg.Fields.String(FieldEventType)
	switch eventType {
	case EventTypeQuote:
		r.onQuote(state, msg)
	case EventTypeTrade:
		r.onTrade(state, msg)
	case EventTypeOpenInterest:
		r.onOpenInterest(state, msg)
	default:
		r.opts.logger.Debugf("unhandled market data event type %q for %s", eventType, state.inst.Symbol)
	}
}

// onQuote 逐字段覆盖运行状态, 四个字段同时有效才发射
func (r *Reconciler) onQuote(state *runningState, msg *session.Message) {
	if v, ok := msg.Fields.Decimal(FieldBid); ok {
		state.bidPrice = v
	}
	if v, ok := msg.Fields.Decimal(FieldBidSize); ok {
		state.bidSize = v
	}
	if v, ok := msg.Fields.Decimal(FieldAsk); ok {
		state.askPrice = v
	}
	if v, ok := msg.Fields.Decimal(FieldAskSize); ok {
		state.askSize = v
	}

	if !state.valid() {
		return
	}

	mid := state.bidPrice.Add(state.askPrice).Div(decimal.NewFromInt(2))
	r.emit(&Tick{
		Symbol:   state.inst.Symbol,
		Time:     r.eventTime(msg),
		Type:     subscription.TickTypeQuote,
		Price:    mid,
		BidPrice: state.bidPrice,
		BidSize:  state.bidSize,
		AskPrice: state.askPrice,
		AskSize:  state.askSize,
	})
}

// onTrade 无状态透传
// 外汇行情源没有成交打印, 整体抑制
func (r *Reconciler) onTrade(state *runningState, msg *session.Message) {
	if state.inst.SecurityType == instrument.SecurityTypeForex {
		return
	}

	price, ok := msg.Fields.Decimal(FieldLastPrice)
	if !ok {
		// 缺少必需字段不是致命错误, 跳过本次发射
		r.opts.logger.Debugf("trade event without %s for %s, skipped", FieldLastPrice, state.inst.Symbol)
		return
	}
	size, ok := msg.Fields.Decimal(FieldLastSize)
	if !ok {
		r.opts.logger.Debugf("trade event without %s for %s, skipped", FieldLastSize, state.inst.Symbol)
		return
	}

	r.emit(&Tick{
		Symbol: state.inst.Symbol,
		Time:   r.eventTime(msg),
		Type:   subscription.TickTypeTrade,
		Price:  price,
		Size:   size,
	})
}

// onOpenInterest 持仓量为零按"无数据"处理, 抑制发射
func (r *Reconciler) onOpenInterest(state *runningState, msg *session.Message) {
	oi, ok := msg.Fields.Decimal(FieldOpenInterest)
	if !ok || oi.IsZero() {
		return
	}

	r.emit(&Tick{
		Symbol: state.inst.Symbol,
		Time:   r.eventTime(msg),
		Type:   subscription.TickTypeOpenInterest,
		Price:  oi,
	})
}

// eventTime 取消息自带的时间字段, 流式模式下缺失时回退当前时间
func (r *Reconciler) eventTime(msg *session.Message) time.Time {
	if ts, ok := msg.Fields.Time(FieldEventTime); ok {
		return ts
	}
	return r.opts.now()
}
