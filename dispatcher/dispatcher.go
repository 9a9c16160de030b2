package dispatcher

import (
	"sync"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/go-gotop/ems/correlation"
	"github.com/go-gotop/ems/session"
	"github.com/go-gotop/ems/subscription"
)

// MarketDataHandler 行情事件的下游
type MarketDataHandler interface {
	OnSubscriptionData(id session.CorrelationID, msg *session.Message)
}

// OrderStreamHandler 订单/路由事件流的下游
type OrderStreamHandler interface {
	OnOrderRouteMessage(msg *session.Message)
}

// Dispatcher 接收会话的原始入站事件, 按事件类型和消息类型分类,
// 依消息携带的关联ID路由到下游处理器
//
// 订单流在单个串行队列上分发, 保持生命周期的到达顺序;
// 行情按关联ID独立分发, 在传输回调上同步执行
type Dispatcher struct {
	opts     *options
	registry *correlation.Registry
	subs     *subscription.Table
	waiter   *correlation.Waiter
	md       MarketDataHandler
	orders   OrderStreamHandler
	notify   Notify

	mux           sync.Mutex
	orderStreamID session.CorrelationID

	orderCh  chan *session.Message
	exitChan chan struct{}
	done     sync.WaitGroup
	started  bool
}

func NewDispatcher(
	registry *correlation.Registry,
	subs *subscription.Table,
	waiter *correlation.Waiter,
	md MarketDataHandler,
	orders OrderStreamHandler,
	notify Notify,
	opts ...Option,
) *Dispatcher {
	o := &options{
		logger:         log.NewHelper(log.DefaultLogger),
		orderQueueSize: 1024,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Dispatcher{
		opts:     o,
		registry: registry,
		subs:     subs,
		waiter:   waiter,
		md:       md,
		orders:   orders,
		notify:   notify,
		orderCh:  make(chan *session.Message, o.orderQueueSize),
		exitChan: make(chan struct{}),
	}
}

// Start 启动订单流的串行消费协程
// Stop 之后可以再次 Start, 退出通道按周期重建
func (d *Dispatcher) Start() {
	d.mux.Lock()
	defer d.mux.Unlock()

	if d.started {
		return
	}
	select {
	case <-d.exitChan:
		d.exitChan = make(chan struct{})
	default:
	}
	d.started = true
	d.done.Add(1)
	go d.orderLoop(d.exitChan)
}

// Stop 停止分发, 幂等
func (d *Dispatcher) Stop() {
	d.mux.Lock()
	if !d.started {
		d.mux.Unlock()
		return
	}
	d.started = false
	close(d.exitChan)
	d.mux.Unlock()

	d.done.Wait()
}

// SetOrderStreamID 登记订单事件流订阅的关联ID
// 携带该ID的订阅数据进入串行订单队列而不是行情路径
func (d *Dispatcher) SetOrderStreamID(id session.CorrelationID) {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.orderStreamID = id
}

// Dispatch 处理一批入站消息
// 单条消息的失败只记录日志, 不中断同批次其他消息的处理
func (d *Dispatcher) Dispatch(evt *session.Event) {
	switch evt.Type {
	case session.EventAdmin:
		d.onAdmin(evt)
	case session.EventSessionStatus, session.EventServiceStatus:
		d.onStatus(evt)
	case session.EventSubscriptionStatus:
		d.onSubscriptionStatus(evt)
	case session.EventSubscriptionData:
		d.onSubscriptionData(evt)
	case session.EventResponse, session.EventRequestStatus:
		d.onResponse(evt, evt.Type == session.EventResponse)
	default:
		for _, msg := range evt.Messages {
			d.opts.logger.Warnf("unhandled event type %d, message %s", evt.Type, msg.Type)
		}
	}
}

// onAdmin 管理类事件仅作记录, 不改变状态
func (d *Dispatcher) onAdmin(evt *session.Event) {
	for _, msg := range evt.Messages {
		switch msg.Type {
		case session.MsgSlowConsumerWarning:
			d.opts.logger.Warn("slow consumer warning from session")
		case session.MsgSlowConsumerWarningCleared:
			d.opts.logger.Info("slow consumer warning cleared")
		default:
			d.opts.logger.Debugf("admin event %s", msg.Type)
		}
	}
}

// onStatus 会话/服务状态
// 终止和断连上报断开通知, 本层不做重连
func (d *Dispatcher) onStatus(evt *session.Event) {
	for _, msg := range evt.Messages {
		status := mapStatus(msg.Type)
		switch status {
		case StatusTerminated, StatusConnectionDown:
			d.opts.logger.Warnf("session status %s", msg.Type)
			d.notify(&Notification{
				Kind:    NotifyDisconnect,
				Message: msg.Type,
			})
		case StatusStartupFailure, StatusOpenFailure:
			d.notify(&Notification{
				Kind:        NotifyWarning,
				Message:     msg.Type,
				Description: describeFailure(msg.Fields),
			})
		case StatusUnknown:
			d.opts.logger.Debugf("unhandled session status message %s", msg.Type)
		default:
			d.opts.logger.Infof("session status %s", msg.Type)
		}
	}
}

func mapStatus(msgType string) Status {
	switch msgType {
	case session.MsgSessionStarted:
		return StatusStarted
	case session.MsgSessionTerminated:
		return StatusTerminated
	case session.MsgSessionStartupFailure:
		return StatusStartupFailure
	case session.MsgSessionConnectionUp:
		return StatusConnectionUp
	case session.MsgSessionConnectionDown:
		return StatusConnectionDown
	case session.MsgServiceOpened:
		return StatusOpened
	case session.MsgServiceOpenFailure:
		return StatusOpenFailure
	}
	return StatusUnknown
}

// onSubscriptionStatus 按消息逐条分类订阅状态
func (d *Dispatcher) onSubscriptionStatus(evt *session.Event) {
	for _, msg := range evt.Messages {
		for _, id := range msg.CorrelationIDs {
			entry, known := d.subs.Lookup(id)
			state := classifySubscriptionStatus(msg)

			switch state {
			case SubscriptionStateStarted, SubscriptionStateActivated:
				if known {
					d.opts.logger.Infof("subscription %s/%s %s", entry.InstrumentKey, entry.TickType, msg.Type)
				} else {
					d.opts.logger.Infof("subscription status %s for correlation id %d", msg.Type, id)
				}
			case SubscriptionStateCanceled:
				d.opts.logger.Infof("subscription canceled for correlation id %d", id)
			case SubscriptionStateTerminated:
				d.notify(&Notification{
					Kind:        NotifySubscriptionFailure,
					Message:     "subscription terminated by broker",
					Source:      stringField(msg.Fields, FieldSource),
					Category:    stringField(msg.Fields, FieldCategory),
					Subcategory: stringField(msg.Fields, FieldSubcategory),
					Description: stringField(msg.Fields, FieldDescription),
				})
			case SubscriptionStateFailure:
				d.notify(&Notification{
					Kind:        NotifySubscriptionFailure,
					Message:     "subscription failure",
					Source:      stringField(msg.Fields, FieldSource),
					Category:    stringField(msg.Fields, FieldCategory),
					Subcategory: stringField(msg.Fields, FieldSubcategory),
					Description: stringField(msg.Fields, FieldDescription),
				})
			default:
				d.opts.logger.Debugf("unhandled subscription status %s for correlation id %d", msg.Type, id)
			}
		}
	}
}

// classifySubscriptionStatus 终止消息按原因类别进一步拆分:
// 用户主动退订与券商侧终止
func classifySubscriptionStatus(msg *session.Message) SubscriptionState {
	switch msg.Type {
	case session.MsgSubscriptionStarted:
		return SubscriptionStateStarted
	case session.MsgSubscriptionActivated:
		return SubscriptionStateActivated
	case session.MsgSubscriptionTerminated:
		if reason, ok := msg.Fields.String(FieldReason); ok && reason == ReasonCanceled {
			return SubscriptionStateCanceled
		}
		if category, ok := msg.Fields.String(FieldCategory); ok && category == ReasonCanceled {
			return SubscriptionStateCanceled
		}
		return SubscriptionStateTerminated
	case session.MsgSubscriptionFailure:
		return SubscriptionStateFailure
	}
	return SubscriptionStateUnknown
}

// onSubscriptionData 行情数据
// 一条消息可能携带多个关联ID (多个订阅共享topic), 对每个ID各路由一次;
// 订单流的关联ID进入串行队列
func (d *Dispatcher) onSubscriptionData(evt *session.Event) {
	d.mux.Lock()
	orderStreamID := d.orderStreamID
	exit := d.exitChan
	d.mux.Unlock()

	for _, msg := range evt.Messages {
		for _, id := range msg.CorrelationIDs {
			if id == orderStreamID && orderStreamID != 0 {
				select {
				case d.orderCh <- msg:
				case <-exit:
					return
				}
				continue
			}

			if _, ok := d.subs.Lookup(id); !ok {
				// 未知关联ID是异常但不致命, 不影响同批次其他消息
				d.opts.logger.Errorf("subscription data for unknown correlation id %d, type %s", id, msg.Type)
				continue
			}
			d.md.OnSubscriptionData(id, msg)
		}
	}
}

// onResponse 请求/响应匹配
// 命中时同步调用注册的处理器再移除挂起操作; 终结响应唤醒停靠的调用方;
// 未命中按孤儿响应记录, 不中断分发循环
func (d *Dispatcher) onResponse(evt *session.Event, terminal bool) {
	for _, msg := range evt.Messages {
		for _, id := range msg.CorrelationIDs {
			op, resolved := d.registry.Resolve(id)
			if resolved && op.Handler != nil {
				op.Handler(msg)
			}

			if !terminal {
				if !resolved {
					d.opts.logger.Warnf("request status for unknown correlation id %d, type %s", id, msg.Type)
				}
				continue
			}

			if resolved {
				d.registry.Remove(id)
			}
			delivered := d.waiter.Deliver(id, msg)
			if !resolved && !delivered {
				d.opts.logger.Errorf("orphaned response for correlation id %d, type %s", id, msg.Type)
			}
		}
	}
}

// orderLoop 订单流的串行消费
// 单协程保证 new -> update* -> delete 按到达顺序观察
func (d *Dispatcher) orderLoop(exit chan struct{}) {
	defer d.done.Done()
	for {
		select {
		case <-exit:
			return
		case msg := <-d.orderCh:
			d.orders.OnOrderRouteMessage(msg)
		}
	}
}

func describeFailure(fields session.Fields) string {
	n := &Notification{
		Source:      stringField(fields, FieldSource),
		Category:    stringField(fields, FieldCategory),
		Subcategory: stringField(fields, FieldSubcategory),
		Description: stringField(fields, FieldDescription),
	}
	return n.Describe()
}

func stringField(fields session.Fields, name string) string {
	s, _ := fields.String(name)
	return s
}
