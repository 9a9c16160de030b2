// gateway 把五个核心组件组合成一个面向平台的券商接入类型:
// 关联ID注册表, 订阅表, 事件分发器, 行情调和器, 订单状态调和器
// 组件之间通过显式接口通信, 不共享私有状态
package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/go-gotop/ems/correlation"
	"github.com/go-gotop/ems/dispatcher"
	"github.com/go-gotop/ems/instrument"
	"github.com/go-gotop/ems/limiter"
	"github.com/go-gotop/ems/marketdata"
	"github.com/go-gotop/ems/orderstate"
	"github.com/go-gotop/ems/session"
	"github.com/go-gotop/ems/subscription"
)

// 订阅的字段集, 按行情类型
var subscriptionFields = map[subscription.TickType][]string{
	subscription.TickTypeQuote:        {marketdata.FieldBid, marketdata.FieldBidSize, marketdata.FieldAsk, marketdata.FieldAskSize},
	subscription.TickTypeTrade:        {marketdata.FieldLastPrice, marketdata.FieldLastSize},
	subscription.TickTypeOpenInterest: {marketdata.FieldOpenInterest},
}

type Gateway struct {
	opts   *options
	sess   session.Session
	mapper instrument.Mapper

	source   *correlation.Source
	registry *correlation.Registry
	subs     *subscription.Table
	waiter   *correlation.Waiter
	md       *marketdata.Reconciler
	orders   *orderstate.Reconciler
	disp     *dispatcher.Dispatcher

	mux sync.Mutex
	// connecting 在建立流程期间持有, 阻止并发 Connect
	connecting bool
	connected  bool
}

func NewGateway(sess session.Session, mapper instrument.Mapper, provider orderstate.OrderProvider, opts ...Option) *Gateway {
	o := &options{
		logger:           log.NewHelper(log.DefaultLogger),
		loc:              time.UTC,
		executionEnabled: true,
		orderStreamTopic: ServiceExecution + "/order_route",
		onTick:           func(*marketdata.Tick) {},
		onOrderEvent:     func(*orderstate.OrderEvent) {},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.notify == nil {
		o.notify = func(n *dispatcher.Notification) {
			o.logger.Warnf("gateway notification: %s", n.Describe())
		}
	}

	// 配置了消息代理时, 归一化事件在回调之后同时外发
	if o.publisher != nil {
		onTick := o.onTick
		o.onTick = func(tick *marketdata.Tick) {
			onTick(tick)
			if err := publishTick(o.publisher, tick); err != nil {
				o.logger.Errorf("publish tick for %s error: %v", tick.Symbol, err)
			}
		}
		onOrderEvent := o.onOrderEvent
		o.onOrderEvent = func(evt *orderstate.OrderEvent) {
			onOrderEvent(evt)
			if err := publishOrderEvent(o.publisher, evt); err != nil {
				o.logger.Errorf("publish order event for %s error: %v", evt.OrderID, err)
			}
		}
		notify := o.notify
		o.notify = func(n *dispatcher.Notification) {
			notify(n)
			if err := publishNotification(o.publisher, n); err != nil {
				o.logger.Errorf("publish notification error: %v", err)
			}
		}
	}

	g := &Gateway{
		opts:     o,
		sess:     sess,
		mapper:   mapper,
		source:   correlation.NewSource(),
		registry: correlation.NewRegistry(),
		subs:     subscription.NewTable(),
		waiter:   correlation.NewWaiter(),
	}

	if o.rawLogger == nil {
		o.rawLogger = log.DefaultLogger
	}
	g.md = marketdata.NewReconciler(o.onTick, marketdata.WithLogger(o.rawLogger))
	g.orders = orderstate.NewReconciler(provider, o.onOrderEvent,
		orderstate.WithLogger(o.rawLogger),
		orderstate.WithLocation(o.loc),
	)
	g.disp = dispatcher.NewDispatcher(g.registry, g.subs, g.waiter, g.md, g.orders, o.notify,
		dispatcher.WithLogger(o.rawLogger),
	)

	sess.SetEventHandler(g.disp.Dispatch)
	return g
}

// Connect 建立会话并完成启动序列:
// 打开服务 -> 订阅订单事件流 -> 等待 blotter 初始快照完成
// 超时由调用方的 ctx 决定; 失败时会话和分发循环都已释放, 可以重试
func (g *Gateway) Connect(ctx context.Context) error {
	g.mux.Lock()
	if g.connected || g.connecting {
		g.mux.Unlock()
		return ErrAlreadyConnected
	}
	g.connecting = true
	g.mux.Unlock()

	err := g.connect(ctx)

	g.mux.Lock()
	g.connecting = false
	g.connected = err == nil
	g.mux.Unlock()

	if err == nil {
		g.opts.logger.Infof("gateway connected, broker %s account %s", g.opts.brokerID, g.opts.account)
	}
	return err
}

func (g *Gateway) connect(ctx context.Context) error {
	if err := g.sess.Start(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	for _, svc := range []string{ServiceMarketData, ServiceReferenceData, ServiceExecution} {
		if err := g.sess.OpenService(svc); err != nil {
			g.teardown()
			return fmt.Errorf("open service %s: %w", svc, err)
		}
	}

	g.disp.Start()

	// 订单事件流使用独立的关联ID, 分发层据此把它与行情区分开
	orderStreamID := g.source.Next()
	g.disp.SetOrderStreamID(orderStreamID)
	err := g.sess.Subscribe([]*session.SubscriptionItem{
		{
			Topic:         g.opts.orderStreamTopic,
			CorrelationID: orderStreamID,
		},
	})
	if err != nil {
		g.teardown()
		return fmt.Errorf("subscribe order stream: %w", err)
	}

	// 等待初始订单快照完成, 在此之前不宣告就绪
	select {
	case <-g.orders.Ready():
	case <-ctx.Done():
		g.teardown()
		return fmt.Errorf("wait for order blotter: %w", ctx.Err())
	}
	return nil
}

// teardown 建立失败时释放已启动的部分
func (g *Gateway) teardown() {
	g.disp.Stop()
	if err := g.sess.Stop(); err != nil {
		g.opts.logger.Errorf("stop session during failed connect: %v", err)
	}
}

// Disconnect 关闭会话并停止分发
func (g *Gateway) Disconnect() error {
	g.mux.Lock()
	if !g.connected {
		g.mux.Unlock()
		return nil
	}
	g.connected = false
	g.mux.Unlock()

	g.disp.Stop()
	return g.sess.Stop()
}

// SubscribeMarketData 为标的订阅一组行情类型
// 已订阅的类型跳过, 不产生重复的网络订阅
func (g *Gateway) SubscribeMarketData(inst instrument.Instrument, tickTypes []subscription.TickType) error {
	if !g.isConnected() {
		return ErrNotConnected
	}
	if !g.allow(limiter.SubscribeLimit) {
		return ErrLimitExceed
	}

	topic, err := g.mapper.Topic(inst)
	if err != nil {
		return fmt.Errorf("map %s to topic: %w", inst.Symbol, err)
	}

	items := make([]*session.SubscriptionItem, 0, len(tickTypes))
	for _, tt := range tickTypes {
		if g.subs.Contains(topic, tt) {
			g.opts.logger.Infof("already subscribed %s/%s, skipped", topic, tt)
			continue
		}

		id := g.source.Next()
		if err := g.subs.Add(topic, tt, id); err != nil {
			return err
		}
		g.md.Track(id, inst)
		items = append(items, &session.SubscriptionItem{
			Topic:         topic,
			Fields:        subscriptionFields[tt],
			CorrelationID: id,
		})
	}

	if len(items) == 0 {
		return nil
	}
	return g.sess.Subscribe(items)
}

// UnsubscribeMarketData 清除标的的全部订阅并对传输层退订
// 退订后迟到的事件按未知关联ID记录, 不算调用方错误
func (g *Gateway) UnsubscribeMarketData(inst instrument.Instrument) error {
	if !g.isConnected() {
		return ErrNotConnected
	}

	topic, err := g.mapper.Topic(inst)
	if err != nil {
		return fmt.Errorf("map %s to topic: %w", inst.Symbol, err)
	}

	removed := g.subs.Remove(topic)
	if len(removed) == 0 {
		return nil
	}

	items := make([]*session.SubscriptionItem, 0, len(removed))
	for _, e := range removed {
		g.md.Untrack(e.CorrelationID)
		items = append(items, &session.SubscriptionItem{
			Topic:         e.InstrumentKey,
			Fields:        subscriptionFields[e.TickType],
			CorrelationID: e.CorrelationID,
		})
	}
	return g.sess.Unsubscribe(items)
}

// QueryReferenceData 同步的参考数据查询
// 调用方线程停靠在专用通道上, 直到终结响应到达或 ctx 结束
func (g *Gateway) QueryReferenceData(ctx context.Context, operation string, fields session.Fields) (*session.Message, error) {
	if !g.isConnected() {
		return nil, ErrNotConnected
	}
	if !g.allow(limiter.RequestLimit) {
		return nil, ErrLimitExceed
	}

	id := g.source.Next()
	if err := g.registry.Register(&correlation.Operation{
		ID:   id,
		Kind: correlation.KindQuery,
	}); err != nil {
		return nil, err
	}

	// 先停靠再发送, 避免响应先于停靠到达
	g.waiter.Prepare(id)
	err := g.sess.SendRequest(ServiceReferenceData, &session.Request{
		Operation: operation,
		Fields:    fields,
	}, id)
	if err != nil {
		g.waiter.Abandon(id)
		g.registry.Remove(id)
		return nil, err
	}

	msg, err := g.waiter.Wait(ctx, id)
	if err != nil {
		g.registry.Remove(id)
		return nil, err
	}
	return msg, nil
}

// PlaceOrder 下单
func (g *Gateway) PlaceOrder(ctx context.Context, req *OrderRequest) error {
	return g.sendOrderRequest(ctx, OperationCreateOrder, req)
}

// AmendOrder 改单
func (g *Gateway) AmendOrder(ctx context.Context, req *OrderRequest) error {
	return g.sendOrderRequest(ctx, OperationModifyOrder, req)
}

// CancelOrder 撤单
func (g *Gateway) CancelOrder(ctx context.Context, req *OrderRequest) error {
	return g.sendOrderRequest(ctx, OperationCancelOrder, req)
}

// sendOrderRequest 订单请求的同步请求/响应
// executionEnabled 为 false 时只记录日志不发送 (dry-run)
func (g *Gateway) sendOrderRequest(ctx context.Context, operation string, req *OrderRequest) error {
	if !g.isConnected() {
		return ErrNotConnected
	}

	if !g.opts.executionEnabled {
		g.opts.logger.Infof("execution disabled, %s for order %s logged only", operation, req.OrderID)
		return nil
	}

	if !g.allow(limiter.OrderLimit) {
		return ErrLimitExceed
	}

	topic, err := g.mapper.Topic(req.Instrument)
	if err != nil {
		return fmt.Errorf("map %s to topic: %w", req.Instrument.Symbol, err)
	}

	id := g.source.Next()
	if err := g.registry.Register(&correlation.Operation{
		ID:   id,
		Kind: correlation.KindOrderRequest,
	}); err != nil {
		return err
	}

	g.waiter.Prepare(id)
	err = g.sess.SendRequest(ServiceExecution, &session.Request{
		Operation: operation,
		Fields: session.Fields{
			FieldOrderRefID: req.OrderID,
			FieldTicker:     topic,
			FieldSide:       string(req.Side),
			FieldQuantity:   req.Quantity.String(),
			FieldOrderType:  string(req.OrderType),
			FieldLimitPrice: req.LimitPrice.String(),
			FieldTIF:        string(req.TimeInForce),
			FieldAccount:    g.opts.account,
			FieldBroker:     g.opts.brokerID,
		},
	}, id)
	if err != nil {
		g.waiter.Abandon(id)
		g.registry.Remove(id)
		return err
	}

	msg, err := g.waiter.Wait(ctx, id)
	if err != nil {
		g.registry.Remove(id)
		return err
	}

	// 远端上报的失败以结构化通知上交平台, 同时返回错误
	if errMsg, ok := msg.Fields.String(FieldErrorMessage); ok && errMsg != "" {
		g.opts.notify(&dispatcher.Notification{
			Kind:        dispatcher.NotifyRequestFailure,
			Message:     fmt.Sprintf("%s for order %s rejected", operation, req.OrderID),
			Description: errMsg,
		})
		return fmt.Errorf("%w: %s", ErrOrderRejected, errMsg)
	}
	return nil
}

// ActiveSubscriptions 当前活跃的行情订阅
func (g *Gateway) ActiveSubscriptions() []subscription.Entry {
	return g.subs.List()
}

func (g *Gateway) isConnected() bool {
	g.mux.Lock()
	defer g.mux.Unlock()
	return g.connected
}

func (g *Gateway) allow(t limiter.LimitType) bool {
	if g.opts.limiter == nil {
		return true
	}
	return g.opts.limiter.Allow(t)
}
