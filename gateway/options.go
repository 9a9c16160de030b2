package gateway

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/go-gotop/ems/broker"
	"github.com/go-gotop/ems/dispatcher"
	"github.com/go-gotop/ems/limiter"
	"github.com/go-gotop/ems/marketdata"
	"github.com/go-gotop/ems/orderstate"
)

type Option func(*options)

type options struct {
	logger *log.Helper
	// rawLogger 透传给子组件
	rawLogger log.Logger

	// brokerID 券商标识, 随订单请求下发
	brokerID string
	// account 交易账户
	account string
	// executionEnabled 为 false 时订单请求只记录日志不发送
	executionEnabled bool
	// loc 订单时间戳解释用的用户时区
	loc *time.Location

	limiter limiter.Limiter

	// onTick 归一化行情推送
	onTick marketdata.Emit
	// onOrderEvent 归一化订单事件推送
	onOrderEvent orderstate.Emit
	// notify 面向平台的结构化通知
	notify dispatcher.Notify

	// orderStreamTopic 订单事件流的订阅topic
	orderStreamTopic string

	// publisher 非 nil 时归一化事件同时外发到消息代理
	publisher broker.Publisher
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.NewHelper(logger)
		o.rawLogger = logger
	}
}

func WithBrokerID(id string) Option {
	return func(o *options) {
		o.brokerID = id
	}
}

func WithAccount(account string) Option {
	return func(o *options) {
		o.account = account
	}
}

func WithExecutionEnabled(enabled bool) Option {
	return func(o *options) {
		o.executionEnabled = enabled
	}
}

func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.loc = loc
	}
}

func WithLimiter(l limiter.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

func WithTickHandler(h marketdata.Emit) Option {
	return func(o *options) {
		o.onTick = h
	}
}

func WithOrderEventHandler(h orderstate.Emit) Option {
	return func(o *options) {
		o.onOrderEvent = h
	}
}

func WithNotifyHandler(h dispatcher.Notify) Option {
	return func(o *options) {
		o.notify = h
	}
}

func WithOrderStreamTopic(topic string) Option {
	return func(o *options) {
		o.orderStreamTopic = topic
	}
}

func WithPublisher(pub broker.Publisher) Option {
	return func(o *options) {
		o.publisher = pub
	}
}
