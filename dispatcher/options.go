package dispatcher

import (
	"github.com/go-kratos/kratos/v2/log"
)

type Option func(*options)

type options struct {
	logger *log.Helper
	// orderQueueSize 订单事件串行队列容量
	orderQueueSize int
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.NewHelper(logger)
	}
}

func WithOrderQueueSize(n int) Option {
	return func(o *options) {
		o.orderQueueSize = n
	}
}
