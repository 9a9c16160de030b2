// xlimiter 基于 golang.org/x/time/rate 的令牌桶限流器
// 每个限流类别一个独立的桶
package xlimiter

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/go-gotop/ems/limiter"
)

var _ limiter.Limiter = (*XLimiter)(nil)

type Option func(*options)

type options struct {
	// 每秒放行次数与桶容量, 按类别
	subscribeRate  rate.Limit
	subscribeBurst int
	requestRate    rate.Limit
	requestBurst   int
	orderRate      rate.Limit
	orderBurst     int
}

func WithSubscribeRate(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.subscribeRate = r
		o.subscribeBurst = burst
	}
}

func WithRequestRate(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.requestRate = r
		o.requestBurst = burst
	}
}

func WithOrderRate(r rate.Limit, burst int) Option {
	return func(o *options) {
		o.orderRate = r
		o.orderBurst = burst
	}
}

func NewXLimiter(opts ...Option) *XLimiter {
	o := &options{
		subscribeRate:  rate.Limit(5),
		subscribeBurst: 10,
		requestRate:    rate.Limit(20),
		requestBurst:   40,
		orderRate:      rate.Limit(10),
		orderBurst:     20,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &XLimiter{
		limiters: map[limiter.LimitType]*rate.Limiter{
			limiter.SubscribeLimit: rate.NewLimiter(o.subscribeRate, o.subscribeBurst),
			limiter.RequestLimit:   rate.NewLimiter(o.requestRate, o.requestBurst),
			limiter.OrderLimit:     rate.NewLimiter(o.orderRate, o.orderBurst),
		},
	}
}

type XLimiter struct {
	mux      sync.Mutex
	limiters map[limiter.LimitType]*rate.Limiter
}

func (x *XLimiter) Allow(t limiter.LimitType) bool {
	x.mux.Lock()
	l, ok := x.limiters[t]
	x.mux.Unlock()

	if !ok {
		return true
	}
	return l.Allow()
}
