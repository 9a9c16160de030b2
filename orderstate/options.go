package orderstate

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

type Option func(*options)

type options struct {
	logger *log.Helper
	now    func() time.Time
	// loc 订单时间戳解释用的用户时区
	loc *time.Location
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.NewHelper(logger)
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.loc = loc
	}
}
