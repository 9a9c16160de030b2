package xlimiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/go-gotop/ems/limiter"
)

func TestAllowWithinBurst(t *testing.T) {
	l := NewXLimiter(WithOrderRate(rate.Limit(1), 3))

	// 桶容量内的突发全部放行
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(limiter.OrderLimit), "request %d within burst", i)
	}
	assert.False(t, l.Allow(limiter.OrderLimit))
}

func TestBucketsIndependent(t *testing.T) {
	l := NewXLimiter(
		WithSubscribeRate(rate.Limit(1), 1),
		WithRequestRate(rate.Limit(1), 5),
	)

	assert.True(t, l.Allow(limiter.SubscribeLimit))
	assert.False(t, l.Allow(limiter.SubscribeLimit))

	// 订阅桶耗尽不影响请求桶
	assert.True(t, l.Allow(limiter.RequestLimit))
}

func TestUnknownTypeAllowed(t *testing.T) {
	l := NewXLimiter()
	assert.True(t, l.Allow(limiter.LimitType("UNKNOWN")))
}
