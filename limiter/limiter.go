package limiter

// LimitType 出站请求的限流类别
type LimitType string

const (
	SubscribeLimit LimitType = "SUBSCRIBE" // 订阅/退订
	RequestLimit   LimitType = "REQUEST"   // 参考数据等普通请求
	OrderLimit     LimitType = "ORDER"     // 订单请求
)

//go:generate mockgen -destination=mocks/limiter.go -package=mklimiter . Limiter
type Limiter interface {
	// Allow 判断该类别的请求当前是否放行
	Allow(t LimitType) bool
}
