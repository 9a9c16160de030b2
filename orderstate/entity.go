package orderstate

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus 订单/路由消息的事件状态标签, 封闭枚举
// 未识别的取值是独立的已处理变体, 不走静默默认分支
type EventStatus int

const (
	EventStatusUnknown EventStatus = iota
	EventStatusHeartbeat
	EventStatusInitialPaint
	EventStatusEndPaint
	EventStatusNew
	EventStatusUpdate
	EventStatusDelete
)

// 远端 EVENT_STATUS 字段的线上编码
const (
	wireHeartbeat    = 1
	wireInitialPaint = 4
	wireNew          = 6
	wireUpdate       = 7
	wireDelete       = 8
	wireEndPaint     = 11
)

// ParseEventStatus 解析远端事件状态编码
func ParseEventStatus(code int64) EventStatus {
	switch code {
	case wireHeartbeat:
		return EventStatusHeartbeat
	case wireInitialPaint:
		return EventStatusInitialPaint
	case wireNew:
		return EventStatusNew
	case wireUpdate:
		return EventStatusUpdate
	case wireDelete:
		return EventStatusDelete
	case wireEndPaint:
		return EventStatusEndPaint
	}
	return EventStatusUnknown
}

// 订单路由消息字段名
const (
	FieldEventStatus = "EVENT_STATUS"
	FieldSequence    = "SEQUENCE"
	FieldOrderRefID  = "ORDER_REF_ID"
	FieldStatus      = "STATUS"
	FieldFilled      = "FILLED"
	FieldAvgPrice    = "AVG_PRICE"
	FieldLastPrice   = "LAST_FILL_PRICE"
	FieldTime        = "TIME"
)

// OrderStatus 归一化的订单状态
type OrderStatus string

const (
	OrderStatusNone            OrderStatus = "NONE"
	OrderStatusNew             OrderStatus = "NEW"
	OrderStatusSubmitted       OrderStatus = "SUBMITTED"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCancelPending   OrderStatus = "CANCEL_PENDING"
	OrderStatusCanceled        OrderStatus = "CANCELED"
	OrderStatusInvalid         OrderStatus = "INVALID"
)

// MapOrderStatus 远端状态字符串到归一化状态的映射
// 未识别的值映射为 None, 记录但不致命
func MapOrderStatus(remote string) OrderStatus {
	switch remote {
	case "NEW", "PENDING":
		return OrderStatusNew
	case "WORKING", "SENT":
		return OrderStatusSubmitted
	case "PARTFILL", "PARTIAL-FILL", "PARTFILLED":
		return OrderStatusPartiallyFilled
	case "FILLED", "COMPLETED":
		return OrderStatusFilled
	case "CXL-PEND", "CANCEL-REQUESTED":
		return OrderStatusCancelPending
	case "CANCEL", "CANCELED", "EXPIRED", "ASSIGN":
		return OrderStatusCanceled
	case "CXLREJ", "CANCEL-REJECTED":
		return OrderStatusInvalid
	}
	return OrderStatusNone
}

// OrderEvent 归一化的订单状态变更事件
type OrderEvent struct {
	// OrderID 平台内部订单ID, 从远端记录的引用字段恢复
	OrderID string
	Status  OrderStatus
	// FillPrice 本次成交价
	FillPrice decimal.Decimal
	// FillQuantity 本次增量成交量
	// 行情源上报的是累计成交, 增量由本地已确认成交推导
	FillQuantity decimal.Decimal
	Time         time.Time
}

// Equal 结构相等判定, 用于去重
// 时间戳不参与比较, 重复事件只在时间戳上有差异
func (e *OrderEvent) Equal(other *OrderEvent) bool {
	if other == nil {
		return false
	}
	return e.OrderID == other.OrderID &&
		e.Status == other.Status &&
		e.FillPrice.Equal(other.FillPrice) &&
		e.FillQuantity.Equal(other.FillQuantity)
}

// Order 平台侧的订单记录, 用于查询先前已确认的成交量
type Order struct {
	ID             string
	FilledQuantity decimal.Decimal
}

// OrderProvider 平台订单框架的查询接口
type OrderProvider interface {
	// OrderByID 按平台订单ID查询, 未知订单返回 false
	OrderByID(id string) (*Order, bool)
}
