package gateway

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/go-gotop/ems/instrument"
)

var (
	// ErrNotConnected 未连接时发起操作
	ErrNotConnected = errors.New("gateway not connected")
	// ErrAlreadyConnected 重复连接
	ErrAlreadyConnected = errors.New("gateway already connected")
	// ErrLimitExceed 出站请求触发限流
	ErrLimitExceed = errors.New("request rate limit exceeded, please try again later")
	// ErrOrderRejected 远端拒绝订单请求
	ErrOrderRejected = errors.New("order request rejected by remote")
)

// SideType BUY, SELL
type SideType string

// OrderType LIMIT, MARKET
type OrderType string

// TimeInForce GTC, IOC, FOK
type TimeInForce string

const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"

	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"

	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
)

// 远端服务名
const (
	ServiceMarketData    = "//api/mktdata"
	ServiceReferenceData = "//api/refdata"
	ServiceExecution     = "//api/emapi"
)

// 订单请求操作名
const (
	OperationCreateOrder = "CreateOrder"
	OperationModifyOrder = "ModifyOrder"
	OperationCancelOrder = "CancelOrder"
)

// 订单请求/响应字段名
const (
	FieldOrderRefID = "ORDER_REF_ID"
	FieldTicker     = "TICKER"
	FieldSide       = "SIDE"
	FieldQuantity   = "QUANTITY"
	FieldOrderType  = "ORDER_TYPE"
	FieldLimitPrice = "LIMIT_PRICE"
	FieldTIF        = "TIF"
	FieldAccount    = "ACCOUNT"
	FieldBroker     = "BROKER"

	FieldErrorCode    = "ERROR_CODE"
	FieldErrorMessage = "ERROR_MESSAGE"
)

// OrderRequest 下单/改单/撤单请求
type OrderRequest struct {
	// OrderID 平台内部订单ID, 随请求传给远端并内嵌在订单记录里
	OrderID     string
	Instrument  instrument.Instrument
	Side        SideType
	OrderType   OrderType
	TimeInForce TimeInForce
	Quantity    decimal.Decimal
	// LimitPrice 限价单价格, 市价单忽略
	LimitPrice decimal.Decimal
}
