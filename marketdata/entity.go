package marketdata

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-gotop/ems/subscription"
)

// 行情消息的事件类型标签
const (
	EventTypeQuote        = "QUOTE"
	EventTypeTrade        = "TRADE"
	EventTypeOpenInterest = "OPEN_INTEREST"
)

// 行情消息字段名
const (
	FieldEventType    = "EVENT_TYPE"
	FieldEventSubtype = "EVENT_SUBTYPE"
	FieldEventTime    = "EVENT_TIME"
	FieldBid          = "BID"
	FieldBidSize      = "BID_SIZE"
	FieldAsk          = "ASK"
	FieldAskSize      = "ASK_SIZE"
	FieldLastPrice    = "LAST_PRICE"
	FieldLastSize     = "LAST_SIZE"
	FieldOpenInterest = "OPEN_INTEREST"
)

// Tick 归一化的行情事件
type Tick struct {
	// Symbol 平台内部标的名称
	Symbol string
	// Time 事件时间
	Time time.Time
	// Type 行情类型: QUOTE, TRADE, OPEN_INTEREST
	Type subscription.TickType
	// Price 成交价; QUOTE 时为买卖中间价; OPEN_INTEREST 时为持仓量
	Price decimal.Decimal
	// Size 成交量
	Size decimal.Decimal

	BidPrice decimal.Decimal
	BidSize  decimal.Decimal
	AskPrice decimal.Decimal
	AskSize  decimal.Decimal
}
