package sampler

import (
	"github.com/shopspring/decimal"

	"github.com/go-gotop/ems/marketdata"
)

type PricePoint struct {
	Timestamp int64
	Price     decimal.Decimal
}

// Bar 成交tick按时间窗聚合的结果
type Bar struct {
	Count        uint64
	Timestamp    int64
	OpenPrice    PricePoint
	ClosePrice   PricePoint
	HighestPrice PricePoint
	LowestPrice  PricePoint
	TotalSize    decimal.Decimal
	TotalQuote   decimal.Decimal
}

func (b *Bar) Difference() decimal.Decimal {
	head, tail := b.PriceRange()
	return tail.Price.Add(tail.Price.Sub(head.Price))
}

// PriceRange returns the prices at the highest and lowest points.
func (b *Bar) PriceRange() (head PricePoint, tail PricePoint) {
	head = b.HighestPrice
	tail = b.LowestPrice
	if b.HighestPrice.Timestamp > b.LowestPrice.Timestamp {
		head = b.LowestPrice
		tail = b.HighestPrice
	}
	return
}

func (b *Bar) IsUp() bool {
	head, tail := b.PriceRange()
	return tail.Price.GreaterThan(head.Price)
}

func (b *Bar) Flat() bool {
	return b.HighestPrice.Price.Equal(b.LowestPrice.Price)
}

// Sampler is the interface that wraps the basic Sample method.
type Sampler interface {
	// Sample 喂入一条成交tick, 时间窗结束时返回聚合好的Bar, 否则返回nil
	Sample(tick *marketdata.Tick) *Bar
}
