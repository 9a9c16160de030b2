package bytime

import (
	"github.com/go-gotop/ems/marketdata"
	"github.com/go-gotop/ems/sampler"
)

func NewByTime(ms int64) sampler.Sampler {
	return &millisecond{
		ms: ms,
	}
}

func timestampMod(t int64, m int64) int64 {
	return t % m
}

func toPrice(tick *marketdata.Tick) sampler.PricePoint {
	return sampler.PricePoint{
		Timestamp: tick.Time.UnixMilli(),
		Price:     tick.Price,
	}
}

func toBar(tick *marketdata.Tick, ms int64) *sampler.Bar {
	bar := &sampler.Bar{}
	bar.HighestPrice = toPrice(tick)
	bar.LowestPrice = toPrice(tick)
	bar.OpenPrice = toPrice(tick)
	bar.ClosePrice = toPrice(tick)
	// 当前tick的时间戳减掉余数对齐到时间窗边界
	ts := tick.Time.UnixMilli()
	bar.Timestamp = ts - timestampMod(ts, ms)
	bar.TotalQuote = tick.Price.Mul(tick.Size)
	bar.TotalSize = tick.Size
	bar.Count = 1
	return bar
}

type millisecond struct {
	ms  int64
	bar *sampler.Bar
}

func (m *millisecond) Sample(tick *marketdata.Tick) (bar *sampler.Bar) {
	if m.bar == nil {
		m.bar = toBar(tick, m.ms)
	} else {
		if tick.Time.UnixMilli() >= m.bar.Timestamp+m.ms {
			bar = m.bar
			m.bar = toBar(tick, m.ms)
		} else {
			m.aggregate(tick)
		}
	}
	return
}

func (m *millisecond) aggregate(tick *marketdata.Tick) {
	m.bar.Count++
	m.bar.ClosePrice = toPrice(tick)
	m.bar.TotalQuote = m.bar.TotalQuote.Add(tick.Price.Mul(tick.Size))
	m.bar.TotalSize = m.bar.TotalSize.Add(tick.Size)
	if tick.Price.GreaterThan(m.bar.HighestPrice.Price) {
		m.bar.HighestPrice = toPrice(tick)
	}
	if tick.Price.LessThan(m.bar.LowestPrice.Price) {
		m.bar.LowestPrice = toPrice(tick)
	}
}
