package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-gotop/ems/session"
)

func TestTableAddDuplicate(t *testing.T) {
	tb := NewTable()

	err := tb.Add("ABC US Equity", TickTypeQuote, session.CorrelationID(1))
	assert.Nil(t, err)

	// 不经过 Remove 的重复添加必须失败
	err = tb.Add("ABC US Equity", TickTypeQuote, session.CorrelationID(2))
	assert.ErrorIs(t, err, ErrDuplicateSubscription)

	// 同一标的不同行情类型可以添加
	err = tb.Add("ABC US Equity", TickTypeTrade, session.CorrelationID(3))
	assert.Nil(t, err)
}

func TestTableRemoveThenReAdd(t *testing.T) {
	tb := NewTable()

	assert.Nil(t, tb.Add("ABC US Equity", TickTypeQuote, session.CorrelationID(1)))
	assert.Nil(t, tb.Add("ABC US Equity", TickTypeTrade, session.CorrelationID(2)))

	removed := tb.Remove("ABC US Equity")
	assert.Len(t, removed, 2)

	// Remove 之后正反向映射都被清除
	_, ok := tb.Lookup(session.CorrelationID(1))
	assert.False(t, ok)
	_, ok = tb.Lookup(session.CorrelationID(2))
	assert.False(t, ok)
	assert.False(t, tb.Contains("ABC US Equity", TickTypeQuote))

	// Remove 之后可以重新添加
	err := tb.Add("ABC US Equity", TickTypeQuote, session.CorrelationID(4))
	assert.Nil(t, err)
}

func TestTableRemoveUnknown(t *testing.T) {
	tb := NewTable()
	assert.Nil(t, tb.Remove("UNKNOWN"))
}

func TestTableLookup(t *testing.T) {
	tb := NewTable()

	assert.Nil(t, tb.Add("EUR Curncy", TickTypeQuote, session.CorrelationID(7)))

	e, ok := tb.Lookup(session.CorrelationID(7))
	assert.True(t, ok)
	assert.Equal(t, "EUR Curncy", e.InstrumentKey)
	assert.Equal(t, TickTypeQuote, e.TickType)
	assert.Equal(t, session.CorrelationID(7), e.CorrelationID)
}

func TestTableList(t *testing.T) {
	tb := NewTable()

	assert.Nil(t, tb.Add("ABC US Equity", TickTypeQuote, session.CorrelationID(1)))
	assert.Nil(t, tb.Add("XYZ US Equity", TickTypeTrade, session.CorrelationID(2)))

	assert.Len(t, tb.List(), 2)
}
