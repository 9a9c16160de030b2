package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableMapperRoundTrip(t *testing.T) {
	m := NewTableMapper(
		[]Instrument{
			{Symbol: "ABC", SecurityType: SecurityTypeEquity},
			{Symbol: "EURUSD", SecurityType: SecurityTypeForex},
		},
		map[string]string{
			"ABC":    "ABC US Equity",
			"EURUSD": "EUR Curncy",
		},
	)

	topic, err := m.Topic(Instrument{Symbol: "ABC", SecurityType: SecurityTypeEquity})
	assert.Nil(t, err)
	assert.Equal(t, "ABC US Equity", topic)

	inst, ok := m.Instrument("EUR Curncy")
	assert.True(t, ok)
	assert.Equal(t, "EURUSD", inst.Symbol)
	assert.Equal(t, SecurityTypeForex, inst.SecurityType)
}

func TestTableMapperUnmapped(t *testing.T) {
	m := NewTableMapper(nil, nil)

	_, err := m.Topic(Instrument{Symbol: "NOPE"})
	assert.ErrorIs(t, err, ErrSymbolNotMapped)

	_, ok := m.Instrument("NOPE Topic")
	assert.False(t, ok)
}

func TestTableMapperSkipsInstrumentWithoutTopic(t *testing.T) {
	// 映射表里缺topic的标的被静默跳过
	m := NewTableMapper(
		[]Instrument{{Symbol: "ABC", SecurityType: SecurityTypeEquity}},
		map[string]string{},
	)

	_, err := m.Topic(Instrument{Symbol: "ABC"})
	assert.ErrorIs(t, err, ErrSymbolNotMapped)
}
