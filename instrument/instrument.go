package instrument

import "errors"

var (
	// ErrSymbolNotMapped 本地标的没有对应的topic映射
	ErrSymbolNotMapped = errors.New("symbol not mapped to a topic")
)

// SecurityType 证券类型
type SecurityType string

const (
	SecurityTypeEquity SecurityType = "EQUITY"
	SecurityTypeFuture SecurityType = "FUTURE"
	SecurityTypeForex  SecurityType = "FOREX"
	SecurityTypeOption SecurityType = "OPTION"
	SecurityTypeIndex  SecurityType = "INDEX"
)

// Instrument 平台侧的标的
type Instrument struct {
	// Symbol 平台内部标的名称
	Symbol string
	// SecurityType 证券类型
	SecurityType SecurityType
}

// Mapper 本地标的与传输层topic字符串的双向映射
// 核心把它当作不透明依赖, 映射表的维护在本包之外
type Mapper interface {
	// Topic 本地标的 -> topic字符串
	Topic(inst Instrument) (string, error)
	// Instrument topic字符串 -> 本地标的
	Instrument(topic string) (Instrument, bool)
}

// TableMapper 基于静态映射表的 Mapper 实现
type TableMapper struct {
	topics  map[string]string
	reverse map[string]Instrument
}

var _ Mapper = (*TableMapper)(nil)

// NewTableMapper 从 symbol -> topic 的映射表构建
func NewTableMapper(instruments []Instrument, topics map[string]string) *TableMapper {
	m := &TableMapper{
		topics:  make(map[string]string, len(topics)),
		reverse: make(map[string]Instrument, len(topics)),
	}
	for _, inst := range instruments {
		topic, ok := topics[inst.Symbol]
		if !ok {
			continue
		}
		m.topics[inst.Symbol] = topic
		m.reverse[topic] = inst
	}
	return m
}

func (m *TableMapper) Topic(inst Instrument) (string, error) {
	topic, ok := m.topics[inst.Symbol]
	if !ok {
		return "", ErrSymbolNotMapped
	}
	return topic, nil
}

func (m *TableMapper) Instrument(topic string) (Instrument, bool) {
	inst, ok := m.reverse[topic]
	return inst, ok
}
