package subscription

import (
	"errors"
	"sync"

	"github.com/go-gotop/ems/session"
)

var (
	// ErrDuplicateSubscription (instrumentKey, tickType) 已存在
	// 调用方应先检查存在性, 避免重复的网络订阅
	ErrDuplicateSubscription = errors.New("subscription already exists")
)

// TickType 行情类型
type TickType string

const (
	TickTypeQuote        TickType = "QUOTE"
	TickTypeTrade        TickType = "TRADE"
	TickTypeOpenInterest TickType = "OPEN_INTEREST"
)

// Entry 是一条已登记的订阅
type Entry struct {
	InstrumentKey string
	TickType      TickType
	CorrelationID session.CorrelationID
}

type record struct {
	instrumentKey string
	items         map[TickType]session.CorrelationID
}

// Table 维护每个标的的活跃订阅
// 正向表 instrumentKey -> record 和反向表 correlationID -> (key, tickType)
// 在同一临界区内维护, 两者要么同时成功要么都不变
// 订阅/退订的量远低于tick量, 单互斥锁的争用可以接受
type Table struct {
	mux     sync.Mutex
	records map[string]*record
	reverse map[session.CorrelationID]Entry
}

func NewTable() *Table {
	return &Table{
		records: make(map[string]*record),
		reverse: make(map[session.CorrelationID]Entry),
	}
}

// Add 登记一条订阅
func (t *Table) Add(instrumentKey string, tickType TickType, id session.CorrelationID) error {
	t.mux.Lock()
	defer t.mux.Unlock()

	rec, ok := t.records[instrumentKey]
	if !ok {
		rec = &record{
			instrumentKey: instrumentKey,
			items:         make(map[TickType]session.CorrelationID),
		}
	} else if _, exists := rec.items[tickType]; exists {
		return ErrDuplicateSubscription
	}

	rec.items[tickType] = id
	t.records[instrumentKey] = rec
	t.reverse[id] = Entry{
		InstrumentKey: instrumentKey,
		TickType:      tickType,
		CorrelationID: id,
	}
	return nil
}

// Contains 判断 (instrumentKey, tickType) 是否已登记
func (t *Table) Contains(instrumentKey string, tickType TickType) bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	rec, ok := t.records[instrumentKey]
	if !ok {
		return false
	}
	_, ok = rec.items[tickType]
	return ok
}

// Remove 清除标的的全部订阅, 返回被清除的条目供调用方对传输层退订
func (t *Table) Remove(instrumentKey string) []Entry {
	t.mux.Lock()
	defer t.mux.Unlock()

	rec, ok := t.records[instrumentKey]
	if !ok {
		return nil
	}

	removed := make([]Entry, 0, len(rec.items))
	for tt, id := range rec.items {
		removed = append(removed, Entry{
			InstrumentKey: instrumentKey,
			TickType:      tt,
			CorrelationID: id,
		})
		delete(t.reverse, id)
	}
	delete(t.records, instrumentKey)
	return removed
}

// Lookup 反向查找关联ID对应的订阅
func (t *Table) Lookup(id session.CorrelationID) (Entry, bool) {
	t.mux.Lock()
	defer t.mux.Unlock()

	e, ok := t.reverse[id]
	return e, ok
}

// List 列出全部活跃订阅
func (t *Table) List() []Entry {
	t.mux.Lock()
	defer t.mux.Unlock()

	list := make([]Entry, 0, len(t.reverse))
	for _, e := range t.reverse {
		list = append(list, e)
	}
	return list
}
