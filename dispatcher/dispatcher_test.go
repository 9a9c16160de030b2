package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-gotop/ems/correlation"
	"github.com/go-gotop/ems/session"
	"github.com/go-gotop/ems/subscription"
)

// recordingMD 记录行情分发调用
type recordingMD struct {
	mux   sync.Mutex
	calls []session.CorrelationID
}

func (m *recordingMD) OnSubscriptionData(id session.CorrelationID, msg *session.Message) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.calls = append(m.calls, id)
}

func (m *recordingMD) ids() []session.CorrelationID {
	m.mux.Lock()
	defer m.mux.Unlock()
	out := make([]session.CorrelationID, len(m.calls))
	copy(out, m.calls)
	return out
}

// recordingOrders 记录订单流分发顺序
type recordingOrders struct {
	mux  sync.Mutex
	msgs []*session.Message
}

func (o *recordingOrders) OnOrderRouteMessage(msg *session.Message) {
	o.mux.Lock()
	defer o.mux.Unlock()
	o.msgs = append(o.msgs, msg)
}

func (o *recordingOrders) seen() []*session.Message {
	o.mux.Lock()
	defer o.mux.Unlock()
	out := make([]*session.Message, len(o.msgs))
	copy(out, o.msgs)
	return out
}

func newTestDispatcher(notify Notify) (*Dispatcher, *correlation.Registry, *subscription.Table, *correlation.Waiter, *recordingMD, *recordingOrders) {
	registry := correlation.NewRegistry()
	subs := subscription.NewTable()
	waiter := correlation.NewWaiter()
	md := &recordingMD{}
	orders := &recordingOrders{}
	if notify == nil {
		notify = func(n *Notification) {}
	}
	d := NewDispatcher(registry, subs, waiter, md, orders, notify)
	return d, registry, subs, waiter, md, orders
}

func TestDispatchUnknownCorrelationContinuesBatch(t *testing.T) {
	d, _, subs, _, md, _ := newTestDispatcher(nil)

	known := session.CorrelationID(1)
	assert.Nil(t, subs.Add("ABC US Equity", subscription.TickTypeQuote, known))

	// 批次里夹着未知关联ID的消息, 不能影响其余消息
	d.Dispatch(&session.Event{
		Type: session.EventSubscriptionData,
		Messages: []*session.Message{
			{Type: "MarketDataEvents", CorrelationIDs: []session.CorrelationID{99}},
			{Type: "MarketDataEvents", CorrelationIDs: []session.CorrelationID{known}},
		},
	})

	assert.Equal(t, []session.CorrelationID{known}, md.ids())
}

func TestDispatchMultipleCorrelationIDsPerMessage(t *testing.T) {
	d, _, subs, _, md, _ := newTestDispatcher(nil)

	a := session.CorrelationID(1)
	b := session.CorrelationID(2)
	assert.Nil(t, subs.Add("ABC US Equity", subscription.TickTypeQuote, a))
	assert.Nil(t, subs.Add("ABC US Equity", subscription.TickTypeTrade, b))

	// 多订阅共享同一topic, 每个关联ID各路由一次
	d.Dispatch(&session.Event{
		Type: session.EventSubscriptionData,
		Messages: []*session.Message{
			{Type: "MarketDataEvents", CorrelationIDs: []session.CorrelationID{a, b}},
		},
	})

	assert.Equal(t, []session.CorrelationID{a, b}, md.ids())
}

func TestDispatchOrderStreamSerialized(t *testing.T) {
	d, _, _, _, md, orders := newTestDispatcher(nil)

	streamID := session.CorrelationID(7)
	d.SetOrderStreamID(streamID)
	d.Start()
	defer d.Stop()

	msgs := []*session.Message{
		{Type: "OrderRouteFields", CorrelationIDs: []session.CorrelationID{streamID}, Fields: session.Fields{"SEQUENCE": int64(1)}},
		{Type: "OrderRouteFields", CorrelationIDs: []session.CorrelationID{streamID}, Fields: session.Fields{"SEQUENCE": int64(2)}},
		{Type: "OrderRouteFields", CorrelationIDs: []session.CorrelationID{streamID}, Fields: session.Fields{"SEQUENCE": int64(3)}},
	}
	d.Dispatch(&session.Event{Type: session.EventSubscriptionData, Messages: msgs})

	assert.Eventually(t, func() bool {
		return len(orders.seen()) == 3
	}, time.Second, 5*time.Millisecond)

	// 订单流不走行情路径, 且保持到达顺序
	assert.Empty(t, md.ids())
	seen := orders.seen()
	for i, msg := range seen {
		seq, _ := msg.Fields.Int64("SEQUENCE")
		assert.Equal(t, int64(i+1), seq)
	}
}

func TestDispatchResponseInvokesHandlerAndRemoves(t *testing.T) {
	d, registry, _, _, _, _ := newTestDispatcher(nil)

	id := session.CorrelationID(11)
	var handled []*session.Message
	assert.Nil(t, registry.Register(&correlation.Operation{
		ID:   id,
		Kind: correlation.KindQuery,
		Handler: func(msg *session.Message) {
			handled = append(handled, msg)
		},
	}))

	// 中间状态只调用处理器, 不移除挂起操作
	d.Dispatch(&session.Event{
		Type: session.EventRequestStatus,
		Messages: []*session.Message{
			{Type: "RequestAccepted", CorrelationIDs: []session.CorrelationID{id}},
		},
	})
	assert.Len(t, handled, 1)
	assert.Equal(t, 1, registry.Len())

	// 终结响应调用处理器并移除
	d.Dispatch(&session.Event{
		Type: session.EventResponse,
		Messages: []*session.Message{
			{Type: "ReferenceDataResponse", CorrelationIDs: []session.CorrelationID{id}},
		},
	})
	assert.Len(t, handled, 2)
	assert.Equal(t, 0, registry.Len())
}

func TestDispatchResponseWakesWaiterOnTerminalOnly(t *testing.T) {
	d, registry, _, waiter, _, _ := newTestDispatcher(nil)

	id := session.CorrelationID(12)
	assert.Nil(t, registry.Register(&correlation.Operation{ID: id, Kind: correlation.KindQuery}))
	waiter.Prepare(id)

	// 中间状态不唤醒停靠的调用方
	d.Dispatch(&session.Event{
		Type: session.EventRequestStatus,
		Messages: []*session.Message{
			{Type: "RequestAccepted", CorrelationIDs: []session.CorrelationID{id}},
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	_, err := waiter.Wait(ctx, id)
	cancel()
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	waiter.Prepare(id)
	d.Dispatch(&session.Event{
		Type: session.EventResponse,
		Messages: []*session.Message{
			{Type: "ReferenceDataResponse", CorrelationIDs: []session.CorrelationID{id}},
		},
	})

	msg, err := waiter.Wait(context.Background(), id)
	assert.Nil(t, err)
	assert.Equal(t, "ReferenceDataResponse", msg.Type)
}

func TestDispatchSessionTerminatedNotifiesDisconnect(t *testing.T) {
	var got []*Notification
	d, _, _, _, _, _ := newTestDispatcher(func(n *Notification) {
		got = append(got, n)
	})

	d.Dispatch(&session.Event{
		Type: session.EventSessionStatus,
		Messages: []*session.Message{
			{Type: session.MsgSessionTerminated},
		},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, NotifyDisconnect, got[0].Kind)
}

func TestDispatchSubscriptionFailureNotifies(t *testing.T) {
	var got []*Notification
	d, _, subs, _, _, _ := newTestDispatcher(func(n *Notification) {
		got = append(got, n)
	})

	id := session.CorrelationID(3)
	assert.Nil(t, subs.Add("BAD TICKER Equity", subscription.TickTypeQuote, id))

	d.Dispatch(&session.Event{
		Type: session.EventSubscriptionStatus,
		Messages: []*session.Message{
			{
				Type:           session.MsgSubscriptionFailure,
				CorrelationIDs: []session.CorrelationID{id},
				Fields: session.Fields{
					FieldCategory:    "BAD_SEC",
					FieldDescription: "Invalid security",
				},
			},
		},
	})

	assert.Len(t, got, 1)
	assert.Equal(t, NotifySubscriptionFailure, got[0].Kind)
	assert.Equal(t, "BAD_SEC", got[0].Category)
	assert.Contains(t, got[0].Describe(), "Invalid security")
}

func TestDispatchSubscriptionTerminatedSplitsUserCancel(t *testing.T) {
	var got []*Notification
	d, _, subs, _, _, _ := newTestDispatcher(func(n *Notification) {
		got = append(got, n)
	})

	id := session.CorrelationID(4)
	assert.Nil(t, subs.Add("ABC US Equity", subscription.TickTypeQuote, id))

	// 用户主动退订的终止不算失败
	d.Dispatch(&session.Event{
		Type: session.EventSubscriptionStatus,
		Messages: []*session.Message{
			{
				Type:           session.MsgSubscriptionTerminated,
				CorrelationIDs: []session.CorrelationID{id},
				Fields:         session.Fields{FieldReason: ReasonCanceled},
			},
		},
	})
	assert.Empty(t, got)

	// 券商侧终止要上报
	d.Dispatch(&session.Event{
		Type: session.EventSubscriptionStatus,
		Messages: []*session.Message{
			{
				Type:           session.MsgSubscriptionTerminated,
				CorrelationIDs: []session.CorrelationID{id},
				Fields:         session.Fields{FieldCategory: "LIMIT"},
			},
		},
	})
	assert.Len(t, got, 1)
	assert.Equal(t, NotifySubscriptionFailure, got[0].Kind)
}

func TestDispatchStopIdempotent(t *testing.T) {
	d, _, _, _, _, _ := newTestDispatcher(nil)

	d.Start()
	d.Start()
	d.Stop()
	d.Stop()
}

func TestDispatchAdminNoPanic(t *testing.T) {
	d, _, _, _, _, _ := newTestDispatcher(nil)

	d.Dispatch(&session.Event{
		Type: session.EventAdmin,
		Messages: []*session.Message{
			{Type: session.MsgSlowConsumerWarning},
			{Type: session.MsgSlowConsumerWarningCleared},
		},
	})
}
