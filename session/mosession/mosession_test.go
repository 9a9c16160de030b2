package mosession

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-gotop/ems/session"
)

func TestMockSessionRecordsCalls(t *testing.T) {
	m := NewMockSession()

	assert.Nil(t, m.Start())
	assert.Nil(t, m.OpenService("//api/mktdata"))
	assert.Nil(t, m.SendRequest("//api/refdata", &session.Request{Operation: "ReferenceDataRequest"}, session.CorrelationID(1)))
	assert.Nil(t, m.Subscribe([]*session.SubscriptionItem{{Topic: "ABC US Equity", CorrelationID: 2}}))
	assert.Nil(t, m.Unsubscribe([]*session.SubscriptionItem{{Topic: "ABC US Equity", CorrelationID: 2}}))

	assert.Equal(t, []string{"//api/mktdata"}, m.OpenedServices)
	assert.Len(t, m.SentRequests, 1)
	assert.Equal(t, session.CorrelationID(1), m.SentRequests[0].CorrelationID)
	assert.Len(t, m.Subscribed, 1)
	assert.Len(t, m.Unsubscribed, 1)
}

func TestMockSessionEmit(t *testing.T) {
	m := NewMockSession()

	var got []*session.Event
	m.SetEventHandler(func(evt *session.Event) {
		got = append(got, evt)
	})

	m.Emit(&session.Event{Type: session.EventSessionStatus})
	assert.Len(t, got, 1)
	assert.Equal(t, session.EventSessionStatus, got[0].Type)
}

func TestMockSessionEmitWithoutHandler(t *testing.T) {
	m := NewMockSession()
	// 未注册回调时丢弃, 不panic
	m.Emit(&session.Event{Type: session.EventAdmin})
}
