// mosession 是内存会话实现, 用于测试和回测
// 记录发出的请求/订阅, 通过 Emit 把脚本化的事件交付给注册的回调
package mosession

import (
	"sync"

	"github.com/go-gotop/ems/session"
)

var _ session.Session = (*MockSession)(nil)

func NewMockSession() *MockSession {
	return &MockSession{}
}

type MockSession struct {
	mux     sync.Mutex
	handler session.EventHandler
	started bool

	OpenedServices []string
	SentRequests   []SentRequest
	Subscribed     []*session.SubscriptionItem
	Unsubscribed   []*session.SubscriptionItem
}

type SentRequest struct {
	Service       string
	Request       *session.Request
	CorrelationID session.CorrelationID
}

func (m *MockSession) SetEventHandler(h session.EventHandler) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.handler = h
}

func (m *MockSession) Start() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.started = true
	return nil
}

func (m *MockSession) Stop() error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.started = false
	return nil
}

func (m *MockSession) OpenService(name string) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.OpenedServices = append(m.OpenedServices, name)
	return nil
}

func (m *MockSession) SendRequest(service string, req *session.Request, id session.CorrelationID) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.SentRequests = append(m.SentRequests, SentRequest{
		Service:       service,
		Request:       req,
		CorrelationID: id,
	})
	return nil
}

func (m *MockSession) Subscribe(items []*session.SubscriptionItem) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.Subscribed = append(m.Subscribed, items...)
	return nil
}

func (m *MockSession) Unsubscribe(items []*session.SubscriptionItem) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.Unsubscribed = append(m.Unsubscribed, items...)
	return nil
}

// Emit 模拟传输层交付一批入站消息
func (m *MockSession) Emit(evt *session.Event) {
	m.mux.Lock()
	h := m.handler
	m.mux.Unlock()

	if h != nil {
		h(evt)
	}
}
