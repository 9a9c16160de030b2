package gorilla

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-gotop/ems/websocket"
)

// fakeConn 内存连接, 不触网
type fakeConn struct {
	msgs      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		msgs:   make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) Dial(endpoint string, requestHeader http.Header) error { return nil }

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m := <-f.msgs:
		return 1, m, nil
	case <-f.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error { return nil }
func (f *fakeConn) SetPingHandler(h func(appData string) error)     {}
func (f *fakeConn) SetPongHandler(h func(appData string) error)     {}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func TestDisconnectBeforeConnect(t *testing.T) {
	w := NewGorillaWebsocket(newFakeConn(), &websocket.WebsocketConfig{})

	// 未建立过连接的 Disconnect 不能阻塞
	done := make(chan error, 1)
	go func() { done <- w.Disconnect() }()

	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(time.Second):
		t.Fatal("disconnect blocked without a prior connect")
	}
	assert.False(t, w.IsConnected())
}

func TestConnectReadDisconnect(t *testing.T) {
	conn := newFakeConn()
	w := NewGorillaWebsocket(conn, &websocket.WebsocketConfig{})

	var mux sync.Mutex
	var got [][]byte
	err := w.Connect(&websocket.WebsocketRequest{
		Endpoint: "ws://unit.test",
		ID:       "conn-1",
		MessageHandler: func(message []byte) {
			mux.Lock()
			defer mux.Unlock()
			got = append(got, message)
		},
		ErrorHandler: func(err error) {},
	})
	assert.Nil(t, err)
	assert.True(t, w.IsConnected())

	conn.msgs <- []byte(`{"eventType":"ADMIN"}`)
	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Nil(t, w.Disconnect())
	assert.False(t, w.IsConnected())
}
