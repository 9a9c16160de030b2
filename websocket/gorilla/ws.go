package gorilla

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gotop/ems/websocket"
)

func NewGorillaWebsocket(conn websocket.WebSocketConn, config *websocket.WebsocketConfig) *GorillaWebsocket {
	return &GorillaWebsocket{
		conn:    conn,
		config:  config,
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// GorillaWebsocket 是 Websocket 接口的实现
type GorillaWebsocket struct {
	isConnected atomic.Bool
	conn        websocket.WebSocketConn
	config      *websocket.WebsocketConfig
	req         *websocket.WebsocketRequest
	closeCh     chan struct{}
	doneCh      chan struct{}
	closeOnce   sync.Once
	doneOnce    sync.Once
	connectTime time.Time
}

func (w *GorillaWebsocket) Connect(req *websocket.WebsocketRequest) error {
	if err := w.conn.Dial(req.Endpoint, req.Header); err != nil {
		w.doneOnce.Do(func() { close(w.doneCh) })
		return err
	}
	w.configure()
	w.req = req
	w.isConnected.Store(true)
	w.connectTime = time.Now()
	go w.readMessages(req)
	return nil
}

func (w *GorillaWebsocket) configure() {
	if w.config.PingHandler != nil {
		w.conn.SetPingHandler(w.config.PingHandler)
	}
	if w.config.PongHandler != nil {
		w.conn.SetPongHandler(w.config.PongHandler)
	}
}

func (w *GorillaWebsocket) readMessages(req *websocket.WebsocketRequest) {
	// 退出时标记读协程已结束
	defer w.doneOnce.Do(func() {
		close(w.doneCh)
	})
	for {
		select {
		case <-w.closeCh:
			return
		default:
			_, message, err := w.conn.ReadMessage()
			if err != nil {
				select {
				case <-w.closeCh:
					// 已收到关闭信号, 不按错误处理
				default:
					w.isConnected.Store(false)
					if req.ErrorHandler != nil {
						req.ErrorHandler(err)
					}
				}
				return
			}
			req.MessageHandler(message)
		}
	}
}

func (w *GorillaWebsocket) Disconnect() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		if w.req == nil {
			// 从未连接成功, 没有读协程也没有底层连接可关
			w.doneOnce.Do(func() { close(w.doneCh) })
			return
		}
		err = w.conn.Close()
	})
	w.isConnected.Store(false)
	// 确保读协程已经结束
	<-w.doneCh
	return err
}

func (w *GorillaWebsocket) Reconnect() error {
	w.Disconnect()

	// 重置通道, 准备新的连接周期
	w.closeCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.closeOnce = sync.Once{}
	w.doneOnce = sync.Once{}

	return w.Connect(w.req)
}

func (w *GorillaWebsocket) IsConnected() bool {
	return w.isConnected.Load()
}

func (w *GorillaWebsocket) WriteMessage(messageType int, data []byte) error {
	return w.conn.WriteMessage(messageType, data)
}

func (w *GorillaWebsocket) ConnectionDuration() time.Duration {
	return time.Since(w.connectTime)
}
