// wssession 在 websocket JSON 帧之上实现 session.Session
// 每个会话一条连接; 入站帧先用 simplejson 窥探事件类型标签,
// 再整帧解码并在读协程上交付给注册的事件回调
package wssession

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	gwebsocket "github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/go-gotop/ems/session"
	"github.com/go-gotop/ems/websocket"
	"github.com/go-gotop/ems/websocket/gorilla"
)

var _ session.Session = (*ws)(nil)

var (
	ErrNotStarted     = errors.New("session not started")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNoEventHandler = errors.New("event handler not set before start")
)

// Redefining the standard package
var Json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewSession(endpoint string, opts ...Option) session.Session {
	o := &options{
		logger: log.NewHelper(log.DefaultLogger),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &ws{
		endpoint: endpoint,
		opts:     o,
	}
}

type ws struct {
	endpoint string
	opts     *options
	handler  session.EventHandler

	mux     sync.Mutex
	conn    websocket.Websocket
	started bool
}

func (w *ws) SetEventHandler(h session.EventHandler) {
	w.mux.Lock()
	defer w.mux.Unlock()
	w.handler = h
}

func (w *ws) Start() error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	if w.handler == nil {
		return ErrNoEventHandler
	}

	var header http.Header
	if w.opts.creds != nil {
		header = authHeader(w.opts.creds, time.Now())
	}

	conn := gorilla.NewGorillaWebsocket(gorilla.NewGorillaWebSocketConn(), &websocket.WebsocketConfig{})
	err := conn.Connect(&websocket.WebsocketRequest{
		Endpoint:       w.endpoint,
		ID:             uuid.New().String(),
		Header:         header,
		MessageHandler: w.onMessage,
		ErrorHandler:   w.onError,
	})
	if err != nil {
		return err
	}

	w.conn = conn
	w.started = true
	return nil
}

func (w *ws) Stop() error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if !w.started {
		return nil
	}
	w.started = false
	return w.conn.Disconnect()
}

func (w *ws) OpenService(name string) error {
	return w.send(&wsOutFrame{
		Op:      opOpenService,
		Service: name,
	})
}

func (w *ws) SendRequest(service string, req *session.Request, id session.CorrelationID) error {
	return w.send(&wsOutFrame{
		Op:            opRequest,
		Service:       service,
		Operation:     req.Operation,
		CorrelationID: int64(id),
		Fields:        req.Fields,
	})
}

func (w *ws) Subscribe(items []*session.SubscriptionItem) error {
	return w.send(&wsOutFrame{
		Op:    opSubscribe,
		Items: toWireItems(items),
	})
}

func (w *ws) Unsubscribe(items []*session.SubscriptionItem) error {
	return w.send(&wsOutFrame{
		Op:    opUnsubscribe,
		Items: toWireItems(items),
	})
}

func (w *ws) send(frame *wsOutFrame) error {
	w.mux.Lock()
	defer w.mux.Unlock()

	if !w.started {
		return ErrNotStarted
	}
	data, err := Json.Marshal(frame)
	if err != nil {
		return err
	}
	return w.conn.WriteMessage(gwebsocket.TextMessage, data)
}

// onMessage 在读协程上解码入站帧并交付事件
func (w *ws) onMessage(message []byte) {
	j, err := simplejson.NewJson(message)
	if err != nil {
		w.opts.logger.Errorf("session frame new json error: %v", err)
		return
	}
	if j.Get("eventType").MustString() == "" {
		w.opts.logger.Warn("session frame without event type, dropped")
		return
	}

	frame := &wsInFrame{}
	if err := Json.Unmarshal(message, frame); err != nil {
		w.opts.logger.Errorf("session frame unmarshal error: %v", err)
		return
	}
	w.handler(toEvent(frame))
}

func (w *ws) onError(err error) {
	w.opts.logger.Errorf("session connection error: %v", err)
	if w.opts.errorHandler != nil {
		w.opts.errorHandler(err)
	}
}

func toWireItems(items []*session.SubscriptionItem) []wsSubscriptionItem {
	wire := make([]wsSubscriptionItem, 0, len(items))
	for _, it := range items {
		wire = append(wire, wsSubscriptionItem{
			Topic:         it.Topic,
			Fields:        it.Fields,
			CorrelationID: int64(it.CorrelationID),
		})
	}
	return wire
}
