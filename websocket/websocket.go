package websocket

import (
	"net/http"
	"time"
)

// WebSocketConn 底层连接抽象, 便于测试替换
type WebSocketConn interface {
	Dial(endpoint string, requestHeader http.Header) error
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetPingHandler(h func(appData string) error)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// WebsocketConfig 连接配置选项
type WebsocketConfig struct {
	PingHandler func(appData string) error
	PongHandler func(appData string) error
}

type WebsocketRequest struct {
	// Endpoint 服务器地址
	Endpoint string

	// ID 连接的唯一标识
	ID string

	// Header 握手时附带的请求头, 可为 nil
	Header http.Header

	// MessageHandler 消息处理函数
	MessageHandler func([]byte)

	// ErrorHandler 错误处理函数
	ErrorHandler func(err error)
}

// Websocket 接口定义基本的连接管理操作
type Websocket interface {
	// Connect 建立连接
	Connect(req *WebsocketRequest) error

	// Disconnect 关闭连接
	Disconnect() error

	// Reconnect 重新建立连接
	Reconnect() error

	// IsConnected 连接是否活跃
	IsConnected() bool

	// WriteMessage 写一条消息
	WriteMessage(messageType int, data []byte) error

	// ConnectionDuration 当前连接的持续时间
	ConnectionDuration() time.Duration
}
