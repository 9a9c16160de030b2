package broker

import (
	"context"
)

// 归一化事件流的topic
const (
	TickTopicType       string = "MARKETDATA.TICK"
	OrderEventTopicType string = "ORDER.EVENT"
	NotifyTopicType     string = "GATEWAY.NOTIFY"
)

type Headers map[string]string

type Message struct {
	Headers Headers
	Key     string
	Body    []byte
}

type Event interface {
	Topic() string

	Message() *Message
	RawMessage() interface{}

	Ack() error

	Error() error
}

type Handler func(ctx context.Context, evt Event) error

// Publisher 归一化事件的外发接口
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *Message) error
	Close() error
}
