package wssession

import (
	"github.com/go-gotop/ems/session"
)

// 出站帧操作名
const (
	opOpenService = "openService"
	opRequest     = "request"
	opSubscribe   = "subscribe"
	opUnsubscribe = "unsubscribe"
)

// wsOutFrame 出站帧
type wsOutFrame struct {
	Op            string                 `json:"op"`
	Service       string                 `json:"service,omitempty"`
	Operation     string                 `json:"operation,omitempty"`
	CorrelationID int64                  `json:"correlationId,omitempty"`
	Fields        map[string]interface{} `json:"fields,omitempty"`
	Items         []wsSubscriptionItem   `json:"items,omitempty"`
}

type wsSubscriptionItem struct {
	Topic         string   `json:"topic"`
	Fields        []string `json:"fields"`
	CorrelationID int64    `json:"correlationId"`
}

// wsInFrame 入站帧, 一批消息共享一个事件类型
type wsInFrame struct {
	EventType string        `json:"eventType"`
	Messages  []wsInMessage `json:"messages"`
}

type wsInMessage struct {
	MessageType    string                 `json:"messageType"`
	CorrelationIDs []int64                `json:"correlationIds"`
	Fields         map[string]interface{} `json:"fields"`
}

// 入站帧的事件类型标签
var eventTypes = map[string]session.EventType{
	"ADMIN":               session.EventAdmin,
	"SESSION_STATUS":      session.EventSessionStatus,
	"SERVICE_STATUS":      session.EventServiceStatus,
	"SUBSCRIPTION_STATUS": session.EventSubscriptionStatus,
	"SUBSCRIPTION_DATA":   session.EventSubscriptionData,
	"RESPONSE":            session.EventResponse,
	"REQUEST_STATUS":      session.EventRequestStatus,
}

func toEvent(frame *wsInFrame) *session.Event {
	et, ok := eventTypes[frame.EventType]
	if !ok {
		et = session.EventUnknown
	}
	evt := &session.Event{
		Type:     et,
		Messages: make([]*session.Message, 0, len(frame.Messages)),
	}
	for _, m := range frame.Messages {
		ids := make([]session.CorrelationID, 0, len(m.CorrelationIDs))
		for _, id := range m.CorrelationIDs {
			ids = append(ids, session.CorrelationID(id))
		}
		evt.Messages = append(evt.Messages, &session.Message{
			Type:           m.MessageType,
			CorrelationIDs: ids,
			Fields:         session.Fields(m.Fields),
		})
	}
	return evt
}
