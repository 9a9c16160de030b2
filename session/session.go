package session

// CorrelationID 是关联出站请求/订阅与入站事件流的不透明标识
type CorrelationID int64

// EventType 事件分类
type EventType int

const (
	EventUnknown EventType = iota
	// EventAdmin 管理类事件, 仅作记录 (如 slow consumer 警告)
	EventAdmin
	// EventSessionStatus 会话状态事件
	EventSessionStatus
	// EventServiceStatus 服务状态事件
	EventServiceStatus
	// EventSubscriptionStatus 订阅状态事件
	EventSubscriptionStatus
	// EventSubscriptionData 订阅数据事件 (行情)
	EventSubscriptionData
	// EventResponse 请求的终结响应
	EventResponse
	// EventRequestStatus 请求的中间状态
	EventRequestStatus
)

// 会话/服务状态消息类型
const (
	MsgSessionStarted        = "SessionStarted"
	MsgSessionTerminated     = "SessionTerminated"
	MsgSessionStartupFailure = "SessionStartupFailure"
	MsgSessionConnectionUp   = "SessionConnectionUp"
	MsgSessionConnectionDown = "SessionConnectionDown"
	MsgServiceOpened         = "ServiceOpened"
	MsgServiceOpenFailure    = "ServiceOpenFailure"

	MsgSubscriptionStarted    = "SubscriptionStarted"
	MsgSubscriptionActivated  = "SubscriptionStreamsActivated"
	MsgSubscriptionTerminated = "SubscriptionTerminated"
	MsgSubscriptionFailure    = "SubscriptionFailure"

	MsgSlowConsumerWarning        = "SlowConsumerWarning"
	MsgSlowConsumerWarningCleared = "SlowConsumerWarningCleared"
)

// Message 是一条已解码的入站消息
// 字段解码由传输层完成, 这里只关心消息类型、关联ID和命名字段
type Message struct {
	// Type 消息类型标签
	Type string
	// CorrelationIDs 消息携带的关联ID, 可能多个 (多个订阅共享同一topic时)
	CorrelationIDs []CorrelationID
	// Fields 命名字段集合
	Fields Fields
}

// Event 是传输层回调交付的一批消息
type Event struct {
	Type     EventType
	Messages []*Message
}

// EventHandler 入站事件回调
type EventHandler func(evt *Event)

// Request 出站请求
type Request struct {
	// Operation 请求操作名, 如 ReferenceDataRequest, CreateOrder
	Operation string
	Fields    Fields
}

// SubscriptionItem 单条订阅/退订项
type SubscriptionItem struct {
	// Topic 传输层的可订阅标的字符串
	Topic string
	// Fields 订阅的字段集
	Fields []string
	// CorrelationID 该订阅的关联ID
	CorrelationID CorrelationID
}

//go:generate mockgen -destination=mocks/session.go -package=mocks . Session

// Session 是底层会话传输接口
// 实现负责连线协议本身; 事件通过 SetEventHandler 注册的回调在传输自身的
// goroutine 上交付
type Session interface {
	// Start 建立会话
	Start() error
	// Stop 关闭会话
	Stop() error
	// OpenService 打开命名服务
	OpenService(name string) error
	// SendRequest 发送携带关联ID的请求
	SendRequest(service string, req *Request, id CorrelationID) error
	// Subscribe 批量订阅
	Subscribe(items []*SubscriptionItem) error
	// Unsubscribe 批量退订
	Unsubscribe(items []*SubscriptionItem) error
	// SetEventHandler 注册入站事件回调, 必须在 Start 之前调用
	SetEventHandler(h EventHandler)
}
