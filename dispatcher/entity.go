package dispatcher

import "fmt"

// Status 会话/服务状态的小枚举
type Status int

const (
	StatusUnknown Status = iota
	StatusStarted
	StatusTerminated
	StatusStartupFailure
	StatusConnectionUp
	StatusConnectionDown
	StatusOpened
	StatusOpenFailure
)

// SubscriptionState 订阅状态消息的分类
type SubscriptionState int

const (
	SubscriptionStateUnknown SubscriptionState = iota
	SubscriptionStateStarted
	SubscriptionStateActivated
	// SubscriptionStateCanceled 用户主动退订导致的终止
	SubscriptionStateCanceled
	// SubscriptionStateTerminated 券商侧终止
	SubscriptionStateTerminated
	SubscriptionStateFailure
)

// NotificationKind 上报给平台的通知类型
type NotificationKind int

const (
	// NotifyDisconnect 会话断开, 平台据此决定是否停止交易
	// 本层不做重连, 重连是传输层的职责
	NotifyDisconnect NotificationKind = iota
	// NotifySubscriptionFailure 远端上报的订阅失败
	NotifySubscriptionFailure
	// NotifyRequestFailure 远端上报的请求失败
	NotifyRequestFailure
	// NotifyWarning 一般警告
	NotifyWarning
)

// Notification 远端上报的失败以结构化通知的形式交给平台, 不抛本地异常
type Notification struct {
	Kind NotificationKind
	// Source/Category/Subcategory/Description 远端提供的失败明细, 可能为空
	Source      string
	Category    string
	Subcategory string
	Description string
	Message     string
}

// Describe 从远端字段拼装人类可读的失败描述
func (n *Notification) Describe() string {
	s := n.Message
	if n.Source != "" {
		s = fmt.Sprintf("%s source=%s", s, n.Source)
	}
	if n.Category != "" {
		s = fmt.Sprintf("%s category=%s", s, n.Category)
	}
	if n.Subcategory != "" {
		s = fmt.Sprintf("%s subcategory=%s", s, n.Subcategory)
	}
	if n.Description != "" {
		s = fmt.Sprintf("%s description=%s", s, n.Description)
	}
	return s
}

// Notify 通知回调
type Notify func(n *Notification)

// 订阅/请求状态消息的失败明细字段
const (
	FieldSource      = "SOURCE"
	FieldCategory    = "CATEGORY"
	FieldSubcategory = "SUBCATEGORY"
	FieldDescription = "DESCRIPTION"
	FieldReason      = "REASON"
)

// 退订原因类别, 用于区分用户主动退订与券商侧终止
const (
	ReasonCanceled = "CANCELED"
)
