package gateway

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-gotop/ems/broker"
	"github.com/go-gotop/ems/dispatcher"
	"github.com/go-gotop/ems/marketdata"
	"github.com/go-gotop/ems/orderstate"
)

// Redefining the standard package
var Json = jsoniter.ConfigCompatibleWithStandardLibrary

// publishTick 外发归一化tick, key是标的, 同标的进同一分区
func publishTick(pub broker.Publisher, tick *marketdata.Tick) error {
	body, err := Json.Marshal(tick)
	if err != nil {
		return err
	}
	return pub.Publish(context.Background(), broker.TickTopicType, &broker.Message{
		Key:  tick.Symbol,
		Body: body,
	})
}

// publishOrderEvent 外发归一化订单事件, key是订单ID
func publishOrderEvent(pub broker.Publisher, evt *orderstate.OrderEvent) error {
	body, err := Json.Marshal(evt)
	if err != nil {
		return err
	}
	return pub.Publish(context.Background(), broker.OrderEventTopicType, &broker.Message{
		Key:  evt.OrderID,
		Body: body,
	})
}

// publishNotification 外发结构化通知
func publishNotification(pub broker.Publisher, n *dispatcher.Notification) error {
	body, err := Json.Marshal(n)
	if err != nil {
		return err
	}
	return pub.Publish(context.Background(), broker.NotifyTopicType, &broker.Message{
		Body: body,
	})
}
