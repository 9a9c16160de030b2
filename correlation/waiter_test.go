package correlation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/go-gotop/ems/session"
)

func TestWaiterDeliverWakesWait(t *testing.T) {
	w := NewWaiter()
	id := session.CorrelationID(1)

	w.Prepare(id)

	go func() {
		time.Sleep(10 * time.Millisecond)
		ok := w.Deliver(id, &session.Message{Type: "ReferenceDataResponse"})
		assert.True(t, ok)
	}()

	msg, err := w.Wait(context.Background(), id)
	assert.Nil(t, err)
	assert.Equal(t, "ReferenceDataResponse", msg.Type)
}

func TestWaiterDeliverBeforeWait(t *testing.T) {
	w := NewWaiter()
	id := session.CorrelationID(2)

	w.Prepare(id)
	ok := w.Deliver(id, &session.Message{Type: "Response"})
	assert.True(t, ok)

	// 响应先于 Wait 到达也不能丢
	msg, err := w.Wait(context.Background(), id)
	assert.Nil(t, err)
	assert.Equal(t, "Response", msg.Type)
}

func TestWaiterWaitConsumesParkedEntry(t *testing.T) {
	w := NewWaiter()
	id := session.CorrelationID(6)

	w.Prepare(id)
	assert.True(t, w.Deliver(id, &session.Message{Type: "Response"}))

	msg, err := w.Wait(context.Background(), id)
	assert.Nil(t, err)
	assert.Equal(t, "Response", msg.Type)

	// 消费后停靠条目已清除, 二次 Wait 和迟到的 Deliver 都不命中
	_, err = w.Wait(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.False(t, w.Deliver(id, &session.Message{Type: "Response"}))
}

func TestWaiterDuplicateDeliver(t *testing.T) {
	w := NewWaiter()
	id := session.CorrelationID(7)

	w.Prepare(id)
	assert.True(t, w.Deliver(id, &session.Message{Type: "First"}))

	// 重复的终结消息不覆盖也不阻塞
	assert.False(t, w.Deliver(id, &session.Message{Type: "Second"}))

	msg, err := w.Wait(context.Background(), id)
	assert.Nil(t, err)
	assert.Equal(t, "First", msg.Type)
}

func TestWaiterContextTimeout(t *testing.T) {
	w := NewWaiter()
	id := session.CorrelationID(3)

	w.Prepare(id)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	msg, err := w.Wait(ctx, id)
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 超时后停靠已被放弃, 迟到的响应按无人等待处理
	ok := w.Deliver(id, &session.Message{Type: "Response"})
	assert.False(t, ok)
}

func TestWaiterWaitWithoutPrepare(t *testing.T) {
	w := NewWaiter()

	msg, err := w.Wait(context.Background(), session.CorrelationID(4))
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestWaiterDeliverNobodyWaiting(t *testing.T) {
	w := NewWaiter()

	ok := w.Deliver(session.CorrelationID(5), &session.Message{Type: "Response"})
	assert.False(t, ok)
}
