package kafka

import (
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/go-gotop/ems/broker"
)

func mapToKafkaHeader(m broker.Headers) []kafkaGo.Header {
	h := make([]kafkaGo.Header, 0, len(m))
	for k, v := range m {
		h = append(h, kafkaGo.Header{Key: k, Value: []byte(v)})
	}
	return h
}
