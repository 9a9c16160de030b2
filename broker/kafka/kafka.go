// kafka 把归一化事件流转发到 Kafka topic
package kafka

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/go-gotop/ems/broker"
)

var _ broker.Publisher = (*Publisher)(nil)

type Option func(*options)

type options struct {
	logger   *log.Helper
	balancer kafkaGo.Balancer
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.NewHelper(logger)
	}
}

func WithBalancer(b kafkaGo.Balancer) Option {
	return func(o *options) {
		o.balancer = b
	}
}

func NewPublisher(addr string, opts ...Option) *Publisher {
	o := &options{
		logger:   log.NewHelper(log.DefaultLogger),
		balancer: &kafkaGo.Hash{},
	}
	for _, opt := range opts {
		opt(o)
	}

	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(addr),
		Balancer:               o.balancer,
		AllowAutoTopicCreation: true,
		Logger:                 writerLogger{logger: o.logger, errors: false},
		ErrorLogger:            writerLogger{logger: o.logger, errors: true},
	}

	return &Publisher{
		opts:   o,
		writer: w,
	}
}

type Publisher struct {
	opts   *options
	writer *kafkaGo.Writer
}

func (p *Publisher) Publish(ctx context.Context, topic string, msg *broker.Message) error {
	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic:   topic,
		Key:     []byte(msg.Key),
		Value:   msg.Body,
		Headers: mapToKafkaHeader(msg.Headers),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// writerLogger 把 kafka-go writer 的日志接到本模块的日志器
type writerLogger struct {
	logger *log.Helper
	errors bool
}

func (l writerLogger) Printf(msg string, args ...interface{}) {
	if l.errors {
		l.logger.Errorf(msg, args...)
		return
	}
	l.logger.Infof(msg, args...)
}
