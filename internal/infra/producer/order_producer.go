package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/model/event"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type ProducerError error

var ErrProducerClosed ProducerError = errors.New("producer is closed")

const eventTypeHeader = "event_type"

// Writer kafka.Writer 實作此介面, 測試時替換
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderProducer struct {
	writer Writer
	closed atomic.Bool
}

func NewOrderProducer(writer Writer) *OrderProducer {
	if writer == nil {
		panic("order producer requires writer")
	}
	return &OrderProducer{writer: writer}
}

// NewKafkaWriter 建立寫入訂單 topic 的 writer
func NewKafkaWriter(brokers []string, topic string, logger *zerolog.Logger) *kafka.Writer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		// 重試機制設置
		MaxAttempts:  3,
		WriteTimeout: 5 * time.Second,
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf("kafka producer error: "+msg, args...)
		}),
	}
}

// PublishCheckoutCompleted 以 order id 當 key, 同一訂單落在同一分區
func (p *OrderProducer) PublishCheckoutCompleted(ctx context.Context, evt *event.CheckoutCompletedEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode checkout event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.OrderID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(evt.Type())},
		},
		Time: evt.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish checkout event %d: %w", evt.OrderID, err)
	}
	return nil
}

func (p *OrderProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
