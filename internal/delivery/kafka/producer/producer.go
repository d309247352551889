package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	kafka "github.com/rinday2005/cinema-checkout/internal/delivery/kafka"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
	"github.com/rinday2005/cinema-checkout/pkg/util"
)

type Producer interface {
	PublishCheckoutConfirmed(ctx context.Context, event kafka.CheckoutConfirmedEvent) error
	PublishConfirmationRecorded(ctx context.Context, event kafka.ConfirmationRecordedEvent) error
	PublishConfirmationFailed(ctx context.Context, event kafka.ConfirmationFailedEvent) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishCheckoutConfirmed(ctx context.Context, event kafka.CheckoutConfirmedEvent) error {
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicCheckoutConfirmed, event.SessionID, event)
}

func (p *implProducer) PublishConfirmationRecorded(ctx context.Context, event kafka.ConfirmationRecordedEvent) error {
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicConfirmationRecorded, event.SessionID, event)
}

func (p *implProducer) PublishConfirmationFailed(ctx context.Context, event kafka.ConfirmationFailedEvent) error {
	event.Timestamp = time.Now()
	return p.send(ctx, kafka.TopicConfirmationFailed, event.SessionID, event)
}

func (p *implProducer) send(ctx context.Context, topic, key string, event any) error {
	val, err := json.Marshal(event)
	if err != nil {
		p.l.Errorf(ctx, "delivery.kafka.producer.send: %v", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key), // Partition by session_id for ordering
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("timestamp"),
				Value: []byte(util.TimeToISO8601Str(time.Now())),
			},
		},
	}

	_, _, err = p.prod.SendMessage(msg)
	return err
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}
