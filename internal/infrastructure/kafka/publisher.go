package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type RatesPublisher struct {
	writer *kafka.Writer
}

func NewRatesPublisher(brokers []string, topic string) *RatesPublisher {
	return &RatesPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *RatesPublisher) PublishDegradation(event RateDegradationEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.InstrumentID),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *RatesPublisher) Close() error {
	return k.writer.Close()
}
