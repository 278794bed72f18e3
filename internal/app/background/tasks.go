package background

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-rates-service/internal/usecase"
)

type BackgroundTasks struct {
	RatesUsecase     usecase.RatesUsecase
	Subscriber       domain.SubscriberPort
	ExternalTopic    string
	GroupID          string
	NativeInstrument string
	WarmupInterval   time.Duration
}

func NewBackgroundTasks(
	ratesUC usecase.RatesUsecase,
	subscriber domain.SubscriberPort,
	externalTopic, groupID, nativeInstrument string,
	warmupInterval time.Duration) *BackgroundTasks {

	if warmupInterval <= 0 {
		warmupInterval = time.Minute
	}

	return &BackgroundTasks{
		RatesUsecase:     ratesUC,
		Subscriber:       subscriber,
		ExternalTopic:    externalTopic,
		GroupID:          groupID,
		NativeInstrument: nativeInstrument,
		WarmupInterval:   warmupInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startExternalRatesConsumer(ctx)
	go bt.startNativeRateWarmup(ctx)
}

func (bt *BackgroundTasks) startExternalRatesConsumer(ctx context.Context) {
	messages, err := bt.Subscriber.Subscribe(bt.ExternalTopic, bt.GroupID)
	if err != nil {
		log.Printf("External rates subscribe failed: %v\n", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case message, ok := <-messages:
			if !ok {
				log.Printf("External rates channel closed\n")
				return
			}
			bt.handleExternalRate(ctx, message)
		}
	}
}

func (bt *BackgroundTasks) handleExternalRate(ctx context.Context, message domain.Message) {
	var event kafka.ExternalRateEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		slog.Warn("skipping malformed external rate event", "error", err.Error())
		return
	}

	if _, err := bt.RatesUsecase.SubmitExternalRate(ctx, event.InstrumentID, event.Rate, event.Source, true); err != nil {
		slog.Warn("failed to apply external rate event",
			"instrument_id", event.InstrumentID,
			"event_id", event.EventID,
			"error", err.Error())
	}
}

func (bt *BackgroundTasks) startNativeRateWarmup(ctx context.Context) {
	ticker := time.NewTicker(bt.WarmupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rate, err := bt.RatesUsecase.Resolve(ctx, bt.NativeInstrument, false)
			if err != nil {
				log.Printf("Native rate warmup failed: %v\n", err)
				continue
			}
			slog.Info("native rate refreshed", "instrument_id", bt.NativeInstrument, "rate", rate.String())
		}
	}
}
