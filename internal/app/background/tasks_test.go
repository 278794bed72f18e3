package background

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-rates-service/internal/domain"
	"github.com/LavaJover/shvark-rates-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-rates-service/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submittedRate struct {
	instrumentID string
	rate         decimal.Decimal
	source       string
	useCache     bool
}

type resolvedRate struct {
	instrumentID string
	useCache     bool
}

type recordingUsecase struct {
	usecase.RatesUsecase
	submitted []submittedRate
	resolved  []resolvedRate
}

func (f *recordingUsecase) SubmitExternalRate(ctx context.Context, instrumentID string, rate decimal.Decimal, source string, useCache bool) (decimal.Decimal, error) {
	f.submitted = append(f.submitted, submittedRate{instrumentID, rate, source, useCache})
	return rate, nil
}

func (f *recordingUsecase) Resolve(ctx context.Context, instrumentID string, useCache bool) (decimal.Decimal, error) {
	f.resolved = append(f.resolved, resolvedRate{instrumentID, useCache})
	return decimal.RequireFromString("0.15"), nil
}

type stubSubscriber struct {
	messages chan domain.Message
	err      error
	topic    string
	groupID  string
}

func (s *stubSubscriber) Subscribe(topic, groupID string) (<-chan domain.Message, error) {
	s.topic = topic
	s.groupID = groupID
	if s.err != nil {
		return nil, s.err
	}
	return s.messages, nil
}

func TestHandleExternalRate(t *testing.T) {
	fake := &recordingUsecase{}
	bt := NewBackgroundTasks(fake, nil, "external-rates", "rates-service", "$ZRA+0000", time.Minute)

	payload, err := json.Marshal(kafka.ExternalRateEvent{
		EventID:      "evt-1",
		InstrumentID: "$ZRA+0000",
		Rate:         decimal.RequireFromString("0.20"),
		Source:       "oracle",
		SubmittedAt:  time.Now(),
	})
	require.NoError(t, err)

	bt.handleExternalRate(context.Background(), domain.Message{Value: payload})

	require.Len(t, fake.submitted, 1)
	assert.Equal(t, "$ZRA+0000", fake.submitted[0].instrumentID)
	assert.True(t, fake.submitted[0].rate.Equal(decimal.RequireFromString("0.20")))
	assert.Equal(t, "oracle", fake.submitted[0].source)
	assert.True(t, fake.submitted[0].useCache)
}

func TestHandleExternalRateMalformed(t *testing.T) {
	fake := &recordingUsecase{}
	bt := NewBackgroundTasks(fake, nil, "external-rates", "rates-service", "$ZRA+0000", time.Minute)

	bt.handleExternalRate(context.Background(), domain.Message{Value: []byte("not json")})
	assert.Empty(t, fake.submitted)
}

func TestExternalRatesConsumer(t *testing.T) {
	fake := &recordingUsecase{}
	subscriber := &stubSubscriber{messages: make(chan domain.Message, 1)}
	bt := NewBackgroundTasks(fake, subscriber, "external-rates", "rates-service", "$ZRA+0000", time.Minute)

	payload, err := json.Marshal(kafka.ExternalRateEvent{
		EventID:      "evt-2",
		InstrumentID: "$GOLD+0001",
		Rate:         decimal.RequireFromString("1.25"),
		SubmittedAt:  time.Now(),
	})
	require.NoError(t, err)

	subscriber.messages <- domain.Message{Key: []byte("$GOLD+0001"), Value: payload}
	close(subscriber.messages)

	// Закрытый канал завершает консьюмер после обработки сообщения
	bt.startExternalRatesConsumer(context.Background())

	assert.Equal(t, "external-rates", subscriber.topic)
	assert.Equal(t, "rates-service", subscriber.groupID)
	require.Len(t, fake.submitted, 1)
	assert.Equal(t, "$GOLD+0001", fake.submitted[0].instrumentID)
}

func TestExternalRatesConsumerSubscribeError(t *testing.T) {
	fake := &recordingUsecase{}
	subscriber := &stubSubscriber{err: errors.New("broker unreachable")}
	bt := NewBackgroundTasks(fake, subscriber, "external-rates", "rates-service", "$ZRA+0000", time.Minute)

	bt.startExternalRatesConsumer(context.Background())
	assert.Empty(t, fake.submitted)
}

func TestNativeRateWarmup(t *testing.T) {
	fake := &recordingUsecase{}
	bt := NewBackgroundTasks(fake, nil, "external-rates", "rates-service", "$ZRA+0000", 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	bt.startNativeRateWarmup(ctx)

	require.NotEmpty(t, fake.resolved)
	assert.Equal(t, "$ZRA+0000", fake.resolved[0].instrumentID)
	assert.False(t, fake.resolved[0].useCache)
}

func TestNewBackgroundTasksDefaultsInterval(t *testing.T) {
	bt := NewBackgroundTasks(&recordingUsecase{}, nil, "external-rates", "rates-service", "$ZRA+0000", 0)
	assert.Equal(t, time.Minute, bt.WarmupInterval)
}
