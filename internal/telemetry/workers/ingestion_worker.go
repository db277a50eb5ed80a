package workers

import (
	"context"
	"errors"
	"log/slog"

	"feinstaub-server/internal/infra/async"
	"feinstaub-server/internal/infra/mqtt"
	"feinstaub-server/internal/telemetry/dto"
	"feinstaub-server/internal/telemetry/usecases"
)

const (
	BrokerTopicNewReading async.BrokerTopicName = "sensor_readings"

	EventNewReading     = "new_reading"
	EventMessageDropped = "message_dropped"

	_uplinkQoS        byte = 0
	_uplinkBufferSize      = 64
)

func NewIngestionWorker(
	mqttClient mqtt.Client,
	topic string,
	repository usecases.ReadingRepository,
	cache usecases.LatestReadingCache,
	broker async.InternalBroker,
) *IngestionWorker {
	return &IngestionWorker{
		mqttClient: mqttClient,
		topic:      topic,
		repository: repository,
		cache:      cache,
		broker:     broker,
		uplinks:    make(chan []byte, _uplinkBufferSize),
	}
}

var _ async.Worker = (*IngestionWorker)(nil)

// IngestionWorker consumes sensor uplinks from the MQTT broker and runs each
// one through decode, persist, cache and fanout. A single goroutine drains the
// uplink channel, so readings are always processed in arrival order.
type IngestionWorker struct {
	mqttClient mqtt.Client
	topic      string
	repository usecases.ReadingRepository
	cache      usecases.LatestReadingCache
	broker     async.InternalBroker
	uplinks    chan []byte
}

func (w *IngestionWorker) Run(ctx context.Context, done func()) {
	defer done()

	err := w.mqttClient.Subscribe(w.topic, _uplinkQoS, w.messageHandler())
	if err != nil {
		slog.Error("subscribing to uplink topic",
			slog.String("topic", w.topic),
			slog.Any("error", err),
		)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Warn("ingestion worker cancelled")
			return
		case payload := <-w.uplinks:
			w.handleUplink(ctx, payload)
		}
	}
}

func (w *IngestionWorker) messageHandler() mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		slog.Debug("uplink received",
			slog.String("topic", msg.Topic()),
			slog.Uint64("message_id", uint64(msg.MessageID())),
		)
		w.uplinks <- msg.Payload()
	}
}

func (w *IngestionWorker) handleUplink(ctx context.Context, payload []byte) {
	reading, err := dto.DecodeUplink(payload)
	if err != nil {
		// Malformed uplinks are expected on a shared broker topic. They are
		// counted but never interrupt the pipeline.
		slog.Debug("dropping uplink", slog.Any("error", err))
		w.broker.Publish(ctx, BrokerTopicNewReading, async.BrokerMessage{
			Event: EventMessageDropped,
			Error: err,
		})
		return
	}

	stored, err := w.repository.Create(ctx, reading)
	if err != nil {
		if errors.Is(err, usecases.ErrStorageUnavailable) {
			slog.Error("storing reading", slog.Any("error", err))
		} else {
			slog.Error("unexpected persistence failure", slog.Any("error", err))
		}
		w.broker.Publish(ctx, BrokerTopicNewReading, async.BrokerMessage{
			Event: EventMessageDropped,
			Error: err,
		})
		return
	}

	if err := w.cache.Set(ctx, stored); err != nil {
		slog.Warn("updating latest reading cache", slog.Any("error", err))
	}

	w.broker.Publish(ctx, BrokerTopicNewReading, async.BrokerMessage{
		Event: EventNewReading,
		Value: stored,
	})

	slog.Info("reading ingested",
		slog.Uint64("sequence_id", stored.SequenceID),
		slog.Time("received_at", stored.ReceivedAt),
	)
}

func (w *IngestionWorker) Shutdown() {
	w.mqttClient.Disconnect()
}
