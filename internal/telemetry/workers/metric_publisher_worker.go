package workers

import (
	"context"
	"log/slog"

	"feinstaub-server/internal/infra/async"
	"feinstaub-server/internal/telemetry/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	_metricKeyIngested = "readings_ingested"
	_metricKeyDropped  = "messages_dropped"
)

func NewMetricPublisherWorker(broker async.InternalBroker) *MetricPublisherWorker {
	return &MetricPublisherWorker{
		broker:   broker,
		counters: make(map[string]metric.Float64Counter),
		gauges:   make(map[string]metric.Float64Gauge),
	}
}

var _ async.Worker = (*MetricPublisherWorker)(nil)

// MetricPublisherWorker mirrors the reading stream into OpenTelemetry
// instruments so the measurement channels show up on dashboards without
// touching the ingestion path.
type MetricPublisherWorker struct {
	broker   async.InternalBroker
	counters map[string]metric.Float64Counter
	gauges   map[string]metric.Float64Gauge
}

func (w *MetricPublisherWorker) Run(ctx context.Context, done func()) {
	slog.Debug("metric publisher worker started")
	defer done()

	w.setupMetrics()

	subscription, err := w.broker.Subscribe(BrokerTopicNewReading)
	if err != nil {
		slog.Error("subscribing to reading events", slog.Any("error", err))
		return
	}
	defer w.broker.Unsubscribe(BrokerTopicNewReading, subscription)

	for {
		select {
		case <-ctx.Done():
			slog.Info("metric publisher worker cancelled")
			return
		case msg, ok := <-subscription.Receiver:
			if !ok {
				return
			}
			w.handleEvent(ctx, msg)
		}
	}
}

func (w *MetricPublisherWorker) Shutdown() {
	slog.Info("metric publisher worker shutdown")
}

func (w *MetricPublisherWorker) setupMetrics() {
	meter := otel.Meter("feinstaub_server")

	ingestedCounter, _ := meter.Float64Counter(
		"feinstaub_server.readings.ingested.total",
		metric.WithDescription("Total number of readings ingested"),
	)
	w.counters[_metricKeyIngested] = ingestedCounter

	droppedCounter, _ := meter.Float64Counter(
		"feinstaub_server.readings.dropped.total",
		metric.WithDescription("Total number of uplinks dropped before fanout"),
	)
	w.counters[_metricKeyDropped] = droppedCounter

	for key, description := range map[string]string{
		"pm1_mass":              "Current PM1.0 mass concentration in ug/m3",
		"pm2_5_mass":            "Current PM2.5 mass concentration in ug/m3",
		"pm4_mass":              "Current PM4.0 mass concentration in ug/m3",
		"pm10_mass":             "Current PM10 mass concentration in ug/m3",
		"pm1_count":             "Current PM1.0 number concentration in 1/cm3",
		"pm2_5_count":           "Current PM2.5 number concentration in 1/cm3",
		"pm4_count":             "Current PM4.0 number concentration in 1/cm3",
		"pm10_count":            "Current PM10 number concentration in 1/cm3",
		"typical_particle_size": "Current typical particle size in um",
		"temperature":           "Current temperature in degrees Celsius",
		"humidity":              "Current relative humidity in percent",
		"supply_voltage":        "Current sensor supply voltage in volts",
	} {
		gauge, _ := meter.Float64Gauge(
			"feinstaub_server.sensor."+key,
			metric.WithDescription(description),
		)
		w.gauges[key] = gauge
	}

	slog.Info("metric publisher worker metrics initialized")
}

func (w *MetricPublisherWorker) handleEvent(ctx context.Context, msg async.BrokerMessage) {
	switch msg.Event {
	case EventNewReading:
		reading, ok := msg.Value.(domain.Reading)
		if !ok {
			slog.Error("parsing message type", slog.String("error", "msg is not domain.Reading"), slog.Any("message", msg.Value))
			return
		}
		w.handleNewReading(ctx, reading)
	case EventMessageDropped:
		w.handleMessageDropped(ctx, msg.Error)
	default:
		slog.Debug("unhandled event type", slog.String("event", msg.Event))
	}
}

func (w *MetricPublisherWorker) handleNewReading(ctx context.Context, reading domain.Reading) {
	attributes := []attribute.KeyValue{
		semconv.ServiceNameKey.String("feinstaub_server"),
	}

	w.counters[_metricKeyIngested].Add(ctx, 1, metric.WithAttributes(attributes...))

	channels := map[string]*float64{
		"pm1_mass":              reading.PM1Mass,
		"pm2_5_mass":            reading.PM25Mass,
		"pm4_mass":              reading.PM4Mass,
		"pm10_mass":             reading.PM10Mass,
		"pm1_count":             reading.PM1Count,
		"pm2_5_count":           reading.PM25Count,
		"pm4_count":             reading.PM4Count,
		"pm10_count":            reading.PM10Count,
		"typical_particle_size": reading.TypicalParticleSize,
		"temperature":           reading.Temperature,
		"humidity":              reading.Humidity,
		"supply_voltage":        reading.SupplyVoltage,
	}

	for key, value := range channels {
		if value == nil {
			continue
		}
		w.gauges[key].Record(ctx, *value, metric.WithAttributes(attributes...))
	}

	slog.Debug("published reading metrics", slog.Uint64("sequence_id", reading.SequenceID))
}

func (w *MetricPublisherWorker) handleMessageDropped(ctx context.Context, cause error) {
	attributes := []attribute.KeyValue{
		semconv.ServiceNameKey.String("feinstaub_server"),
	}
	if cause != nil {
		attributes = append(attributes, attribute.String("reason", cause.Error()))
	}

	w.counters[_metricKeyDropped].Add(ctx, 1, metric.WithAttributes(attributes...))
}
