package workers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"feinstaub-server/internal/infra/async"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type fakeReadingRepository struct {
	mu       sync.Mutex
	readings []domain.Reading
	failWith error
}

func (f *fakeReadingRepository) Create(_ context.Context, reading domain.Reading) (domain.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.Reading{}, f.failWith
	}
	reading.SequenceID = uint64(len(f.readings) + 1)
	f.readings = append(f.readings, reading)
	return reading, nil
}

func (f *fakeReadingRepository) Latest(_ context.Context) (domain.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.readings) == 0 {
		return domain.Reading{}, usecases.ErrReadingNotFound
	}
	return f.readings[len(f.readings)-1], nil
}

func (f *fakeReadingRepository) Range(_ context.Context, _ *time.Time) ([]domain.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Reading{}, f.readings...), nil
}

func (f *fakeReadingRepository) Stats(_ context.Context) (usecases.StoreStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return usecases.StoreStats{TotalCount: int64(len(f.readings))}, nil
}

func (f *fakeReadingRepository) Ping(_ context.Context) error {
	return nil
}

type fakeLatestReadingCache struct {
	mu      sync.Mutex
	reading *domain.Reading
}

func (f *fakeLatestReadingCache) Set(_ context.Context, reading domain.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reading = &reading
	return nil
}

func (f *fakeLatestReadingCache) Get(_ context.Context) (domain.Reading, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reading == nil {
		return domain.Reading{}, false
	}
	return *f.reading, true
}

var _ = ginkgo.Describe("IngestionWorker", func() {
	var (
		ctx          context.Context
		repository   *fakeReadingRepository
		cache        *fakeLatestReadingCache
		broker       *async.LocalBroker
		subscription async.Subscription
		worker       *IngestionWorker
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repository = &fakeReadingRepository{}
		cache = &fakeLatestReadingCache{}
		broker = async.NewLocalBroker()

		var err error
		subscription, err = broker.Subscribe(BrokerTopicNewReading)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		worker = &IngestionWorker{
			repository: repository,
			cache:      cache,
			broker:     broker,
		}
	})

	uplinkPayload := func(receivedAt time.Time, decoded map[string]any) []byte {
		payload, err := json.Marshal(map[string]any{
			"received_at": receivedAt,
			"uplink_message": map[string]any{
				"f_port":          1,
				"decoded_payload": decoded,
			},
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return payload
	}

	ginkgo.Context("handleUplink", func() {
		ginkgo.When("the uplink decodes cleanly", func() {
			ginkgo.It("persists, caches and fans out the reading", func() {
				receivedAt := time.Now().UTC().Truncate(time.Second)
				worker.handleUplink(ctx, uplinkPayload(receivedAt, map[string]any{
					"pm2_5_mass_ugm3": 7.2,
					"temperature_C":   19.5,
				}))

				gomega.Expect(repository.readings).To(gomega.HaveLen(1))

				cached, ok := cache.Get(ctx)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(cached.SequenceID).To(gomega.Equal(uint64(1)))
				gomega.Expect(*cached.PM25Mass).To(gomega.Equal(7.2))

				var msg async.BrokerMessage
				gomega.Eventually(subscription.Receiver).Should(gomega.Receive(&msg))
				gomega.Expect(msg.Event).To(gomega.Equal(EventNewReading))

				reading, ok := msg.Value.(domain.Reading)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(reading.ReceivedAt.Unix()).To(gomega.Equal(receivedAt.Unix()))
			})
		})

		ginkgo.When("the payload is not valid JSON", func() {
			ginkgo.It("drops the message without touching storage", func() {
				worker.handleUplink(ctx, []byte("not-json"))

				gomega.Expect(repository.readings).To(gomega.BeEmpty())
				_, ok := cache.Get(ctx)
				gomega.Expect(ok).To(gomega.BeFalse())

				var msg async.BrokerMessage
				gomega.Eventually(subscription.Receiver).Should(gomega.Receive(&msg))
				gomega.Expect(msg.Event).To(gomega.Equal(EventMessageDropped))
			})
		})

		ginkgo.When("the envelope has no decoded payload", func() {
			ginkgo.It("drops the message silently", func() {
				payload, err := json.Marshal(map[string]any{
					"received_at": time.Now().UTC(),
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				worker.handleUplink(ctx, payload)

				gomega.Expect(repository.readings).To(gomega.BeEmpty())
			})
		})

		ginkgo.When("the store rejects the write", func() {
			ginkgo.It("keeps the cache untouched and reports the drop", func() {
				repository.failWith = errors.Join(usecases.ErrStorageUnavailable, errors.New("disk full"))

				worker.handleUplink(ctx, uplinkPayload(time.Now().UTC(), map[string]any{
					"pm10_mass_ugm3": 3.0,
				}))

				_, ok := cache.Get(ctx)
				gomega.Expect(ok).To(gomega.BeFalse())

				var msg async.BrokerMessage
				gomega.Eventually(subscription.Receiver).Should(gomega.Receive(&msg))
				gomega.Expect(msg.Event).To(gomega.Equal(EventMessageDropped))
				gomega.Expect(msg.Error).To(gomega.MatchError(usecases.ErrStorageUnavailable))
			})
		})

		ginkgo.When("two uplinks arrive back to back", func() {
			ginkgo.It("leaves the later one in the cache", func() {
				first := time.Now().UTC().Add(-time.Minute)
				second := time.Now().UTC()

				worker.handleUplink(ctx, uplinkPayload(first, map[string]any{"pm1_mass_ugm3": 1.0}))
				worker.handleUplink(ctx, uplinkPayload(second, map[string]any{"pm1_mass_ugm3": 2.0}))

				cached, ok := cache.Get(ctx)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(cached.SequenceID).To(gomega.Equal(uint64(2)))
				gomega.Expect(*cached.PM1Mass).To(gomega.Equal(2.0))
			})
		})
	})
})
