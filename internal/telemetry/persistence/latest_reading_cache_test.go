package persistence_test

import (
	"context"
	"time"

	"feinstaub-server/internal/infra/cache"
	"feinstaub-server/internal/infra/utils"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/persistence"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemoryLatestReadingCache", func() {
	var (
		ctx   context.Context
		slot  *persistence.MemoryLatestReadingCache
		store cache.Cache
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = cache.New(nil)
		Expect(err).ToNot(HaveOccurred())
		slot = persistence.NewMemoryLatestReadingCache(store)
	})

	It("misses before the first reading arrives", func() {
		_, ok := slot.Get(ctx)
		Expect(ok).To(BeFalse())
	})

	It("returns the stored reading on the next get", func() {
		reading := domain.Reading{
			SequenceID: 7,
			ReceivedAt: time.Now().UTC(),
			PM10Mass:   utils.Float64Ptr(12.5),
		}

		Expect(slot.Set(ctx, reading)).To(Succeed())

		got, ok := slot.Get(ctx)
		Expect(ok).To(BeTrue())
		Expect(got.SequenceID).To(Equal(uint64(7)))
		Expect(*got.PM10Mass).To(Equal(12.5))
	})

	It("replaces the slot on every set", func() {
		first := domain.Reading{SequenceID: 1, ReceivedAt: time.Now().UTC()}
		second := domain.Reading{SequenceID: 2, ReceivedAt: time.Now().UTC()}

		Expect(slot.Set(ctx, first)).To(Succeed())
		Expect(slot.Set(ctx, second)).To(Succeed())

		got, ok := slot.Get(ctx)
		Expect(ok).To(BeTrue())
		Expect(got.SequenceID).To(Equal(uint64(2)))
	})
})
