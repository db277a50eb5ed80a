package persistence_test

import (
	"context"
	"time"

	"feinstaub-server/internal/infra/sql"
	"feinstaub-server/internal/infra/utils"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/persistence"
	"feinstaub-server/internal/telemetry/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SimpleReadingRepository", func() {
	var (
		ctx  context.Context
		repo *persistence.SimpleReadingRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		orm, err := sql.NewMemoryORM()
		Expect(err).ToNot(HaveOccurred())
		repo, err = persistence.NewReadingRepository(orm)
		Expect(err).ToNot(HaveOccurred())
	})

	newReading := func(at time.Time, pm25 float64) domain.Reading {
		return domain.Reading{
			ReceivedAt: at,
			PM25Mass:   utils.Float64Ptr(pm25),
		}
	}

	Context("Create", func() {
		It("assigns a monotonically increasing sequence id", func() {
			first, err := repo.Create(ctx, newReading(time.Now().UTC(), 1.0))
			Expect(err).ToNot(HaveOccurred())

			second, err := repo.Create(ctx, newReading(time.Now().UTC(), 2.0))
			Expect(err).ToNot(HaveOccurred())

			Expect(second.SequenceID).To(BeNumerically(">", first.SequenceID))
		})

		It("round-trips absent measurement channels as nil", func() {
			at := time.Now().UTC().Truncate(time.Second)
			stored, err := repo.Create(ctx, domain.Reading{
				ReceivedAt:  at,
				Temperature: utils.Float64Ptr(21.5),
			})
			Expect(err).ToNot(HaveOccurred())

			latest, err := repo.Latest(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(latest.SequenceID).To(Equal(stored.SequenceID))
			Expect(latest.Temperature).ToNot(BeNil())
			Expect(*latest.Temperature).To(Equal(21.5))
			Expect(latest.PM25Mass).To(BeNil())
			Expect(latest.Humidity).To(BeNil())
			Expect(latest.SupplyVoltage).To(BeNil())
		})
	})

	Context("Latest", func() {
		It("returns ErrReadingNotFound on an empty store", func() {
			_, err := repo.Latest(ctx)
			Expect(err).To(MatchError(usecases.ErrReadingNotFound))
		})

		It("breaks received_at ties by insertion order", func() {
			at := time.Now().UTC().Truncate(time.Second)
			_, err := repo.Create(ctx, newReading(at, 1.0))
			Expect(err).ToNot(HaveOccurred())
			second, err := repo.Create(ctx, newReading(at, 2.0))
			Expect(err).ToNot(HaveOccurred())

			latest, err := repo.Latest(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(latest.SequenceID).To(Equal(second.SequenceID))
			Expect(*latest.PM25Mass).To(Equal(2.0))
		})
	})

	Context("Range", func() {
		It("returns all readings in ascending order when from is nil", func() {
			base := time.Now().UTC().Truncate(time.Second)
			for i := 2; i >= 0; i-- {
				_, err := repo.Create(ctx, newReading(base.Add(-time.Duration(i)*time.Hour), float64(i)))
				Expect(err).ToNot(HaveOccurred())
			}

			readings, err := repo.Range(ctx, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(readings).To(HaveLen(3))
			for i := 1; i < len(readings); i++ {
				Expect(readings[i].ReceivedAt.Before(readings[i-1].ReceivedAt)).To(BeFalse())
			}
		})

		It("filters out readings older than the cutoff", func() {
			base := time.Now().UTC().Truncate(time.Second)
			_, err := repo.Create(ctx, newReading(base.Add(-48*time.Hour), 1.0))
			Expect(err).ToNot(HaveOccurred())
			_, err = repo.Create(ctx, newReading(base, 2.0))
			Expect(err).ToNot(HaveOccurred())

			cutoff := base.Add(-24 * time.Hour)
			readings, err := repo.Range(ctx, &cutoff)
			Expect(err).ToNot(HaveOccurred())
			Expect(readings).To(HaveLen(1))
			Expect(*readings[0].PM25Mass).To(Equal(2.0))
		})
	})

	Context("Stats", func() {
		It("reports zero entries without timestamps on an empty store", func() {
			stats, err := repo.Stats(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.TotalCount).To(BeZero())
			Expect(stats.Oldest).To(BeNil())
			Expect(stats.Newest).To(BeNil())
		})

		It("tracks count and the oldest and newest timestamps", func() {
			base := time.Now().UTC().Truncate(time.Second)
			oldest := base.Add(-2 * time.Hour)
			_, err := repo.Create(ctx, newReading(oldest, 1.0))
			Expect(err).ToNot(HaveOccurred())
			_, err = repo.Create(ctx, newReading(base, 2.0))
			Expect(err).ToNot(HaveOccurred())

			stats, err := repo.Stats(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(stats.TotalCount).To(Equal(int64(2)))
			Expect(stats.Oldest.Unix()).To(Equal(oldest.Unix()))
			Expect(stats.Newest.Unix()).To(Equal(base.Unix()))
		})
	})

	Context("Ping", func() {
		It("succeeds against a live database", func() {
			Expect(repo.Ping(ctx)).To(Succeed())
		})
	})
})
