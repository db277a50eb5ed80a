package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"feinstaub-server/internal/infra/utils"
	"feinstaub-server/internal/telemetry/domain"
	"feinstaub-server/internal/telemetry/httpapi"
	"feinstaub-server/internal/telemetry/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeReadingService struct {
	current        domain.Reading
	currentErr     error
	historical     []domain.Reading
	historicalErr  error
	requestedHours float64
	stats          usecases.Stats
	statsErr       error
}

func (f *fakeReadingService) Current(_ context.Context) (domain.Reading, error) {
	return f.current, f.currentErr
}

func (f *fakeReadingService) Historical(_ context.Context, hours float64) ([]domain.Reading, error) {
	f.requestedHours = hours
	return f.historical, f.historicalErr
}

func (f *fakeReadingService) Stats(_ context.Context) (usecases.Stats, error) {
	return f.stats, f.statsErr
}

var _ = Describe("ReadingController", func() {
	const secret = "feinstaub"

	var (
		service  *fakeReadingService
		router   *http.ServeMux
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		service = &fakeReadingService{}
		router = http.NewServeMux()
		httpapi.NewReadingController(service, secret).AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	authorizedRequest := func(target string) *http.Request {
		request := httptest.NewRequest("GET", target, nil)
		request.Header.Set("Authorization", "Bearer "+secret)
		return request
	}

	Context("getCurrent", func() {
		When("no token is presented", func() {
			It("rejects the request without touching the service", func() {
				router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/current", nil))

				Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			})
		})

		When("no reading has been ingested yet", func() {
			BeforeEach(func() {
				service.currentErr = usecases.ErrNoDataYet
			})

			It("answers not found with the no-data message", func() {
				router.ServeHTTP(recorder, authorizedRequest("/api/current"))

				Expect(recorder.Code).To(Equal(http.StatusNotFound))
				Expect(recorder.Body.String()).To(MatchJSON(`{"error": "No data received yet"}`))
			})
		})

		When("a reading is available", func() {
			BeforeEach(func() {
				service.current = domain.Reading{
					SequenceID: 42,
					ReceivedAt: time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC),
					PM25Mass:   utils.Float64Ptr(8.1),
					Humidity:   utils.Float64Ptr(55.0),
				}
			})

			It("returns the envelope shape with explicit nulls", func() {
				router.ServeHTTP(recorder, authorizedRequest("/api/current"))

				Expect(recorder.Code).To(Equal(http.StatusOK))

				var response map[string]any
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response).To(HaveKey("received_at"))

				payload, ok := response["decoded_payload"].(map[string]any)
				Expect(ok).To(BeTrue())
				Expect(payload["pm2_5_mass_ugm3"]).To(Equal(8.1))
				Expect(payload["humidity_rel"]).To(Equal(55.0))
				Expect(payload).To(HaveKey("temperature_C"))
				Expect(payload["temperature_C"]).To(BeNil())
				Expect(payload).To(HaveKey("supply_voltage_V"))
			})
		})
	})

	Context("getHistorical", func() {
		BeforeEach(func() {
			service.historical = []domain.Reading{
				{
					SequenceID:    1,
					ReceivedAt:    time.Date(2026, 2, 7, 10, 0, 0, 0, time.UTC),
					PM10Mass:      utils.Float64Ptr(14.0),
					SupplyVoltage: utils.Float64Ptr(3.3),
				},
			}
		})

		It("passes the hours window through to the service", func() {
			router.ServeHTTP(recorder, authorizedRequest("/api/historical?hours=24"))

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.requestedHours).To(Equal(24.0))
		})

		It("treats a malformed hours value as the full history", func() {
			router.ServeHTTP(recorder, authorizedRequest("/api/historical?hours=abc"))

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.requestedHours).To(BeZero())
		})

		It("projects points keyed by time and without supply voltage", func() {
			router.ServeHTTP(recorder, authorizedRequest("/api/historical"))

			var points []map[string]any
			Expect(json.Unmarshal(recorder.Body.Bytes(), &points)).To(Succeed())
			Expect(points).To(HaveLen(1))
			Expect(points[0]).To(HaveKey("time"))
			Expect(points[0]["pm10_mass_ugm3"]).To(Equal(14.0))
			Expect(points[0]).ToNot(HaveKey("supply_voltage_V"))
			Expect(points[0]).ToNot(HaveKey("received_at"))
		})
	})

	Context("getStats", func() {
		When("the store is empty", func() {
			It("reports zeros and null timestamps", func() {
				router.ServeHTTP(recorder, authorizedRequest("/api/stats"))

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Body.String()).To(MatchJSON(`{
					"total_entries": 0,
					"current_data_available": false,
					"oldest_entry": null,
					"newest_entry": null
				}`))
			})
		})

		When("readings exist", func() {
			BeforeEach(func() {
				oldest := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
				newest := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
				service.stats = usecases.Stats{
					TotalEntries:         120,
					CurrentDataAvailable: true,
					OldestEntry:          &oldest,
					NewestEntry:          &newest,
				}
			})

			It("returns the counters and both boundary timestamps", func() {
				router.ServeHTTP(recorder, authorizedRequest("/api/stats"))

				var response map[string]any
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response["total_entries"]).To(Equal(120.0))
				Expect(response["current_data_available"]).To(Equal(true))
				Expect(response["oldest_entry"]).ToNot(BeNil())
				Expect(response["newest_entry"]).ToNot(BeNil())
			})
		})
	})
})
