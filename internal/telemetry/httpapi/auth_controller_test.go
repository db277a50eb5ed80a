package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"feinstaub-server/internal/telemetry/httpapi"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AuthController", func() {
	var (
		router   *http.ServeMux
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		router = http.NewServeMux()
		httpapi.NewAuthController(httpapi.DashboardInfo{
			Password: "feinstaub",
			Title:    "Feinstaub Monitoring",
			Subtitle: "Particle Sensor",
		}).AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	Context("authenticate", func() {
		When("the password matches", func() {
			It("returns the token together with the dashboard labels", func() {
				request := httptest.NewRequest("POST", "/api/auth", strings.NewReader(`{"password": "feinstaub"}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Body.String()).To(MatchJSON(`{
					"success": true,
					"token": "feinstaub",
					"title": "Feinstaub Monitoring",
					"subtitle": "Particle Sensor"
				}`))
			})
		})

		When("the password is wrong", func() {
			It("rejects with a failure body", func() {
				request := httptest.NewRequest("POST", "/api/auth", strings.NewReader(`{"password": "nope"}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
				Expect(recorder.Body.String()).To(MatchJSON(`{"success": false, "error": "Invalid password"}`))
			})
		})

		When("the body is not JSON", func() {
			It("rejects the same way as a wrong password", func() {
				request := httptest.NewRequest("POST", "/api/auth", strings.NewReader("not-json"))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
			})
		})
	})

	Context("getConfig", func() {
		It("serves the dashboard labels without authentication", func() {
			router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/config", nil))

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{
				"title": "Feinstaub Monitoring",
				"subtitle": "Particle Sensor"
			}`))
		})
	})
})
