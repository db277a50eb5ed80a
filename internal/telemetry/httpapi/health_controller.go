package httpapi

import (
	"context"
	"net/http"
	"time"

	"feinstaub-server/internal/infra/httpserver"
	"feinstaub-server/internal/infra/mqtt"
	"feinstaub-server/internal/telemetry/httpapi/internal"
	"feinstaub-server/internal/telemetry/usecases"
)

const _healthPingTimeout = 2 * time.Second

func NewHealthController(mqttClient mqtt.Client, repository usecases.ReadingRepository) *HealthController {
	return &HealthController{
		mqttClient: mqttClient,
		repository: repository,
		startedAt:  time.Now(),
	}
}

var _ httpserver.Controller = (*HealthController)(nil)

// HealthController reports liveness of the two external attachments, the
// MQTT broker and the reading store. It always answers 200: degraded
// attachments are data in the body, not a reason to fail the probe.
type HealthController struct {
	mqttClient mqtt.Client
	repository usecases.ReadingRepository
	startedAt  time.Time
}

func (c *HealthController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /health", c.getHealth())
}

func (c *HealthController) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), _healthPingTimeout)
		defer cancel()

		dbConnected := c.repository.Ping(pingCtx) == nil

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.HealthResponse{
			Status:        "ok",
			MQTTConnected: c.mqttClient.IsConnected(),
			Uptime:        time.Since(c.startedAt).Seconds(),
			DBConnected:   dbConnected,
		})
	}
}
