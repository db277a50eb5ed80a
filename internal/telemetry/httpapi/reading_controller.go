package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"feinstaub-server/internal/infra/httpserver"
	"feinstaub-server/internal/telemetry/httpapi/internal"
	"feinstaub-server/internal/telemetry/usecases"
)

const (
	noDataErrMessage     = "No data received yet"
	internalErrMessage   = "Internal server error"
	getCurrentErrMessage = "failed to get current reading"
)

func NewReadingController(service usecases.ReadingService, secret string) *ReadingController {
	return &ReadingController{
		service: service,
		secret:  secret,
	}
}

var _ httpserver.Controller = (*ReadingController)(nil)

type ReadingController struct {
	service usecases.ReadingService
	secret  string
}

func (c *ReadingController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /api/current", httpserver.BearerAuth(c.secret, c.getCurrent()))
	router.Handle("GET /api/historical", httpserver.BearerAuth(c.secret, c.getHistorical()))
	router.Handle("GET /api/stats", httpserver.BearerAuth(c.secret, c.getStats()))
}

func (c *ReadingController) getCurrent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reading, err := c.service.Current(r.Context())
		if errors.Is(err, usecases.ErrNoDataYet) {
			httpserver.ReplyWithError(w, http.StatusNotFound, noDataErrMessage)
			return
		}
		if err != nil {
			slog.Error(getCurrentErrMessage, slog.String("error", err.Error()))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, internalErrMessage)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ToCurrentReadingResponse(reading))
	}
}

func (c *ReadingController) getHistorical() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Malformed or missing hours values select the full history, the
		// same way a dashboard without a window filter does.
		hours, err := strconv.ParseFloat(httpserver.GetQueryParam(r, "hours"), 64)
		if err != nil {
			hours = 0
		}

		readings, err := c.service.Historical(r.Context(), hours)
		if err != nil {
			slog.Error("querying historical readings", slog.String("error", err.Error()))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, internalErrMessage)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ToHistoricalPoints(readings))
	}
}

func (c *ReadingController) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := c.service.Stats(r.Context())
		if err != nil {
			slog.Error("querying store stats", slog.String("error", err.Error()))
			httpserver.ReplyWithError(w, http.StatusInternalServerError, internalErrMessage)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.StatsResponse{
			TotalEntries:         stats.TotalEntries,
			CurrentDataAvailable: stats.CurrentDataAvailable,
			OldestEntry:          stats.OldestEntry,
			NewestEntry:          stats.NewestEntry,
		})
	}
}
