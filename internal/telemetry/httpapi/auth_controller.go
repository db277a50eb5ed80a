package httpapi

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"feinstaub-server/internal/infra/httpserver"
	"feinstaub-server/internal/telemetry/httpapi/internal"
)

// DashboardInfo carries the login-screen labels together with the shared
// password they unlock.
type DashboardInfo struct {
	Password string
	Title    string
	Subtitle string
}

func NewAuthController(info DashboardInfo) *AuthController {
	return &AuthController{
		password: info.Password,
		title:    info.Title,
		subtitle: info.Subtitle,
	}
}

var _ httpserver.Controller = (*AuthController)(nil)

// AuthController exchanges the dashboard password for the bearer token the
// data endpoints expect. The token is the shared secret itself: there is a
// single dashboard user and nothing to session-manage.
type AuthController struct {
	password string
	title    string
	subtitle string
}

func (c *AuthController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /api/auth", c.authenticate())
	router.Handle("GET /api/config", c.getConfig())
}

func (c *AuthController) authenticate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.AuthRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			slog.Debug("decoding auth request", slog.String("error", err.Error()))
			httpserver.ReplyJSONResponse(w, http.StatusUnauthorized, internal.AuthFailureResponse{
				Error: "Invalid password",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(body.Password), []byte(c.password)) != 1 {
			httpserver.ReplyJSONResponse(w, http.StatusUnauthorized, internal.AuthFailureResponse{
				Error: "Invalid password",
			})
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.AuthResponse{
			Success:  true,
			Token:    body.Password,
			Title:    c.title,
			Subtitle: c.subtitle,
		})
	}
}

// getConfig is unauthenticated so the login screen can show the dashboard
// title before the user has a token.
func (c *AuthController) getConfig() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ConfigResponse{
			Title:    c.title,
			Subtitle: c.subtitle,
		})
	}
}
