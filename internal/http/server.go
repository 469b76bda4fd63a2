package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// NewServer wires up all routes and middleware. metricsHandler may be nil.
func NewServer(h *Handler, rateLimiter *IPRateLimiter, allowOrigin string, metricsHandler http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	// Stack middleware: outermost first.
	e.Use(Recovery())
	e.Use(RequestID())
	e.Use(CORS(allowOrigin))
	e.Use(Logging)

	e.GET("/", h.Home)
	e.GET("/healthz", h.Healthz)
	e.POST("/route", h.Route, rateLimiter.Middleware)
	e.POST("/chatbot", h.Route, rateLimiter.Middleware)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	return e
}
