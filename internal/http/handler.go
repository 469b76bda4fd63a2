package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/corpus"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/domain"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/logging"
)

// QueryRouter runs the legal query pipeline.
type QueryRouter interface {
	Route(ctx context.Context, query string, topK int) (*domain.RoutedResponse, error)
}

// Config holds handler configuration from environment.
type Config struct {
	DefaultTopK int
}

// Handler implements the /route, /chatbot, / and /healthz endpoints.
type Handler struct {
	router QueryRouter
	store  *corpus.Store
	cfg    Config
}

func NewHandler(router QueryRouter, store *corpus.Store, cfg Config) *Handler {
	return &Handler{
		router: router,
		store:  store,
		cfg:    cfg,
	}
}

func (h *Handler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Indian legal assistant is running"})
}

func (h *Handler) Healthz(c echo.Context) error {
	resp := domain.HealthResponse{Status: "ok"}
	if h.store != nil {
		resp.Documents = h.store.Len()
		resp.Sections = h.store.SectionCount()
	}
	return c.JSON(http.StatusOK, resp)
}

// Route answers a legal query. It serves both POST /route and POST /chatbot.
func (h *Handler) Route(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.RouteRequest
	if err := c.Bind(&req); err != nil {
		return respondAppError(c, domain.NewValidationError("invalid JSON body"))
	}
	if err := req.Validate(); err != nil {
		return respondAppError(c, err)
	}

	topK := req.EffectiveTopK(h.cfg.DefaultTopK)
	resp, err := h.router.Route(ctx, req.Query, topK)
	if err != nil {
		slog.ErrorContext(ctx, "route failed",
			"request_id", logging.RequestID(ctx),
			"code", string(domain.CategoryOf(err)),
			"error", err,
		)
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func respondAppError(c echo.Context, err error) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.NewInternalError("internal server error", err)
	}
	return c.JSON(appErr.StatusCode, domain.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Category),
	})
}

// errorHandler renders errors that escape handlers (unknown routes, panics
// caught by Recovery) in the same shape as handler errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		category := domain.ErrCatUnknown
		switch {
		case he.Code == http.StatusTooManyRequests:
			category = domain.ErrCatRateLimit
		case he.Code >= 400 && he.Code < 500:
			category = domain.ErrCatValidation
		}
		err = &domain.AppError{Category: category, Message: msg, StatusCode: he.Code, Err: err}
	}
	if rerr := respondAppError(c, err); rerr != nil {
		slog.ErrorContext(c.Request().Context(), "write error response", "error", rerr)
	}
}
