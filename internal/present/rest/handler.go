package rest

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/buzzcrank/crankfeed/internal/present/rest/presenter"
	"github.com/buzzcrank/crankfeed/internal/usecase"
)

// RoutePrefixes lists every mount point of the widget endpoints. The
// serverless path keeps existing page markup working unchanged.
var RoutePrefixes = []string{"/api", "/.netlify/functions"}

type Handler struct {
	dashboard  *usecase.DashboardUsecase
	events     *usecase.EventsUsecase
	blog       *usecase.BlogUsecase
	nowPlaying *usecase.NowPlayingUsecase
	logger     *zap.Logger
}

func NewHandler(
	dashboard *usecase.DashboardUsecase,
	events *usecase.EventsUsecase,
	blog *usecase.BlogUsecase,
	nowPlaying *usecase.NowPlayingUsecase,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		dashboard:  dashboard,
		events:     events,
		blog:       blog,
		nowPlaying: nowPlaying,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	for _, prefix := range RoutePrefixes {
		e.GET(prefix+"/admin-dashboard", h.handleAdminDashboard)
		e.GET(prefix+"/events", h.handleEvents)
		e.GET(prefix+"/blog", h.handleBlog)
		e.GET(prefix+"/nowplaying", h.handleNowPlaying)
	}
}

func (h *Handler) handleAdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.dashboard.Build(ctx)
	if err != nil {
		return h.fail(c, "Failed to load admin dashboard.", err)
	}

	return presenter.OK(c, dashboard)
}

func (h *Handler) handleEvents(c echo.Context) error {
	ctx := c.Request().Context()

	events, err := h.events.List(ctx)
	if err != nil {
		return h.fail(c, "Failed to load events.", err)
	}

	return presenter.OK(c, events)
}

func (h *Handler) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := h.blog.Feed(ctx)
	if err != nil {
		return h.fail(c, "Failed to fetch blog feed", err)
	}

	return presenter.Raw(c, body)
}

func (h *Handler) handleNowPlaying(c echo.Context) error {
	ctx := c.Request().Context()

	np, err := h.nowPlaying.Current(ctx)
	if err != nil {
		return h.fail(c, "Failed to load now playing", err)
	}

	return presenter.OK(c, np)
}

func (h *Handler) fail(c echo.Context, message string, err error) error {
	h.logger.Error(message,
		zap.String("path", c.Path()),
		zap.String("id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)
	return presenter.InternalError(c, message, err)
}
