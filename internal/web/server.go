// Package web serves the browser front-end: a server rendered page whose
// forms drive the interaction controller.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "customer-insights/internal/common/errors"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/common/ui"
	"customer-insights/internal/controller"
	"customer-insights/internal/view"
)

const SessionCookie = "insights_session"

//go:embed templates/*.html
var templateFS embed.FS

type templateRenderer struct {
	templates *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// Options configures a Server. MetricsHandler and Probe are optional.
type Options struct {
	Segment        controller.Flow
	Recommend      controller.Flow
	Store          SessionStore
	Probe          *BackendProbe
	MetricsHandler http.Handler
	Logger         logger.Logger
	SessionTTL     time.Duration
	CookieSecure   bool
	AppName        string
	Version        string
}

// Server is the browser facing HTTP server.
type Server struct {
	echo *echo.Echo
	opts Options
	log  logger.Logger
}

type pageData struct {
	AppName         string
	Version         string
	State           PageState
	SegmentButton   ui.ButtonState
	RecommendButton ui.ButtonState
}

func NewServer(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	s := &Server{
		echo: e,
		opts: opts,
		log:  opts.Logger.With(map[string]interface{}{"component": "web"}),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debug("request", map[string]interface{}{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			return nil
		},
	}))

	e.GET("/", s.handleIndex)
	e.POST("/segment", s.handleSegment)
	e.POST("/recommend", s.handleRecommend)
	e.GET("/healthz", s.handleHealth)
	e.GET("/readyz", s.handleReady)
	if opts.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(opts.MetricsHandler))
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// sessionID returns the caller's session, issuing a new cookie when the
// current one is missing or malformed.
func (s *Server) sessionID(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) handleIndex(c echo.Context) error {
	ctx := c.Request().Context()
	sid := s.sessionID(c)

	state, err := s.opts.Store.Load(ctx, sid)
	if err != nil {
		s.log.Error("session load failed", map[string]interface{}{"error": err.Error()})
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}

	data := pageData{
		AppName:         s.opts.AppName,
		Version:         s.opts.Version,
		State:           state,
		SegmentButton:   state.Button(view.ControlSegment),
		RecommendButton: state.Button(view.ControlRecommend),
	}
	if err := c.Render(http.StatusOK, "index.html", data); err != nil {
		return err
	}

	// alerts are shown once
	if len(state.Alerts) > 0 {
		state.Alerts = nil
		if err := s.opts.Store.Save(ctx, sid, state); err != nil {
			s.log.Warn("session save failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *Server) handleSegment(c echo.Context) error {
	return s.runFlow(c, "customer_id",
		func(ctx context.Context, ctrl *controller.Controller, input string) error {
			return ctrl.LookupSegment(ctx, input)
		},
		func(state *PageState, input string) { state.CustomerInput = input },
	)
}

func (s *Server) handleRecommend(c echo.Context) error {
	return s.runFlow(c, "product_name",
		func(ctx context.Context, ctrl *controller.Controller, input string) error {
			return ctrl.Recommend(ctx, input)
		},
		func(state *PageState, input string) { state.ProductInput = input },
	)
}

func (s *Server) runFlow(
	c echo.Context,
	field string,
	run func(context.Context, *controller.Controller, string) error,
	remember func(*PageState, string),
) error {
	// a browser that navigates away must not abort the flow
	ctx := context.WithoutCancel(c.Request().Context())
	sid := s.sessionID(c)
	input := c.FormValue(field)

	state, err := s.opts.Store.Load(ctx, sid)
	if err != nil {
		s.log.Error("session load failed", map[string]interface{}{"error": err.Error()})
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}

	pv := NewPageView(state)
	ctrl := controller.New(s.opts.Segment, s.opts.Recommend, pv, s.log)

	if err := run(ctx, ctrl, input); apperrors.IsEmptyInput(err) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	next := pv.State()
	remember(&next, strings.TrimSpace(input))
	if err := s.opts.Store.Save(ctx, sid, next); err != nil {
		s.log.Error("session save failed", map[string]interface{}{"error": err.Error()})
		return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": s.opts.Version,
	})
}

func (s *Server) handleReady(c echo.Context) error {
	if s.opts.Probe == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ready"})
	}

	message, err := s.opts.Probe.Check(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"error":  string(apperrors.GetErrorCode(err)),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"backend": message,
	})
}
