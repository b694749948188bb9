// Package api exposes the planner over HTTP with JSON bodies and bearer-token sessions.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"study-planner/internal/logger"
	"study-planner/internal/service"
)

type (
	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		SecretKey      string
		SessionTTL     time.Duration
		Location       *time.Location
		Logger         logger.Logger

		UserSvc     *service.UserService
		PlanSvc     *service.PlanService
		ProgressSvc *service.ProgressService
		CalendarSvc *service.CalendarService
		TemplateSvc *service.TemplateService

		// Now overrides the clock used for "today" on the calendar.
		Now func() time.Time
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts    *Options
		app     *echo.Echo
		session *session
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	s := &server{
		opts:    opts,
		app:     echo.New(),
		session: newSession([]byte(opts.SecretKey), opts.SessionTTL),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Logger.SetLevel(log.INFO)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", home)

	jwt := middleware.JWTWithConfig(s.session.jwtConfig())

	registerUserAPI(s.app, jwt, s.session, s.opts.UserSvc)
	registerPlanAPI(s.app, jwt, s.opts)
	registerCalendarAPI(s.app, jwt, s.opts)
	registerTemplateAPI(s.app, jwt, s.opts.TemplateSvc)
}

func (s *server) Start() error {
	s.app.Server.ReadTimeout = 15 * time.Second
	s.app.Server.WriteTimeout = 30 * time.Second
	err := s.app.Start(s.opts.Address)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true, "name": "study-planner"})
}
