package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/analytics"
	"github.com/alramz/cxdash/core/complaint"
	"github.com/alramz/cxdash/core/dashboard"
	"github.com/alramz/cxdash/core/kpi"
	"github.com/alramz/cxdash/core/reservation"
	"github.com/alramz/cxdash/core/satisfaction"
	"github.com/alramz/cxdash/core/user"
)

type (
	ServerDeps struct {
		dig.In

		Conf            *core.Config
		Logger          core.Logger
		Validate        *validator.Validate
		Translator      ut.Translator
		UserSvc         user.ServiceInterface
		MetricSvc       kpi.ServiceInterface
		SatisfactionSvc satisfaction.ServiceInterface
		AnalyticsSvc    analytics.ServiceInterface
		ComplaintSvc    complaint.ServiceInterface
		ReservationSvc  reservation.ServiceInterface
		DashboardSvc    dashboard.ServiceInterface
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		auth     authenticator
		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.FrontendBaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", s.home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.auth.config)
	optionalJWT := middleware.JWTWithConfig(s.auth.optionalConfig())
	session := sessionMiddleware(s.deps.UserSvc)
	optionalAuth := func(next echo.HandlerFunc) echo.HandlerFunc { return optionalJWT(session(next)) }

	registerUserAPI(v1, jwt, s.auth, s.deps.UserSvc, s.deps.Validate, s.deps.Logger)
	registerMetricAPI(v1, optionalAuth, s.deps.MetricSvc, s.deps.Validate)
	registerSatisfactionAPI(v1, optionalAuth, s.deps.SatisfactionSvc, s.deps.Validate)
	registerServiceDataAPI(v1, optionalAuth, s.deps.AnalyticsSvc, s.deps.Validate)
	registerDashboardAPI(v1, optionalAuth, jwt, s.deps.DashboardSvc)
	registerComplaintAPI(v1, jwt, s.deps.ComplaintSvc, s.deps.Validate)
	registerReservationAPI(v1, jwt, s.deps.ReservationSvc, s.deps.Validate)
}

// Start blocks until the server stops. Errors other than a normal shutdown are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// GenerateUserToken returns a signed JWT for usr.
func (s *Server) GenerateUserToken(usr user.User) (string, error) {
	return s.auth.generateToken(s.auth.userClaims(usr))
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
