package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/jarida/core"
	"github.com/trezcool/jarida/core/analytics"
	"github.com/trezcool/jarida/core/journal"
	"github.com/trezcool/jarida/core/org"
	"github.com/trezcool/jarida/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger       core.Logger
		UserSvc      user.ServiceInterface
		OrgSvc       *org.Service
		JournalSvc   *journal.Service
		AnalyticsSvc analytics.ServiceInterface
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		// ShutdownSignal delivers an internally-raised shutdown request, on
		// top of any OS signals the main goroutine already listens for.
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newAppJWTConfig())

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerOrgAPI(v1, jwt, s.opts.OrgSvc)
	registerJournalAPI(v1, jwt, s.opts.JournalSvc, s.opts.UserSvc)
	registerAnalyticsAPI(v1, jwt, s.opts.AnalyticsSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Jarida API!")
}
