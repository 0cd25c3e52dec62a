package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/marketbay/storefront-api/internal/core/ports"
	customMiddleware "github.com/marketbay/storefront-api/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
}

type ServerDeps struct {
	AccountService       ports.AccountService
	AuthService          ports.AuthService
	CartService          ports.CartService
	AuditService         ports.AuditService
	AccessControlService ports.AccessControlService
	RateLimiterService   ports.RateLimiterService
	HealthCheckers       []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	accountSvc     ports.AccountService
	authSvc        ports.AuthService
	cartSvc        ports.CartService
	auditSvc       ports.AuditService
	accessControl  ports.AccessControlService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		accountSvc:     deps.AccountService,
		authSvc:        deps.AuthService,
		cartSvc:        deps.CartService,
		auditSvc:       deps.AuditService,
		accessControl:  deps.AccessControlService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.AccessControlService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
