package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"activity_srv/internal/activity"
	"activity_srv/internal/config"
	"activity_srv/internal/database"
	"activity_srv/internal/export"
	"activity_srv/internal/templates"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Коды ошибок инфраструктуры в поле errors.
const (
	CodeConnectionUnavailable = "connection_unavailable"
	CodeTemplateNotFound      = "template_not_found"
	CodeInternalError         = "internal_error"
)

// HeaderCognitoUserID заголовок с идентификатором пользователя. Не проверяется.
const HeaderCognitoUserID = "X-Cognito-User-Id"

// HTTPServer то, чем управляет жизненный цикл приложения
type HTTPServer interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// Pinger проверка доступности БД для /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	service  *activity.Service
	pool     Pinger
	exporter *export.ExcelExporter
	logger   *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svc *activity.Service, pool database.Pool, logger *logrus.Logger) *Server {
	return newServer(cfg, svc, pool, logger)
}

func newServer(cfg config.Config, svc *activity.Service, pool Pinger, logger *logrus.Logger) *Server {
	e := echo.New()
	e.Debug = cfg.Server.Debug
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("Request failed")
				return nil
			}
			entry.Info("Request handled")
			return nil
		},
	}))

	server := &Server{
		echo:     e,
		service:  svc,
		pool:     pool,
		exporter: export.NewExcelExporter(logger),
		logger:   logger,
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.WithField("address", address).Info("Starting HTTP server")
	err := s.echo.Start(address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP отдает запрос роутеру echo
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// setupRoutes configures the server routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	activities := s.echo.Group("/api/activities")
	{
		activities.GET("/home", s.homeActivities)
		activities.GET("/search", s.searchActivities)
		activities.GET("/@:handle", s.userActivities)
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		s.logger.WithError(err).Warn("Health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "activity-service",
	})
}

func (s *Server) homeActivities(c echo.Context) error {
	env, err := s.service.Home.Run(c.Request().Context(), c.Request().Header.Get(HeaderCognitoUserID))
	return s.respond(c, "home", env, err)
}

func (s *Server) searchActivities(c echo.Context) error {
	env, err := s.service.Search.Run(c.Request().Context(), c.QueryParam("term"))
	return s.respond(c, "search", env, err)
}

func (s *Server) userActivities(c echo.Context) error {
	handle := c.Param("handle")
	env, err := s.service.User.Run(c.Request().Context(), handle)
	return s.respond(c, handle, env, err)
}

// respond переводит результат обработчика в HTTP ответ
func (s *Server) respond(c echo.Context, feed string, env activity.Envelope, err error) error {
	if err != nil {
		status, code := classify(err)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"feed":       feed,
			"status":     status,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}).Error("Failed to load activities")
		return c.JSON(status, activity.Failure(code))
	}

	if !env.OK() {
		return c.JSON(http.StatusUnprocessableEntity, env)
	}

	if c.QueryParam("format") == export.Extension {
		buf, err := s.exporter.Workbook("activities", env.Data)
		if err != nil {
			s.logger.WithError(err).Error("Failed to export activities")
			return c.JSON(http.StatusInternalServerError, activity.Failure(CodeInternalError))
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", feed+"."+export.Extension))
		return c.Blob(http.StatusOK, export.MimeType, buf.Bytes())
	}

	return c.JSON(http.StatusOK, env)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, database.ErrConnectionUnavailable):
		return http.StatusServiceUnavailable, CodeConnectionUnavailable
	case errors.Is(err, templates.ErrTemplateNotFound):
		return http.StatusInternalServerError, CodeTemplateNotFound
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}
