// Package httpapi serves the product catalog, product history and forecast
// reports over HTTP as JSON, with the daily table also available as CSV.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/config"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
)

// Service is the part of services.Manager the API needs.
type Service interface {
	Products(query string) ([]string, bool, error)
	Forecast(product string, start, end time.Time) (*forecast.Result, error)
	History(product string) (models.HistoricalStats, []models.Observation, error)
}

// Server is the HTTP API.
type Server struct {
	app          *fiber.App
	svc          Service
	defaultStart string
	defaultEnd   string
}

// New creates the API over svc. Forecast requests without dates fall back
// to the configured default range when cfg is not nil.
func New(svc Service, cfg *config.Config) *Server {
	s := &Server{svc: svc}
	if cfg != nil {
		s.defaultStart = cfg.DefaultStart.Format(models.DateLayout)
		s.defaultEnd = cfg.DefaultEnd.Format(models.DateLayout)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "prediksi",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestLogger)

	api := s.app.Group("/api/v1")
	api.Get("/products", s.handleProducts)
	api.Get("/products/:key/history", s.handleHistory)
	api.Get("/forecast", s.handleForecast)
	api.Get("/forecast/export", s.handleExport)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	logger.Info("http api listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// errorHandler renders unhandled errors, including fiber's own 404 and 405,
// in the API's error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.Error("http handler failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}

// StatusFor maps a domain error to its HTTP status code.
func StatusFor(err error) int {
	var le *catalog.LoadError
	switch {
	case errors.Is(err, catalog.ErrUnknownProduct):
		return fiber.StatusNotFound
	case forecast.IsValidation(err):
		return fiber.StatusBadRequest
	case forecast.IsPrediction(err):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &le), errors.Is(err, services.ErrCatalogUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		logger.Warn("request failed", "path", c.Path(), "status", code, "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}

func success(c *fiber.Ctx, message string, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}
