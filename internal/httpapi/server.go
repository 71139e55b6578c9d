package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pricing_history/internal/dashboard"
	"pricing_history/internal/domain"
	"pricing_history/internal/scheduler"
	"pricing_history/internal/service"
)

// Dashboard is the read side served under /api.
type Dashboard interface {
	Summary(ctx context.Context) (*domain.Summary, error)
	TopServices(ctx context.Context, currency string, limit int) ([]domain.ServiceStat, error)
	RegionPricing(ctx context.Context, currency, service string) ([]domain.RegionStat, error)
	PriceTrends(ctx context.Context, currency, meterID, service string) ([]domain.PricePoint, error)
	SnapshotHistory(ctx context.Context, limit int) ([]domain.RunSummary, error)
	Search(ctx context.Context, term, currency string, limit int) ([]domain.SearchResult, error)
	Hierarchy(ctx context.Context, currency string) ([]domain.Category, error)
	SkuMeters(ctx context.Context, currency, sku string) ([]domain.SkuMeter, error)
	MeterHistory(ctx context.Context, meterID, currency string) ([]domain.MeterPricePoint, error)
	CheapestRegion(ctx context.Context, sku, currency string) (*domain.CheapestRegion, error)
}

// Runner starts a snapshot invocation on demand.
type Runner interface {
	RunNow(ctx context.Context, trigger domain.Trigger) (*domain.SnapshotReport, error)
}

type Option func(*Server)

// WithGatherer exposes the registry on /metrics. Defaults to the global one.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithHealthCheck makes /healthz report 503 when check fails.
func WithHealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthCheck = check
	}
}

type Server struct {
	app         *fiber.App
	dashboard   Dashboard
	runner      Runner
	gatherer    prometheus.Gatherer
	healthCheck func(ctx context.Context) error
	logger      *slog.Logger
}

func NewServer(dash Dashboard, runner Runner, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		dashboard: dash,
		runner:    runner,
		gatherer:  prometheus.DefaultGatherer,
		logger:    logger.With("component", "httpapi"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "pricing_history",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New(), s.logRequest)
	s.routes()

	return s
}

// App exposes the underlying fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.app.Group("/api")
	api.Get("/summary", s.summary)
	api.Get("/services", s.services)
	api.Get("/regions", s.regions)
	api.Get("/price-trends", s.priceTrends)
	api.Get("/snapshots", s.snapshots)
	api.Post("/snapshots/run", s.runSnapshot)
	api.Get("/search", s.search)
	api.Get("/hierarchical", s.hierarchical)
	api.Get("/sku-meters/:sku", s.skuMeters)
	api.Get("/meter-history/:meterId", s.meterHistory)
	api.Get("/cheapest-region/:sku", s.cheapestRegion)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func currency(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Query("currency")); v != "" {
		return strings.ToUpper(v)
	}
	return dashboard.DefaultCurrency
}

func queryLimit(c *fiber.Ctx, def int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("limit must be a positive integer, got %q", raw))
	}
	return n, nil
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.healthCheck != nil {
		if err := s.healthCheck(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) summary(c *fiber.Ctx) error {
	summary, err := s.dashboard.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (s *Server) services(c *fiber.Ctx) error {
	limit, err := queryLimit(c, dashboard.DefaultServiceLimit)
	if err != nil {
		return err
	}

	stats, err := s.dashboard.TopServices(c.UserContext(), currency(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (s *Server) regions(c *fiber.Ctx) error {
	stats, err := s.dashboard.RegionPricing(c.UserContext(), currency(c), c.Query("service"))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (s *Server) priceTrends(c *fiber.Ctx) error {
	points, err := s.dashboard.PriceTrends(c.UserContext(), currency(c), c.Query("meterId"), c.Query("service"))
	if err != nil {
		return err
	}
	return c.JSON(points)
}

func (s *Server) snapshots(c *fiber.Ctx) error {
	limit, err := queryLimit(c, dashboard.DefaultSnapshotLimit)
	if err != nil {
		return err
	}

	runs, err := s.dashboard.SnapshotHistory(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(runs)
}

func (s *Server) search(c *fiber.Ctx) error {
	limit, err := queryLimit(c, dashboard.DefaultSearchLimit)
	if err != nil {
		return err
	}

	results, err := s.dashboard.Search(c.UserContext(), strings.TrimSpace(c.Query("q")), currency(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

func (s *Server) hierarchical(c *fiber.Ctx) error {
	categories, err := s.dashboard.Hierarchy(c.UserContext(), currency(c))
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (s *Server) skuMeters(c *fiber.Ctx) error {
	meters, err := s.dashboard.SkuMeters(c.UserContext(), currency(c), c.Params("sku"))
	if err != nil {
		return err
	}
	return c.JSON(meters)
}

func (s *Server) meterHistory(c *fiber.Ctx) error {
	points, err := s.dashboard.MeterHistory(c.UserContext(), c.Params("meterId"), currency(c))
	if err != nil {
		return err
	}
	return c.JSON(points)
}

func (s *Server) cheapestRegion(c *fiber.Ctx) error {
	region, err := s.dashboard.CheapestRegion(c.UserContext(), c.Params("sku"), currency(c))
	if err != nil {
		return err
	}
	if region == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(region)
}

// runSnapshot is the manual trigger. It answers in plain text with one line
// per attempted currency.
func (s *Server) runSnapshot(c *fiber.Ctx) error {
	if s.runner == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "manual trigger is not configured")
	}

	report, err := s.runner.RunNow(c.UserContext(), domain.TriggerManual)
	if errors.Is(err, scheduler.ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).SendString("Error: " + err.Error())
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			SendString(fmt.Sprintf("Error: %s failed: %v", service.FunctionName, err))
	}

	completed := fmt.Sprintf("%s completed at %s", service.FunctionName, report.FinishedAt.Format(time.RFC3339))
	return c.SendString(fmt.Sprintf("Success! %s\nResults:\n%s", completed, strings.Join(report.Lines(), "\n")))
}
