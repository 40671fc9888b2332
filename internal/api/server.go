// Package api exposes the ticket engine over HTTP.
//
// Every operation of the engine is mapped onto a /v1 route. Caller
// identity comes from the X-Account header; there is no authentication
// beyond that, matching the CLI where identity is an --as flag. Ledger
// failures surface as a JSON {error, code} envelope with the same stable
// codes the CLI prints.
package api

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/stagedoor/boxoffice/internal/engine"
)

// Server wraps an echo instance bound to one engine.
type Server struct {
	echo *echo.Echo
	eng  *engine.Engine
}

// New builds a server with all routes registered. Start it with Start
// and stop it with Shutdown; both delegate to echo.
func New(eng *engine.Engine) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	s := &Server{echo: e, eng: eng}
	s.routes()
	return s
}

// Start listens on addr and serves until Shutdown. Blocks; returns
// http.ErrServerClosed after a clean shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) routes() {
	s.echo.Use(requestLogger())

	s.echo.GET("/healthz", s.health)

	v1 := s.echo.Group("/v1")
	v1.POST("/events", s.createEvent)
	v1.GET("/events", s.listEvents)
	v1.GET("/events/:id", s.getEvent)
	v1.GET("/events/:id/price", s.priceEvent)
	v1.POST("/events/:id/purchase", s.purchase)
	v1.POST("/events/:id/purchase-batch", s.purchaseBatch)
	v1.GET("/tickets", s.listTickets)
	v1.GET("/tickets/:id", s.getTicket)
	v1.POST("/tickets/:id/transfer", s.transferTicket)
	v1.GET("/receipts", s.listReceipts)
	v1.GET("/stats", s.stats)
	v1.POST("/height/tick", s.tick)
}

// requestLogger logs one line per request after the response is
// committed. Handler errors are resolved here so the logged status is
// the one actually sent.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			slog.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
			)
			return nil
		}
	}
}

// requestValidator adapts go-playground/validator to echo's Validator
// interface. Field names in messages come from json tags, not Go names.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (rv *requestValidator) Validate(i any) error {
	return rv.validate.Struct(i)
}
