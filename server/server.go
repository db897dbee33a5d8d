package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"goflare.io/discounts/handlers"
)

type Server struct {
	echo     *echo.Echo
	Discount handlers.DiscountHandler
}

func NewServer(
	Discount handlers.DiscountHandler,
) *Server {
	return &Server{
		echo:     echo.New(),
		Discount: Discount,
	}
}

// Start initializes the server by registering middlewares and routes, and
// starts listening for connections on the provided address.
func (s *Server) Start(address string) error {
	s.registerMiddlewares()
	s.registerRoutes()
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
}

func (s *Server) registerRoutes() {

	s.echo.POST("/carts/:cartID/discounts", s.Discount.ApplyDiscountCode)
	s.echo.GET("/carts/:cartID/discounts", s.Discount.ListAppliedDiscounts)

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}
