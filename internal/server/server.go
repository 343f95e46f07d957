package server

import (
	"context"

	"mamba-store/internal/handler"
	"mamba-store/internal/middleware"
	"mamba-store/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	orderHandler   *handler.OrderHandler
	webhookHandler *handler.WebhookHandler
	authHandler    *handler.AuthHandler
	accessHandler  *handler.AccessHandler
	authService    service.AuthService
}

func NewServer(
	orderHandler *handler.OrderHandler,
	webhookHandler *handler.WebhookHandler,
	authHandler *handler.AuthHandler,
	accessHandler *handler.AccessHandler,
	authService service.AuthService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		orderHandler:   orderHandler,
		webhookHandler: webhookHandler,
		authHandler:    authHandler,
		accessHandler:  accessHandler,
		authService:    authService,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- orders --------
	api.POST("/orders", s.orderHandler.CreateOrder)
	api.GET("/orders/:email", s.orderHandler.GetOrdersByEmail)
	api.GET("/orders/:email/paid", s.orderHandler.GetPaidStatus)
	api.PATCH("/orders/:id", s.orderHandler.UpdateOrderStatus)

	// -------- auth --------
	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)

	// -------- discord --------
	api.POST("/discord/grant-access", s.accessHandler.GrantAccess)

	// -------- operator --------
	admin := api.Group("/admin", middleware.JWTAuth(s.authService))
	admin.GET("/codes/stats", s.accessHandler.CodeStats)

	// -------- stripe webhooks --------
	api.POST("/webhooks/stripe", s.webhookHandler.HandleStripeWebhook)
	api.POST("/test/webhook", s.webhookHandler.HandleTestWebhook)
}

// Echo exposes the router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
