// Package demo is the explicit demo mode: an in-process backend seeded with
// placeholder data, speaking the same HTTP contract (cookie credential, JSON
// error envelope) as the real backend. It replaces the old silent per-call
// mock fallback so that a real outage is visible as an unreachable error.
package demo

import (
	"context"
	"net/http"
	"time"

	"entrance-client/internal/middleware"
	"entrance-client/internal/model"
	"entrance-client/pkg/logger"
	"entrance-client/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	sessionTTL    = 24 * time.Hour
	rememberMeTTL = 30 * 24 * time.Hour
)

// Server is the in-process demo backend
type Server struct {
	echo   *echo.Echo
	state  *state
	logger *zap.Logger
}

// NewServer creates a demo backend with freshly seeded data
func NewServer(log *zap.Logger) *Server {
	s := &Server{
		state:  newState(),
		logger: log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware(log))

	// Public routes
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "healthy", "service": "entrance-demo"})
	})
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	api := e.Group("/api")

	// Authentication routes
	auth := api.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.POST("/logout", s.logout)
	auth.GET("/me", s.me, middleware.AuthMiddleware)

	// Everything else requires a session
	protected := api.Group("", middleware.AuthMiddleware)

	buildings := protected.Group("/buildings")
	buildings.POST("/register", s.registerBuilding, middleware.RequireManager)
	buildings.GET("/by-code/:code", s.buildingByCode)
	buildings.GET("/my-building", s.myBuilding, middleware.RequireManager)
	buildings.GET("/my-building/status", s.myBuildingStatus, middleware.RequireManager)

	units := protected.Group("/units")
	units.GET("", s.listUnits)
	units.GET("/my", s.myUnit)
	units.GET("/:id", s.getUnit)
	units.POST("", s.createUnit, middleware.RequireManager)
	units.PUT("/:id", s.updateUnit, middleware.RequireManager)
	units.DELETE("/:id", s.deleteUnit, middleware.RequireManager)
	units.GET("/:id/balance", s.unitBalance)
	units.GET("/:id/fees", s.unitFees)
	units.GET("/:id/transactions", s.unitTransactions)
	units.POST("/:id/payments/card", s.cardPayment)
	units.POST("/:id/payments/cash", s.offlinePayment(model.MethodCash))
	units.POST("/:id/payments/bank", s.offlinePayment(model.MethodBank))

	fees := protected.Group("/unit-fees")
	fees.GET("", s.listFees, middleware.RequireManager)
	fees.GET("/my", s.myFees)
	fees.GET("/unpaid", s.unpaidFees, middleware.RequireManager)
	fees.POST("", s.createFee, middleware.RequireManager)
	fees.POST("/bulk", s.createBulkFees, middleware.RequireManager)
	fees.PATCH("/:id/mark-paid", s.markFeePaid, middleware.RequireManager)
	fees.DELETE("/:id", s.deleteFee, middleware.RequireManager)

	transactions := protected.Group("/transactions")
	transactions.GET("/:id/receipt-details", s.receiptDetails)
	transactions.POST("/:id/approve", s.approveTransaction, middleware.RequireManager)
	transactions.POST("/:id/reject", s.rejectTransaction, middleware.RequireManager)

	residents := protected.Group("/residents", middleware.RequireManager)
	residents.GET("", s.listResidents)
	residents.GET("/:id", s.getResident)
	residents.POST("", s.createResident)
	residents.PUT("/:id", s.updateResident)
	residents.DELETE("/:id", s.deleteResident)

	users := protected.Group("/users")
	users.GET("/me", s.me)
	users.PUT("/profile", s.updateProfile)
	users.POST("/change-password", s.changePassword)
	users.GET("", s.listUsers, middleware.RequireManager)
	users.GET("/:id", s.getUser, middleware.RequireManager)
	users.DELETE("/:id", s.deleteUser, middleware.RequireManager)
	users.PATCH("/:id/role", s.changeUserRole, middleware.RequireManager)

	messages := protected.Group("/messages")
	messages.GET("/my", s.myMessages)
	messages.GET("/unread", s.unreadMessages)
	messages.PATCH("/:id/read", s.markMessageRead)
	messages.POST("", s.sendMessage)
	messages.DELETE("/:id", s.deleteMessage)

	announcements := protected.Group("/announcements")
	announcements.GET("", s.listAnnouncements)
	announcements.POST("", s.createAnnouncement, middleware.RequireManager)
	announcements.PUT("/:id", s.updateAnnouncement, middleware.RequireManager)
	announcements.DELETE("/:id", s.deleteAnnouncement, middleware.RequireManager)

	polls := protected.Group("/polls")
	polls.GET("", s.listPolls)
	polls.GET("/:id", s.getPoll)
	polls.POST("", s.createPoll, middleware.RequireManager)
	polls.POST("/:id/votes", s.votePoll)
	polls.POST("/:id/close", s.closePoll, middleware.RequireManager)

	documents := protected.Group("/documents")
	documents.GET("", s.listDocuments)
	documents.POST("", s.createDocument, middleware.RequireManager)
	documents.DELETE("/:id", s.deleteDocument, middleware.RequireManager)

	s.echo = e
	return s
}

// Start blocks serving the demo backend on the given port
func (s *Server) Start(port string) error {
	s.logger.Info("Starting demo backend", zap.String("port", port))
	return s.echo.Start(":" + port)
}

// Shutdown stops the demo backend
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the demo backend for in-process test servers
func (s *Server) Handler() http.Handler {
	return s.echo
}

func setSessionCookie(c echo.Context, token string, rememberMe bool) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if rememberMe {
		cookie.MaxAge = int(rememberMeTTL.Seconds())
	}
	c.SetCookie(cookie)
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
