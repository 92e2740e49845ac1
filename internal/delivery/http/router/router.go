// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"agrilink/internal/delivery/http/middleware"
	"agrilink/internal/delivery/http/router/handler"
	"agrilink/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	ProfileHandler      *handler.ProfileHandler
	LedgerHandler       *handler.LedgerHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	profileHandler      *handler.ProfileHandler
	ledgerHandler       *handler.LedgerHandler
	authMiddleware      *middleware.AuthMiddleware
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		profileHandler:      params.ProfileHandler,
		ledgerHandler:       params.LedgerHandler,
		authMiddleware:      params.AuthMiddleware,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	e.GET("/health", handler.HealthCheck)

	// Authentication flows, no token required.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/google", r.userHandler.GoogleSignIn)
		authGroup.POST("/refresh", r.userHandler.Refresh)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Account routes for any authenticated user.
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.profileHandler.GetProfile)
		userGroup.POST("/role", r.userHandler.SelectRole)
		userGroup.POST("/logout-all", r.userHandler.LogoutAll)
	}

	// Role profile updates are gated on the matching role.
	profileGroup := e.Group("/user/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.PUT("/farmer", r.profileHandler.UpdateFarmerProfile, r.authMiddleware.RequireRole(entity.RoleFarmer))
		profileGroup.PUT("/store", r.profileHandler.UpdateStoreProfile, r.authMiddleware.RequireRole(entity.RoleStoreOwner))
		profileGroup.PUT("/broker", r.profileHandler.UpdateBrokerProfile, r.authMiddleware.RequireRole(entity.RoleBroker))
		profileGroup.PUT("/expert", r.profileHandler.UpdateExpertProfile, r.authMiddleware.RequireRole(entity.RoleExpert))
		profileGroup.PUT("/student", r.profileHandler.UpdateStudentProfile, r.authMiddleware.RequireRole(entity.RoleStudent))
		profileGroup.PUT("/consumer", r.profileHandler.UpdateConsumerProfile, r.authMiddleware.RequireRole(entity.RoleConsumer))
	}

	// Commerce ledger routes.
	ledgerGroup := e.Group("/ledger")
	ledgerGroup.Use(r.authMiddleware.Authenticate)
	{
		ledgerGroup.POST("/purchases", r.ledgerHandler.RecordPurchase)
		ledgerGroup.POST("/sales", r.ledgerHandler.RecordSale)
		ledgerGroup.GET("/dashboard", r.ledgerHandler.GetDashboard)
		ledgerGroup.POST("/payment-qr", r.ledgerHandler.GetPaymentQR)
	}

	// Market discovery and consumer cart.
	marketGroup := e.Group("/markets")
	marketGroup.Use(r.authMiddleware.Authenticate)
	{
		marketGroup.GET("/nearby", r.profileHandler.NearbyMarkets)
	}

	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.Authenticate)
	{
		cartGroup.POST("/quote", r.ledgerHandler.QuoteCart)
	}
}
