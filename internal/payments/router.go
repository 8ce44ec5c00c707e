package payments

import (
	"homestay/internal/shared/config"
	"homestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles payment-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers payment routes. Guests can read their own ledger;
// recording and refunding stay host-side.
func (paymentRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("/bookings")
	authed.Use(middleware.JWTAuthWithConfig(paymentRouter.config))
	{
		authed.GET("/:id/payments", paymentRouter.controller.ListByBooking)
	}

	host := rg.Group("/host")
	host.Use(middleware.JWTAuthWithConfig(paymentRouter.config))
	host.Use(middleware.RequireHost())
	{
		host.POST("/bookings/:id/payments", paymentRouter.controller.Record)
		host.PUT("/payments/:id/refund", paymentRouter.controller.Refund)
	}
}
