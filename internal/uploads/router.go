package uploads

import (
	"homestay/internal/shared/config"
	"homestay/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles image upload routes
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

// SetupRoutes registers the authenticated upload endpoint
func (uploadRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("/upload")
	authed.Use(middleware.JWTAuthWithConfig(uploadRouter.config))
	{
		authed.POST("", uploadRouter.controller.Upload)
	}
}
