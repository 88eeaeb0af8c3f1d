// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"eats/internal/config"
	"eats/internal/http/handlers"
	"eats/internal/http/middleware"
	"eats/internal/modules/cart"
	"eats/internal/modules/directory"
	"eats/internal/modules/notification"
	"eats/internal/modules/order"
)

type RouterDeps struct {
	Cart          *cart.Service
	Order         *order.Service
	Directory     *directory.Service
	Notifications *notification.Service
	Registry      *notification.Registry
	Pricing       config.PricingConfig
	Log           zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	cartHandler := handlers.NewCartHandler(deps.Cart, deps.Pricing)
	r.POST("/api/cart/items", cartHandler.AddLine)
	r.PATCH("/api/cart/items/:id", cartHandler.UpdateLine)
	r.POST("/api/cart/items/:id/note", cartHandler.AppendNote)
	r.DELETE("/api/cart/items/:id", cartHandler.RemoveLine)
	r.GET("/api/cart/:customerId", cartHandler.GetCart)
	r.DELETE("/api/cart/:customerId", cartHandler.ClearCart)
	r.POST("/api/cart/:customerId/delivery-fee", cartHandler.PriceCart)

	orderHandler := handlers.NewOrderHandler(deps.Order)
	r.POST("/api/orders", orderHandler.Create)
	r.GET("/api/orders", orderHandler.List)
	r.DELETE("/api/orders", orderHandler.DeleteByVendor)
	r.GET("/api/orders/:id", orderHandler.Get)
	r.PATCH("/api/orders/:id", orderHandler.Update)
	r.DELETE("/api/orders/:id", orderHandler.Delete)

	directoryHandler := handlers.NewDirectoryHandler(deps.Directory)
	r.GET("/api/vendors", directoryHandler.Vendors)
	r.GET("/api/vendors/:id/menu", directoryHandler.Menu)

	notificationHandler := handlers.NewNotificationHandler(deps.Notifications, deps.Registry, deps.Log)
	r.GET("/api/notifications/vendor/:id", notificationHandler.VendorInbox)
	r.GET("/api/notifications/rider/:id", notificationHandler.RiderInbox)
	r.GET("/api/notifications/stream/:actorId", notificationHandler.Stream)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
