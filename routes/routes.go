package routes

import (
	"resto-pos-api/handlers"
	"resto-pos-api/kitchen"
	"resto-pos-api/middleware"
	"resto-pos-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *handlers.API, hub *kitchen.Hub) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Ordering & payment (in-store terminals and the online storefront)
		public.POST("/orders", api.CreateOrder)
		public.POST("/payments", api.CreatePayment)

		// Menu (no auth needed)
		public.GET("/menu", handlers.GetMenu)
		public.GET("/menu/recommendations", api.GetRecommendations)

		// Processor callbacks — authenticated by HMAC signature, not JWT
		public.POST("/webhooks/processor", handlers.ProcessorWebhook)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", api.GetStateMachineInfo)
	}

	// ── Kitchen display channel ────────────────────────────────────
	r.GET("/ws/kitchen", hub.ServeWS(kitchen.RoomKitchen))

	// ── Staff routes ───────────────────────────────────────────────
	staff := r.Group("/api")
	staff.Use(middleware.AuthRequired())
	{
		staff.GET("/profile", handlers.GetProfile)

		// Order management
		staff.GET("/orders", api.ListOrders)
		staff.GET("/orders/:id", api.GetOrder)
		staff.PATCH("/orders/:id/status", api.UpdateOrderStatus)
		staff.POST("/payments/:id/refund", api.RefundPayment)

		// Inventory
		staff.GET("/inventory", handlers.ListInventory)
		staff.POST("/inventory", handlers.AddInventoryItem)
		staff.PATCH("/inventory/:id/stock", handlers.AdjustStock)
		staff.GET("/inventory/predictions", handlers.GetPredictions)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/menu", handlers.AddMenuItem)
		admin.PUT("/menu/:id", handlers.UpdateMenuItem)
		admin.DELETE("/menu/:id", handlers.DeactivateMenuItem)
	}
}
