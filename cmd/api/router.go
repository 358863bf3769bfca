package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub-backend/internal/shared/auth"
	"stayhub-backend/internal/shared/middleware"
	"stayhub-backend/pkg/container"
)

// SetupRouter wires every endpoint. Route groups follow the resource
// layout; role gates sit on the group when the whole group shares one.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.ClientIP())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	authRequired := middleware.Auth(c.JWTManager, c.Blacklist)
	adminOnly := middleware.RequireRoles(auth.RoleAdmin)
	ownerOrAdmin := middleware.RequireRoles(auth.RoleHotelOwner, auth.RoleAdmin)

	router.GET("/api/v1/health", func(ctx *gin.Context) {
		health := gin.H{"status": "ok"}
		if err := c.Postgres.HealthCheck(ctx.Request.Context()); err != nil {
			health["postgres"] = err.Error()
			health["status"] = "degraded"
		}
		if err := c.Mongo.HealthCheck(ctx.Request.Context()); err != nil {
			health["mongo"] = err.Error()
			health["status"] = "degraded"
		}
		if err := c.Redis.HealthCheck(ctx.Request.Context()); err != nil {
			health["redis"] = err.Error()
			health["status"] = "degraded"
		}
		ctx.JSON(http.StatusOK, health)
	})

	// Provider callback, authenticated by HMAC signature only.
	router.GET("/api/v1/webhooks/paylink", c.TransactionHandler.Webhook)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", c.UserHandler.Register)
		authGroup.POST("/login", c.UserHandler.Login)
		authGroup.POST("/refresh", c.UserHandler.RefreshToken)
		authGroup.POST("/logout", authRequired, c.UserHandler.Logout)
	}

	users := v1.Group("/users", authRequired)
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PATCH("/me", c.UserHandler.UpdateProfile)
		users.POST("/me/password", c.UserHandler.ChangePassword)

		users.GET("", adminOnly, c.UserHandler.ListUsers)
		users.PATCH("/:id/role", adminOnly, c.UserHandler.UpdateUserRole)
		users.PATCH("/:id/status", adminOnly, c.UserHandler.UpdateUserStatus)
	}

	hotels := v1.Group("/hotels")
	{
		hotels.GET("", middleware.OptionalAuth(c.JWTManager), c.HotelHandler.List)
		hotels.GET("/mine", authRequired, ownerOrAdmin, c.HotelHandler.ListMine)
		hotels.GET("/:id", c.HotelHandler.Get)
		hotels.GET("/:id/rooms", c.RoomHandler.ListByHotel)
		hotels.GET("/:id/reviews", c.ReviewHandler.ListByHotel)

		hotels.POST("", authRequired, ownerOrAdmin, c.HotelHandler.Create)
		hotels.PATCH("/:id", authRequired, ownerOrAdmin, c.HotelHandler.Update)
		hotels.DELETE("/:id", authRequired, ownerOrAdmin, c.HotelHandler.Delete)
		hotels.POST("/:id/restore", authRequired, adminOnly, c.HotelHandler.Restore)
		hotels.POST("/:id/images", authRequired, ownerOrAdmin, c.HotelHandler.UploadImage)
		hotels.DELETE("/:id/images", authRequired, ownerOrAdmin, c.HotelHandler.RemoveImage)
	}

	rooms := v1.Group("/rooms")
	{
		rooms.GET("", c.RoomHandler.List)
		rooms.GET("/:id", c.RoomHandler.Get)

		rooms.POST("", authRequired, ownerOrAdmin, c.RoomHandler.Create)
		rooms.PATCH("/:id", authRequired, ownerOrAdmin, c.RoomHandler.Update)
		rooms.DELETE("/:id", authRequired, ownerOrAdmin, c.RoomHandler.Delete)
		rooms.POST("/:id/restore", authRequired, adminOnly, c.RoomHandler.Restore)
	}

	bookings := v1.Group("/bookings", authRequired)
	{
		bookings.GET("", c.BookingHandler.List)
		bookings.GET("/:id", c.BookingHandler.Get)
		bookings.POST("", c.BookingHandler.Create)
		bookings.POST("/:id/cancel", c.BookingHandler.Cancel)
		bookings.POST("/:id/complete", ownerOrAdmin, c.BookingHandler.Complete)
	}

	discounts := v1.Group("/discounts")
	{
		discounts.POST("/validate", authRequired, c.DiscountHandler.Validate)

		discounts.GET("", authRequired, ownerOrAdmin, c.DiscountHandler.List)
		discounts.GET("/:id", authRequired, ownerOrAdmin, c.DiscountHandler.Get)
		discounts.POST("", authRequired, ownerOrAdmin, c.DiscountHandler.Create)
		discounts.PATCH("/:id", authRequired, ownerOrAdmin, c.DiscountHandler.Update)
		discounts.DELETE("/:id", authRequired, ownerOrAdmin, c.DiscountHandler.Delete)
	}

	reviews := v1.Group("/reviews")
	{
		reviews.GET("/:id", c.ReviewHandler.Get)
		reviews.POST("", authRequired, c.ReviewHandler.Create)
		reviews.PATCH("/:id", authRequired, c.ReviewHandler.Update)
		reviews.DELETE("/:id", authRequired, c.ReviewHandler.Delete)
		reviews.PATCH("/:id/restore", authRequired, adminOnly, c.ReviewHandler.Restore)
	}

	messages := v1.Group("/messages", authRequired)
	{
		messages.GET("", c.MessageHandler.ListConversation)
		messages.POST("", c.MessageHandler.Send)
		messages.POST("/read", c.MessageHandler.MarkRead)
	}

	revenueGroup := v1.Group("/revenue", authRequired, ownerOrAdmin)
	{
		revenueGroup.GET("", c.RevenueHandler.List)
		revenueGroup.GET("/export", adminOnly, c.RevenueHandler.Export)
		revenueGroup.POST("/aggregate", adminOnly, c.RevenueHandler.Aggregate)
		revenueGroup.GET("/:id", c.RevenueHandler.Get)
	}

	roleRequests := v1.Group("/role-requests", authRequired)
	{
		roleRequests.GET("", c.RoleRequestHandler.List)
		roleRequests.POST("", c.RoleRequestHandler.Create)
		roleRequests.POST("/:id/decide", adminOnly, c.RoleRequestHandler.Decide)
	}

	transactions := v1.Group("/transactions", authRequired)
	{
		transactions.GET("", c.TransactionHandler.List)
		transactions.GET("/:id", c.TransactionHandler.Get)
	}

	v1.GET("/payment-methods", c.PaymentMethodHandler.ListEnabled)
	adminMethods := v1.Group("/admin/payment-methods", authRequired, adminOnly)
	{
		adminMethods.GET("", c.PaymentMethodHandler.List)
		adminMethods.POST("", c.PaymentMethodHandler.Create)
		adminMethods.PATCH("/:id", c.PaymentMethodHandler.Update)
		adminMethods.DELETE("/:id", c.PaymentMethodHandler.Delete)
	}

	support := v1.Group("/support", authRequired)
	{
		support.GET("", c.SupportHandler.List)
		support.GET("/:id", c.SupportHandler.Get)
		support.POST("", c.SupportHandler.Create)
		support.POST("/:id/replies", c.SupportHandler.Reply)
		support.POST("/:id/resolve", adminOnly, c.SupportHandler.Resolve)
	}

	return router
}
