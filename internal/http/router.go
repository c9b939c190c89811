package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"buschat/internal/http/handlers"
	"buschat/internal/http/middleware"
)

func NewRouter(a *handlers.API, sessionSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	session := middleware.Session(sessionSecret, a.Registry)

	api := r.Group("/api")
	{
		api.GET("/health", a.Health)
		api.GET("/db-check", a.DBCheck)

		auth := api.Group("/auth", session)
		auth.POST("/sendotp", a.SendOTP)
		auth.POST("/resendotp", a.ResendOTP)
		auth.POST("/verifyotp", a.VerifyOTP)
		auth.GET("/profile", a.Profile)
		auth.GET("/logout", a.Logout)

		chat := api.Group("", session)
		chat.POST("/query", a.Query)
		chat.GET("/history", a.History)
		chat.GET("/conversations", a.Conversations)
		chat.DELETE("/conversations", a.DeleteConversation)

		tickets := api.Group("/tickets", session)
		tickets.POST("/quote", a.Quote)
		tickets.POST("/block", a.BlockTicket)
		tickets.GET("/:id/confirm-payment", a.ConfirmPayment)
		tickets.GET("/:id/details", a.TicketDetails)
		tickets.GET("/:id/e-ticket", a.ETicket)
		tickets.POST("/:id/cancel", a.CancelTicket)

		passengers := api.Group("/passengers", session)
		passengers.GET("/recent", a.RecentPassengers)

		payment := api.Group("/payment", session)
		payment.GET("/callback", a.PaymentCallback)
	}

	return r
}
