package ginserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rentnest/internal/infra/config"
	"rentnest/internal/infra/obs"
)

type Handlers struct {
	Booking        BookingHandler
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(requestTimeout(cfg.RequestTimeout))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	api.GET("/listings/:id/booked-dates", h.Booking.BookedDates)

	authed := api.Group("")
	if h.AuthMiddleware != nil {
		authed.Use(h.AuthMiddleware)
	}
	authed.POST("/bookings", h.Booking.Create)
	authed.GET("/bookings/my-bookings", h.Booking.MyBookings)
	authed.GET("/bookings/host-bookings", h.Booking.HostBookings)
	authed.GET("/bookings/:id", h.Booking.Get)
	authed.PUT("/bookings/:id/status", h.Booking.UpdateStatus)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// requestTimeout bounds every store interaction downstream of the handler.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(env) {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	return gin.Mode()
}
