package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"lodgebook/internal/infra/config"
	"lodgebook/internal/infra/obs"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	UpdateStatus(c *gin.Context)
	ListMine(c *gin.Context)
}

type AvailabilityHTTP interface {
	Check(c *gin.Context)
	Calendar(c *gin.Context)
	Block(c *gin.Context)
	Unblock(c *gin.Context)
	ListBlocked(c *gin.Context)
}

type PricingHTTP interface {
	Quote(c *gin.Context)
	AddSeasonal(c *gin.Context)
	RemoveSeasonal(c *gin.Context)
	ListSeasonal(c *gin.Context)
}

type Handlers struct {
	Booking      BookingHTTP
	Availability AvailabilityHTTP
	Pricing      PricingHTTP
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
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Availability != nil {
		api.GET("/lodgings/:id/availability", h.Availability.Check)
		api.GET("/lodgings/:id/calendar", h.Availability.Calendar)
		api.POST("/lodgings/:id/blocked-dates", h.Availability.Block)
		api.GET("/lodgings/:id/blocked-dates", h.Availability.ListBlocked)
		api.DELETE("/blocked-dates/:id", h.Availability.Unblock)
	}
	if h.Pricing != nil {
		api.GET("/lodgings/:id/quote", h.Pricing.Quote)
		api.POST("/lodgings/:id/seasonal-prices", h.Pricing.AddSeasonal)
		api.GET("/lodgings/:id/seasonal-prices", h.Pricing.ListSeasonal)
		api.DELETE("/seasonal-prices/:id", h.Pricing.RemoveSeasonal)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.POST("/bookings/:id/status", h.Booking.UpdateStatus)
		api.GET("/me/bookings", h.Booking.ListMine)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

// actingUser reads the caller identity the gateway forwards. Empty means an
// anonymous or internal call; ownership checks are skipped downstream.
func actingUser(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("X-User-ID"))
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("Idempotency-Key"))
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
