package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hbnb/internal/auth"
	"hbnb/internal/metrics"
	"hbnb/internal/service"
)

// Services groups the facade views the handlers depend on.
type Services struct {
	Users     service.UserService
	Places    service.PlaceService
	Amenities service.AmenityService
	Reviews   service.ReviewService
	Photos    service.PhotoService
}

type Options struct {
	Tokens      *auth.TokenIssuer
	AdminSecret string
	LoginRate   float64
	LoginBurst  int
	Metrics     *metrics.Metrics
	Logger      logrus.FieldLogger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	places    service.PlaceService
	amenities service.AmenityService
	reviews   service.ReviewService
	photos    service.PhotoService

	tokens       *auth.TokenIssuer
	adminSecret  string
	loginLimiter *rateLimiter
	metrics      *metrics.Metrics
	logger       logrus.FieldLogger
}

func NewHandler(svc Services, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = 1
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	return &Handler{
		users:        svc.Users,
		places:       svc.Places,
		amenities:    svc.Amenities,
		reviews:      svc.Reviews,
		photos:       svc.Photos,
		tokens:       opts.Tokens,
		adminSecret:  opts.AdminSecret,
		loginLimiter: newRateLimiter(opts.LoginRate, opts.LoginBurst),
		metrics:      opts.Metrics,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.requestLogger())
	if h.metrics != nil {
		router.Use(h.instrument())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	authed := h.requireAuth()

	api.POST("/auth/login", h.rateLimit(h.loginLimiter), h.login)
	api.GET("/auth/me", authed, h.me)
	api.POST("/admin/users", authed, h.adminCreateUser)

	users := api.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", authed, h.updateUser)
		users.DELETE("/:id", authed, h.deleteUser)
	}

	places := api.Group("/places")
	{
		places.GET("", h.listPlaces)
		places.POST("", authed, h.createPlace)
		places.GET("/:id", h.getPlace)
		places.PUT("/:id", authed, h.updatePlace)
		places.DELETE("/:id", authed, h.deletePlace)
		places.GET("/:id/reviews", h.listPlaceReviews)
		places.GET("/:id/photos", h.listPhotos)
		places.POST("/:id/photos", authed, h.uploadPhoto)
	}

	amenities := api.Group("/amenities")
	{
		amenities.GET("", h.listAmenities)
		amenities.POST("", authed, h.createAmenity)
		amenities.GET("/:id", h.getAmenity)
		amenities.PUT("/:id", authed, h.updateAmenity)
		amenities.DELETE("/:id", authed, h.deleteAmenity)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", h.listReviews)
		reviews.POST("", authed, h.createReview)
		reviews.GET("/:id", h.getReview)
		reviews.PUT("/:id", authed, h.updateReview)
		reviews.DELETE("/:id", authed, h.deleteReview)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
