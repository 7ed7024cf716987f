package api

import (
	"context"
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	intconfig "github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/config"
	h "github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/http/handlers"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/http/middleware"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/rategate"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/repositories"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/services"
	"github.com/yostinflorez691-commits/rapido-ochoa-replica-sub000/internal/upstream"
)

// NewRouter wires the whole request path: protection gate, booking flow
// services and handlers. The returned Sweepable is the in-memory limiter
// needing periodic maintenance; it is nil when Redis carries the state
// (Redis expires its own keys).
func NewRouter(env intconfig.Env) (*gin.Engine, services.Sweepable) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	var (
		limiter   rategate.Limiter
		sweepable services.Sweepable
	)
	if env.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: env.RedisAddr})
		limiter = rategate.NewRedisLimiter(client, "rategate")
		log.Printf("rate gate backed by redis at %s", env.RedisAddr)
	} else {
		mem := rategate.NewMemoryLimiter()
		limiter = mem
		sweepable = mem
	}

	tokens := &rategate.FormTokenIssuer{Secret: []byte(env.FormTokenSecret)}
	gate := &rategate.Gate{Limiter: limiter, Tokens: tokens}

	var repo repositories.ReservationRepo
	if intconfig.DB != nil {
		mysqlRepo := repositories.MySQLReservationRepo{DB: intconfig.DB}
		if err := mysqlRepo.EnsureSchema(context.Background()); err != nil {
			log.Printf("warning: reservations schema: %v", err)
		}
		repo = mysqlRepo
	} else {
		repo = repositories.NewMemoryReservationRepo()
	}

	client := upstream.NewClient(env.UpstreamBaseURL, env.UpstreamTimeout)
	flow := services.BookingFlowService{
		Reservations: services.ReservationService{Repo: repo},
		Details:      services.DetailsService{API: client},
		Payments:     services.PaymentService{API: client},
		Search:       client,
		Notify:       client,
	}
	apiHandlers := &h.API{Flow: flow, Tokens: tokens}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/booking/form-token", apiHandlers.FormToken)
		api.GET("/payments/pse/banks", apiHandlers.PSEBanks)

		gated := api.Group("")
		gated.Use(middleware.Gate(gate))

		gated.POST("/search", apiHandlers.CreateSearch)
		gated.GET("/search/:id", apiHandlers.GetSearch)

		gated.POST("/trips/:id/details", apiHandlers.TripDetails)

		reservations := gated.Group("/reservations")
		reservations.POST("", apiHandlers.CreateReservation)
		reservations.GET("/:id", apiHandlers.GetReservation)
		reservations.DELETE("/:id", apiHandlers.CancelReservation)
		reservations.GET("/:id/ticket", apiHandlers.ReservationTicket)

		// Routes fed by a rendered form additionally pass the honeypot
		// and form-age checks.
		forms := api.Group("")
		forms.Use(middleware.FormGate(gate))
		forms.PUT("/reservations/:id", apiHandlers.UpdateReservation)
		forms.POST("/reservations/:id/passengers", apiHandlers.SubmitPassengers)
		forms.POST("/payments/pse", apiHandlers.CreatePSEPayment)
	}

	return r, sweepable
}
