package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/kloda-app/kloda/backend/internal/transport/http/middleware"
)

// RouterConfig holds the HTTP-level policies.
type RouterConfig struct {
	AllowedOrigins   []string
	MaximumRequests  int
	RequestsDuration time.Duration
}

type Handlers struct {
	Auth   *AuthHandler
	Cards  *CardsHandler
	Users  *UsersHandler
	Stats  *StatsHandler
	Root   *RootHandler
	Uptime http.Handler
}

// NewRouter wires every route of the API.
func NewRouter(cfg RouterConfig, authorizer middleware.Authorizer, h Handlers) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
	)

	authorize := middleware.Authorize(authorizer)
	authenticate := middleware.Authenticate(authorizer)

	router.GET("/", h.Root.Index)
	router.GET("/healthz", h.Root.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	)))

	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimit(cfg.MaximumRequests, cfg.RequestsDuration))

	if h.Uptime != nil {
		v1.GET("/uptime", gin.WrapH(h.Uptime))
	}
	v1.GET("/stats", h.Stats.Stats)
	v1.GET("/categories", h.Stats.Categories)

	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/refresh", h.Auth.Refresh)
		authRoutes.POST("/logout", authorize, h.Auth.Logout)
		authRoutes.GET("/me", authorize, h.Auth.Me)
		authRoutes.GET("/sessions", authorize, h.Auth.Sessions)
		authRoutes.DELETE("/sessions/:id", authorize, h.Auth.RevokeSession)
	}

	users := v1.Group("/users")
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
	}

	cards := v1.Group("/cards")
	{
		cards.GET("", authenticate, h.Cards.List)
		cards.GET("/random", authenticate, h.Cards.Random)
		cards.GET("/export", authorize, h.Cards.Export)
		cards.GET("/:id", authenticate, h.Cards.Get)

		cards.POST("", authorize, h.Cards.Create)
		cards.POST("/import", authorize, h.Cards.Import)
		cards.PATCH("/:id", authorize, h.Cards.Update)
		cards.PATCH("/:id/like", authorize, h.Cards.Like())
		cards.PATCH("/:id/dislike", authorize, h.Cards.Dislike())
		cards.PATCH("/:id/favorite", authorize, h.Cards.Favorite())
		cards.DELETE("", authorize, h.Cards.DeleteAll)
		cards.DELETE("/:id", authorize, h.Cards.Delete)
	}

	return router
}
