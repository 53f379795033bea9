package http

import (
	"net/http"

	_ "github.com/DRSN-tech/recommender-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router         *chi.Mux
	logger         logger.Logger
	allowedOrigins []string
}

func NewRouter(router *chi.Mux, logger logger.Logger, allowedOrigins []string) *Router {
	return &Router{router: router, logger: logger, allowedOrigins: allowedOrigins}
}

func (r *Router) Init(recUC usecase.RecommendationUC, analyticsUC usecase.AnalyticsUC) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(r.logger),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   r.allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{StatusHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	healthHandler := NewHealthHandler()
	r.router.Get("/", healthHandler.health)

	r.router.Route("/api", func(api chi.Router) {
		analyticsHandler := NewAnalyticsHandler(analyticsUC)
		recHandler := NewRecommendationHandler(recUC, r.logger)

		api.Get("/analytics", analyticsHandler.getAnalytics)
		api.Post("/recommend", recHandler.recommend)
	})
}
