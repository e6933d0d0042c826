package routes

import (
	"net/http"
	"time"

	"github.com/bidround/auction-system/handlers"
	"github.com/bidround/auction-system/metrics"
	"github.com/bidround/auction-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes mounts every HTTP route on the router. Reads are public; every
// mutating route sits behind Authenticate.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	tracker *metrics.Tracker,
	authHandler *handlers.AuthHandler,
	auctionHandler *handlers.AuctionHandler,
	bidHandler *handlers.BidHandler,
	teamHandler *handlers.TeamHandler,
	joinHandler *handlers.JoinHandler,
	clubHandler *handlers.ClubHandler,
	metricsHandler *handlers.MetricsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(trackRequests(tracker))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/ws/auctions/{auctionID}", webSocketHandler.ServeWs)

	router.Route("/auctions", func(r chi.Router) {
		r.Get("/", auctionHandler.List)
		r.Get("/{auctionID}", auctionHandler.GetByID)
		r.Get("/{auctionID}/state", auctionHandler.GetState)
		r.Get("/{auctionID}/bids", bidHandler.ListCurrent)
		r.Get("/{auctionID}/results", auctionHandler.ListResults)
		r.Get("/{auctionID}/teams", teamHandler.List)
		r.Get("/{auctionID}/teams/{teamID}", teamHandler.GetByID)
		r.Get("/{auctionID}/teams/{teamID}/members", teamHandler.ListMembers)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/", auctionHandler.Create)
			r.Put("/{auctionID}", auctionHandler.Update)
			r.Put("/{auctionID}/state", auctionHandler.ReplaceState)
			r.Post("/{auctionID}/sold", auctionHandler.RecordSale)
			r.Post("/{auctionID}/bids", bidHandler.Place)
			r.Post("/{auctionID}/rounds", bidHandler.OpenRound)
			r.Put("/{auctionID}/rounds/{roundID}/close", bidHandler.CloseRound)
			r.Post("/{auctionID}/teams", teamHandler.Create)
			r.Put("/{auctionID}/teams/{teamID}/captain", teamHandler.ChangeCaptain)
			r.Post("/{auctionID}/teams/{teamID}/logo", teamHandler.UploadLogo)
			r.Get("/{auctionID}/join", joinHandler.Permissions)
			r.Post("/{auctionID}/join", joinHandler.Join)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Post("/clubs/{clubID}/join", clubHandler.Join)
		r.Get("/metrics", metricsHandler.Snapshot)
		r.Post("/metrics", metricsHandler.Reset)
	})
}

// trackRequests records per-route status counts and latency. The chi route
// pattern is only known after the handler ran, so the key is read from the
// route context afterwards.
func trackRequests(tracker *metrics.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tracker == nil {
				next.ServeHTTP(w, r)
				return
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			tracker.RecordRequest(r.Method+" "+pattern, ww.Status(), time.Since(start))
		})
	}
}
