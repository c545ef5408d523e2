package http

import (
	"log/slog"
	"os"

	"github.com/driverwallet/shift-backend-go/internal/handler/http/middleware"
	"github.com/driverwallet/shift-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins     []string
	LoginRatePerMinute int
	Env                string
	Version            string
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, authHandler AuthHandler, shiftHandler ShiftHandler, ledgerHandler LedgerHandler, streamHandler StatusStreamHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shift-wallet"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	loginLimiter := middleware.NewRateLimiter(opts.LoginRatePerMinute)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Handler).Post("/login", authHandler.Login)
		})

		// Stream tokens travel in the query string
		r.Get("/status/stream", streamHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/sse-token", authHandler.SSEToken)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.ListByDate)
				r.Post("/", shiftHandler.Create)
				r.Get("/history", shiftHandler.History)
				r.Get("/active", shiftHandler.GetActive)
				r.Get("/next", shiftHandler.GetNext)
				r.Post("/end", shiftHandler.End)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", shiftHandler.GetByID)
					r.Delete("/", shiftHandler.Delete)
					r.Get("/stats", shiftHandler.Stats)
					r.Get("/ledger", shiftHandler.Ledger)
					r.Post("/start", shiftHandler.Start)
					r.Post("/break", shiftHandler.ToggleBreak)
				})
			})

			r.Get("/status", shiftHandler.Status)
			r.Post("/sweep", shiftHandler.Sweep)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ledgerHandler.ListOrders)
				r.Post("/", ledgerHandler.CreateOrder)
				r.Get("/allowed", shiftHandler.OrdersAllowed)
			})

			r.Post("/expenses", ledgerHandler.CreateExpense)
		})
	})
	return r
}
