// Package router arma la app: repos según haya DB o no, services,
// middleware global y las rutas de cada módulo.
package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "buddymatch/internal/adapters/storage/memory"
	pg "buddymatch/internal/adapters/storage/postgres"
	"buddymatch/internal/domain/accounts"
	"buddymatch/internal/domain/dogs"
	"buddymatch/internal/domain/messages"
	"buddymatch/internal/domain/posts"
	"buddymatch/internal/domain/reports"
	"buddymatch/internal/domain/support"
	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/httpx"
	"buddymatch/internal/platform/logger"
	"buddymatch/internal/ports/auth"
	"buddymatch/internal/ports/geocode"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "buddymatch/docs" // registro del spec swagger generado
)

type Options struct {
	Verifier auth.TokenVerifier // nil => modo dev (X-Debug-User-ID)
	Issuer   auth.TokenIssuer   // nil deshabilita register/login
	TokenTTL time.Duration

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Geocoder geocode.Geocoder // puede ser nil
	Log      logger.Logger

	FrontendOrigin string

	// Rate limit por IP para register/login. nil => sin límite (tests).
	AuthLimiter *middleware.RateLimiter
}

// App expone el handler y las piezas que cmd/api necesita después del
// armado (el seed escribe por fuera del ciclo request/response).
type App struct {
	Handler http.Handler

	SupportRepo support.Repository
	AccountsSvc *accounts.Service
}

func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		accountRepo accounts.Repository
		dogRepo     dogs.Repository
		postRepo    posts.Repository
		messageRepo messages.Repository
		reportRepo  reports.Repository
		supportRepo support.Repository
	)

	if opts.DB != nil {
		accountRepo = pg.NewAccountsRepo(opts.DB)
		dogRepo = pg.NewDogsRepo(opts.DB)
		postRepo = pg.NewPostsRepo(opts.DB)
		messageRepo = pg.NewMessagesRepo(opts.DB)
		reportRepo = pg.NewReportsRepo(opts.DB)
		supportRepo = pg.NewSupportRepo(opts.DB)
	} else {
		accountRepo = mem.NewAccountRepo()
		dogRepo = mem.NewDogRepo()
		postRepo = mem.NewPostRepo(accountRepo)
		messageRepo = mem.NewMessageRepo(accountRepo)
		reportRepo = mem.NewReportRepo()
		supportRepo = mem.NewSupportRepo()
	}

	// Services por módulo
	accountsSvc := accounts.NewService(accountRepo, opts.Geocoder, log)
	dogsSvc := dogs.NewService(dogRepo)
	postsSvc := posts.NewService(postRepo)
	messagesSvc := messages.NewService(messageRepo, accountsSvc, postsSvc)
	reportsSvc := reports.NewService(reportRepo)
	supportSvc := support.NewService(supportRepo)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	origin := opts.FrontendOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Debug-User-ID"},
		AllowCredentials: true, // la sesión viaja en cookie
	}).Handler)

	r.Use(middleware.RequestLog(log))
	r.Use(middleware.AuthContext(opts.Verifier, accountsSvc))

	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	var limit func(http.Handler) http.Handler
	if opts.AuthLimiter != nil {
		limit = opts.AuthLimiter.Middleware
	}

	// Rutas por módulo
	accounts.RegisterAuthRoutes(r, accountsSvc, opts.Issuer, opts.TokenTTL, limit)
	accounts.RegisterUserRoutes(r, accountsSvc, dogsSvc)
	dogs.RegisterRoutes(r, dogsSvc)
	posts.RegisterRoutes(r, postsSvc)
	messages.RegisterRoutes(r, messagesSvc)
	reports.RegisterRoutes(r, reportsSvc)
	support.RegisterRoutes(r, supportSvc)

	r.Get("/docs/*", httpSwagger.WrapHandler)

	return &App{
		Handler:     r,
		SupportRepo: supportRepo,
		AccountsSvc: accountsSvc,
	}
}

// NewRouter es el atajo para quien solo necesita el handler.
func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}
