package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/httpapi/docs" // Swagger docs
)

type RouterOptions struct {
	// AuthMiddleware gates the dashboard routes. When nil, every dashboard request is
	// rejected with 401.
	AuthMiddleware func(http.Handler) http.Handler
	// GuestRateLimit wraps the guest invitation routes. When nil they are not limited.
	GuestRateLimit func(http.Handler) http.Handler
	// Logger is attached to every request context. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// NewRouter constructs the API HTTP router with no dashboard auth configured.
func NewRouter(api *Server) http.Handler {
	return NewRouterWithOptions(api, RouterOptions{})
}

// NewRouterWithOptions constructs the API HTTP router.
//
//	@title						Wedding RSVP API
//	@version					1.0
//	@description				Guests look up their invitation code and RSVP for their group. Hosts manage guests from the dashboard.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT from the credential service. Format: "Bearer {token}".
func NewRouterWithOptions(api *Server, opts RouterOptions) http.Handler {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	auth := opts.AuthMiddleware
	if auth == nil {
		auth = denyAll
	}
	guestLimit := opts.GuestRateLimit
	if guestLimit == nil {
		guestLimit = passThrough
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogging(log)...)
	r.Use(middleware.Recoverer)

	// Health endpoint is unauthenticated and used for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler())
	r.Get("/dietary-restrictions", api.ListDietaryRestrictions)

	r.Group(func(r chi.Router) {
		r.Use(guestLimit)
		r.Get("/invitations/{code}", api.GetInvitation)
		r.Post("/invitations/{code}/rsvp", api.SubmitRSVP)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/individuals", api.ListIndividuals)
		r.Patch("/individuals/{id}", api.UpdateIndividual)
		r.Delete("/individuals/{id}", api.DeleteIndividual)

		r.Get("/groups", api.Dashboard)
		r.Post("/groups", api.CreateGroup)
		r.Get("/groups/{code}", api.GetGroup)
		r.Patch("/groups/{code}", api.UpdateGroup)
		r.Delete("/groups/{code}", api.DeleteGroup)
		r.Post("/groups/{code}/members", api.AddMember)

		r.Get("/export.csv", api.ExportCSV)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}

func passThrough(next http.Handler) http.Handler { return next }

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "dashboard authentication is not configured", nil)
	})
}
