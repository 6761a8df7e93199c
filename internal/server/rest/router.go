// Package rest exposes the account services over HTTP with chi. Tokens travel
// in http-only cookies; service errors map to one status code each.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophaccounts/internal/logging"
	"github.com/dmitrijs2005/gophaccounts/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 60 * time.Second

// AuthAPI is the part of the auth service the HTTP layer calls.
type AuthAPI interface {
	Signup(ctx context.Context, in models.SignupInput) (*models.UserView, error)
	Verify(ctx context.Context, token string) error
	SignIn(ctx context.Context, email, password string) (*models.TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	GetCurrentUser(ctx context.Context, accessToken string) (*models.UserView, error)
}

// UserAPI is the part of the user service the HTTP layer calls.
type UserAPI interface {
	ListAll(ctx context.Context, actor models.Actor) ([]models.UserView, error)
	GetByID(ctx context.Context, id string, actor models.Actor) (*models.UserView, error)
	DeleteByID(ctx context.Context, id string, actor models.Actor) (*models.DeleteResult, error)
	UpdateByID(ctx context.Context, targetID string, upd models.UserUpdate, actor models.Actor) (*models.UserView, error)
}

// CookieSettings controls the auth cookies written on sign-in and refresh.
type CookieSettings struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

// Handler serves the account REST API.
type Handler struct {
	auth    AuthAPI
	users   UserAPI
	cookies CookieSettings
	logger  logging.Logger
}

func NewHandler(auth AuthAPI, users UserAPI, cookies CookieSettings, logger logging.Logger) *Handler {
	return &Handler{auth: auth, users: users, cookies: cookies, logger: logger.With("module", "rest")}
}

// Router builds the chi router with middleware and all routes mounted.
func (h *Handler) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		h.requestLogger,
		middleware.Timeout(requestTimeout),
	)

	router.Get("/healthz", Healthz)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Get("/verify", h.Verify)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})

	router.With(h.requireAuth).Get("/me", h.Me)

	router.Route("/users", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Patch("/{id}", h.UpdateUser)
	})

	return router
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, detailResponse{Detail: "ok"})
}
