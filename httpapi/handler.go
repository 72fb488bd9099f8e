package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
	"github.com/MrEthical07/scrambleAuth/middleware"
)

// Engine is the subset of *scrambleAuth.Engine the handlers call.
type Engine interface {
	Signup(ctx context.Context, req scrambleAuth.SignupRequest) (*scrambleAuth.AuthResult, error)
	Login(ctx context.Context, req scrambleAuth.LoginRequest) (*scrambleAuth.AuthResult, error)
	RefreshToken(ctx context.Context, req scrambleAuth.RefreshRequest) (*scrambleAuth.RefreshResult, error)
	Logout(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID string, req scrambleAuth.UpdatePasswordRequest) error
	GetProfile(ctx context.Context, userID string) (*scrambleAuth.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req scrambleAuth.UpdateProfileRequest) (*scrambleAuth.Profile, error)
	Deactivate(ctx context.Context, userID string) error
	ValidateAccess(ctx context.Context, token string) (*scrambleAuth.Identity, error)
	Health(ctx context.Context) scrambleAuth.HealthReport
	Production() bool
}

// Handler serves the JSON API.
type Handler struct {
	engine Engine
	logger *slog.Logger
	mux    *http.ServeMux
}

// New registers every route on a fresh mux. A nil logger discards.
func New(engine Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{engine: engine, logger: logger, mux: http.NewServeMux()}
	h.routes()
	return h
}

func (h *Handler) routes() {
	guard := middleware.Guard(h.engine)

	h.mux.HandleFunc("POST /auth/signup", h.signup)
	h.mux.HandleFunc("POST /auth/login", h.login)
	h.mux.HandleFunc("POST /auth/refresh", h.refresh)
	h.mux.Handle("POST /auth/me/logout", guard(http.HandlerFunc(h.logout)))

	h.mux.Handle("GET /users/me", guard(http.HandlerFunc(h.getProfile)))
	h.mux.Handle("PATCH /users/me", guard(http.HandlerFunc(h.updateProfile)))
	h.mux.Handle("PUT /users/me/update/password", guard(http.HandlerFunc(h.updatePassword)))
	h.mux.Handle("POST /users/me/deactivate", guard(http.HandlerFunc(h.deactivate)))

	h.mux.HandleFunc("GET /health", h.health)
}

// ServeHTTP records the client address and dispatches to the routes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.ClientIP(h.mux).ServeHTTP(w, r)
}

// Mount adds an extra route, e.g. a metrics endpoint.
func (h *Handler) Mount(pattern string, handler http.Handler) {
	h.mux.Handle(pattern, handler)
}

func (h *Handler) ok(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, h.logger, status, scrambleAuth.NewResponse(status, message, data))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := scrambleAuth.ErrorResponse(err, h.engine.Production())
	if resp.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, h.logger, resp.Status, resp)
}

// identity is set by the guard on every protected route.
func identity(r *http.Request) string {
	id, _ := scrambleAuth.IdentityFromContext(r.Context())
	if id == nil {
		return ""
	}
	return id.UserID
}
