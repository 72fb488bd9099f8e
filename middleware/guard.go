package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
)

type validator interface {
	ValidateAccess(ctx context.Context, token string) (*scrambleAuth.Identity, error)
	Production() bool
}

// Guard rejects requests without a valid access token with 401.
func Guard(engine validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, engine)
				return
			}

			id, err := engine.ValidateAccess(r.Context(), token)
			if err != nil {
				writeError(w, err, engine.Production())
				return
			}

			ctx := scrambleAuth.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP stores the remote address, without port, via
// scrambleAuth.WithClientIP. Forwarded headers are not trusted.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		next.ServeHTTP(w, r.WithContext(scrambleAuth.WithClientIP(r.Context(), host)))
	})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

func unauthorized(w http.ResponseWriter, engine validator) {
	err := &scrambleAuth.Error{Kind: scrambleAuth.KindUnauthorized, Message: scrambleAuth.MessageInvalidAccess}
	writeError(w, err, engine == nil || engine.Production())
}

func writeError(w http.ResponseWriter, err error, production bool) {
	resp := scrambleAuth.ErrorResponse(err, production)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp)
}
