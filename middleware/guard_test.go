package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
)

type fakeValidator struct {
	token string
}

func (f fakeValidator) ValidateAccess(_ context.Context, token string) (*scrambleAuth.Identity, error) {
	if token != f.token {
		return nil, &scrambleAuth.Error{Kind: scrambleAuth.KindUnauthorized, Message: scrambleAuth.MessageInvalidAccess}
	}
	return &scrambleAuth.Identity{UserID: "u1", Email: "a@b.com"}, nil
}

func (fakeValidator) Production() bool { return true }

func TestGuard(t *testing.T) {
	var seen *scrambleAuth.Identity
	h := Guard(fakeValidator{token: "good"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = scrambleAuth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if tc.status != http.StatusNoContent {
				var body scrambleAuth.Response[any]
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body.Success || body.Message != scrambleAuth.MessageInvalidAccess {
					t.Fatalf("unexpected envelope %+v", body)
				}
				return
			}
			if seen == nil || seen.UserID != "u1" {
				t.Fatalf("identity not propagated: %+v", seen)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	var ip string
	h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = scrambleAuth.ClientIPFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)
	if ip != "10.1.2.3" {
		t.Fatalf("expected host without port, got %q", ip)
	}
}
