package scrambleAuth

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorMatchesKindSentinelAndCause(t *testing.T) {
	cause := errors.New("redis: connection refused")
	err := error(internalError(cause))

	if !errors.Is(err, ErrInternal) {
		t.Fatal("expected ErrInternal")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("must not match another kind")
	}
}

func TestErrorDetailHiddenInProduction(t *testing.T) {
	e := internalError(errors.New("mongo: timeout"))

	if got := e.Detail(true); got != "" {
		t.Fatalf("expected no detail in production, got %q", got)
	}
	if got := e.Detail(false); got != "mongo: timeout" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidInput: http.StatusBadRequest,
		KindConflict:     http.StatusConflict,
		KindUnauthorized: http.StatusUnauthorized,
		KindNotFound:     http.StatusNotFound,
		KindRateLimited:  http.StatusTooManyRequests,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.Status(); got != want {
			t.Fatalf("%s: expected %d, got %d", kind, want, got)
		}
	}
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(invalidInput(map[string]string{"email": "Please provide a valid email"}), true)
	if resp.Success || resp.Status != http.StatusBadRequest || resp.Fields["email"] == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp = ErrorResponse(errors.New("boom"), false)
	if resp.Status != http.StatusInternalServerError || resp.Message != MessageInternal || resp.Error != "boom" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp = ErrorResponse(errors.New("boom"), true)
	if resp.Error != "" {
		t.Fatalf("production response leaked cause: %+v", resp)
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse(http.StatusCreated, MessageSignupSuccess, map[string]string{"id": "1"})
	if !resp.Success || resp.Status != http.StatusCreated || resp.Data["id"] != "1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
