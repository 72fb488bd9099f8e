package httpapi

import (
	"net/http"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req scrambleAuth.SignupRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.engine.Signup(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, scrambleAuth.MessageSignupSuccess, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req scrambleAuth.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.engine.Login(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessageLoginSuccess, res)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req scrambleAuth.RefreshRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.engine.RefreshToken(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessageRefreshSuccess, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Logout(r.Context(), identity(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessageLogoutSuccess, nil)
}
