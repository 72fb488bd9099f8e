package httpapi

import (
	"net/http"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
)

const (
	messageHealthy   = "API is healthy"
	messageUnhealthy = "API is unhealthy"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.GetProfile(r.Context(), identity(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessageProfileRetrieved, p)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req scrambleAuth.UpdateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.engine.UpdateProfile(r.Context(), identity(r), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessageProfileUpdated, p)
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req scrambleAuth.UpdatePasswordRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.engine.UpdatePassword(r.Context(), identity(r), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessagePasswordUpdated, nil)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Deactivate(r.Context(), identity(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, scrambleAuth.MessageAccountDeactivated, nil)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	report := h.engine.Health(r.Context())
	// A degraded cache still serves traffic; an unreachable store does not.
	if !report.StoreHealthy {
		resp := scrambleAuth.Response[scrambleAuth.HealthReport]{
			Message: messageUnhealthy,
			Status:  http.StatusServiceUnavailable,
			Data:    report,
		}
		writeJSON(w, h.logger, resp.Status, resp)
		return
	}
	h.ok(w, http.StatusOK, messageHealthy, report)
}
