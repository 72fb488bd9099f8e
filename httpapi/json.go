package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	scrambleAuth "github.com/MrEthical07/scrambleAuth"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = &scrambleAuth.Error{
	Kind:    scrambleAuth.KindInvalidInput,
	Message: scrambleAuth.MessageValidationFailed,
	Fields:  map[string]string{"body": "Request body must be a JSON object"},
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("write JSON response", "error", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return errors.Join(errMalformedBody, err)
	}
	return nil
}
