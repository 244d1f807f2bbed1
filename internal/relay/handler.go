package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/tuition-onboarding/pkg/logging"
)

// Response is the relay's answer to the form.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Handler exposes the Forwarder as POST /api/submit.
type Handler struct {
	forwarder *Forwarder
	logger    *logging.Logger
}

// NewHandler creates the relay endpoint.
func NewHandler(forwarder *Forwarder, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{forwarder: forwarder, logger: logger}
}

// Submit forwards the request body verbatim to the webhook.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeResponse(w, http.StatusRequestEntityTooLarge, Response{Success: false, Message: "Request body too large."})
			return
		}
		h.logger.Error("failed to read relay body", "error", err)
		writeResponse(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body."})
		return
	}
	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		writeResponse(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body."})
		return
	}

	if err := h.forwarder.Forward(r.Context(), body); err != nil {
		if errors.Is(err, ErrNotConfigured) {
			writeResponse(w, http.StatusInternalServerError, Response{Success: false, Message: "Server configuration error."})
			return
		}
		h.logger.Error("error in /api/submit", "error", err)
		writeResponse(w, http.StatusInternalServerError, Response{Success: false, Message: "Failed to submit to n8n."})
		return
	}
	writeResponse(w, http.StatusOK, Response{Success: true})
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
