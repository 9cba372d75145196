package tools

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// errorBody is the structured error shape at the tool boundary.
type errorBody struct {
	Kind    models.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

// HTTPHandler serves the registry over a minimal JSON-over-HTTP
// dispatcher: POST /tools/{name} with a JSON argument object in the body,
// one structured result or error out. This is the out-of-scope transport
// shim; it holds no state and does no work beyond framing.
func (r *Registry) HTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tools", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tools": r.Names()})
	})

	mux.HandleFunc("POST /tools/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := req.PathValue("name")

		body, err := io.ReadAll(req.Body)
		if err != nil {
			writeError(w, models.Validationf("failed to read request body: %v", err))
			return
		}

		result, err := r.Call(req.Context(), name, body)
		if err != nil {
			logger.Log.Error().Err(err).Str("tool", name).Msg("Tool call failed")
			writeError(w, err)
			return
		}

		logger.Log.Debug().Str("tool", name).Msg("Tool call succeeded")
		writeJSON(w, http.StatusOK, map[string]any{"result": result})
	})

	return mux
}

func writeError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case models.KindValidation:
		status = http.StatusBadRequest
	case models.KindNotFound:
		status = http.StatusNotFound
	case models.KindStorage:
		status = http.StatusServiceUnavailable
	}

	message := err.Error()
	var appErr *models.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	writeJSON(w, status, map[string]any{"error": errorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}
