package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/tez-wallet/internal/model"
)

// validator is implemented by every request model
type validator interface {
	Validate() error
}

// decodeRequest checks the method, decodes the JSON body into req and validates it.
// On failure the response is written and false returned.
func decodeRequest(w http.ResponseWriter, r *http.Request, req validator) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
