package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status" example:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty" example:"not found"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return
	}
	err := json.NewEncoder(w).Encode(Response{Status: "success", Data: payload})
	if err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(Response{Status: "error", Message: message})
	if err != nil {
		zap.L().Error("failed to encode error response", zap.Error(err))
	}
}
