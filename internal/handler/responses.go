package handler

import (
	"encoding/json"
	"net/http"

	"activities-be/pkg/errors"
	"activities-be/pkg/logger"
)

// respondJSON writes a success envelope around data.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, logger *logger.Logger) {
	logger.WithError(appErr).Debug("Request error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"type":    string(appErr.Type),
			"message": appErr.Message,
		},
	}
	if appErr.Details != nil {
		response["error"].(map[string]interface{})["details"] = appErr.Details
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode error response")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// toAppError normalizes any error into an AppError for the response writer.
func toAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.NewInternalError("internal server error", err)
}
