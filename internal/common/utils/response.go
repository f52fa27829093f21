// internal/common/utils/response.go
// Standardized API responses ensure consistency across all endpoints

package utils

import (
    "encoding/json"
    "net/http"
)

// Response is the standard API response structure
type Response struct {
    Success bool        `json:"success"`
    Message string      `json:"message,omitempty"`
    Data    interface{} `json:"data,omitempty"`
    Error   string      `json:"error,omitempty"`
}

// MessageResponse sends a simple message response
func MessageResponse(w http.ResponseWriter, message string, statusCode int) {
    RespondWithJSON(w, statusCode, Response{
        Success: true,
        Message: message,
    })
}

// RespondWithError sends an error response with the specified status code and message
func RespondWithError(w http.ResponseWriter, code int, message string) {
    RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON sends a JSON response with the specified status code and payload
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
    response, err := json.Marshal(payload)
    if err != nil {
        w.WriteHeader(http.StatusInternalServerError)
        w.Write([]byte(`{"error":"Error marshaling JSON"}`))
        return
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    w.Write(response)
}
