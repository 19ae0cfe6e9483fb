package middleware

import (
	"encoding/json"
	"net/http"

	pkgapi "github.com/iudanet/mazadlive/pkg/api"
)

// writeError отправляет {error} в формате ответов proxy
func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(pkgapi.ErrorResponse{Error: message})
}
