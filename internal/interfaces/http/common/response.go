package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON writes payload as a JSON response. Encoding failures are logged
// only; the status line has already been sent at that point.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("レスポンスの JSON エンコードに失敗: %v", err)
	}
}
