package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	authmw "github.com/mind-engage/archquiz/internal/auth/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

// clientID is the subject of the validated token; exam sessions and records
// are filed under it.
func clientID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := authmw.SubjectFromContext(r.Context())
	if id == "" {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}
