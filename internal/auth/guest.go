package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/mind-engage/archquiz/internal/auth/middleware"
	"github.com/mind-engage/archquiz/internal/rbac"
)

const (
	GuestCookie = "aq_guest_id"
	guestPrefix = "guest|"
	guestTTL    = 365 * 24 * time.Hour
)

type tokenOut struct {
	AccessToken string `json:"access_token"`
	Subject     string `json:"subject"`
	Role        string `json:"role"`
}

// GuestLoginHandler issues an anonymous token. A browser that already holds
// the guest cookie gets its old identity back, so an open exam survives a
// page reload.
func GuestLoginHandler(a *authmw.AuthService, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(GuestCookie); err == nil && validGuestID(c.Value) {
			id = c.Value
		} else {
			id = guestPrefix + uuid.NewString()
		}

		tok, err := a.IssueJWT(id, rbac.RoleGuest)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     GuestCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(guestTTL),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenOut{AccessToken: tok, Subject: id, Role: rbac.RoleGuest})
	}
}

func validGuestID(v string) bool {
	rest, ok := strings.CutPrefix(v, guestPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// POST /auth/admin  { "username": "...", "password": "..." }
func AdminLoginHandler(a *authmw.AuthService, user, passHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if passHash == "" || req.Username != user ||
			bcrypt.CompareHashAndPassword([]byte(passHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.WithTTL(8*time.Hour).IssueJWT("admin|"+user, rbac.RoleAdmin)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenOut{AccessToken: tok, Subject: "admin|" + user, Role: rbac.RoleAdmin})
	}
}
