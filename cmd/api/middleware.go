package main

import (
	"context"
	"net/http"
	"strings"

	"course-academy/internal/model"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userIDKey contextKey = "userID"

// authenticate rejects requests without a valid session token.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := s.optionalUserID(r)
		if userID == "" {
			http.Error(w, "Missing or invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// requireSignIn is the checkout entry guard: an unauthenticated visitor is
// redirected to the sign-in page. The cart is deliberately untouched so
// checkout can resume after login.
func (s *Server) requireSignIn(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := s.optionalUserID(r)
		if userID == "" {
			http.Redirect(w, r, "/auth", http.StatusFound)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// requireAdmin gates the admin screens on the user's role record. This is
// a UX-level check; the database's own access rules must still reject
// writes from non-admin identities.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := s.optionalUserID(r)
		if userID == "" {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}

		role, err := s.db.GetUserRole(userID)
		if err != nil || role != model.RoleAdmin {
			if err != nil {
				log.Warnf("looking up role for user %s: %v", userID, err)
			}
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// optionalUserID extracts the user id from a bearer token when one is
// present and valid, empty string otherwise.
func (s *Server) optionalUserID(r *http.Request) string {
	tokenHeader := r.Header.Get("Authorization")
	if tokenHeader == "" {
		return ""
	}

	splitToken := strings.Split(tokenHeader, "Bearer ")
	if len(splitToken) != 2 {
		return ""
	}

	claims, err := s.sessions.ParseToken(splitToken[1])
	if err != nil {
		return ""
	}

	return claims.UserID
}

func requestUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}
