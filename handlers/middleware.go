package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/adamspd/SatPracticeApi/models"
	"github.com/adamspd/SatPracticeApi/practice"
	"github.com/adamspd/SatPracticeApi/utils"
)

// Context keys for storing the practice session
type contextKey string

const sessionContextKey contextKey = "session"

// extractSessionFromRequest gets the session token from the
// Authorization header or the session cookie
func extractSessionFromRequest(r *http.Request) string {
	auth := r.Header.Get("Authorization")

	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// sessionMiddleware resolves the practice session for the request.
// With createIfMissing set it mints a fresh session and hands the
// token back in a cookie, so the first /start call needs no setup.
func sessionMiddleware(next http.HandlerFunc, sessions *practice.SessionStore, createIfMissing bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractSessionFromRequest(r)

		session, exists := sessions.GetSession(token)
		if !exists {
			if !createIfMissing {
				http.Error(w, "No active practice session", http.StatusUnauthorized)
				return
			}

			session = sessions.CreateSession()
			http.SetCookie(w, &http.Cookie{
				Name:     "session_id",
				Value:    session.Token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// getSessionFromContext extracts the practice session from the request context
func getSessionFromContext(ctx context.Context) *models.PracticeSession {
	session, ok := ctx.Value(sessionContextKey).(*models.PracticeSession)
	if !ok {
		return nil
	}
	return session
}

// adminMiddleware guards question management behind the admin key
func adminMiddleware(next http.HandlerFunc, adminKeyHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if adminKeyHash == "" {
			utils.LogHTTP("Admin endpoint hit but no ADMIN_KEY_HASH configured")
			http.Error(w, "Question management is disabled", http.StatusForbidden)
			return
		}

		key := r.Header.Get("X-Admin-Key")
		if key == "" || !utils.CheckAdminKey(adminKeyHash, key) {
			http.Error(w, "Invalid admin key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer that captures status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		utils.LogHTTP("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
