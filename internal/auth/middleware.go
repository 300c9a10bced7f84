package auth

import (
	"context"
	"net/http"
	"strings"
)

// sessionCookie is the name of the HttpOnly cookie carrying the JWT.
// The handler package sets it on sign-in and clears it on logout; this
// file only reads it.
const sessionCookie = "token"

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue keys are compared by type AND value. With a plain
// string key like "userID", any package that knows the string can read or
// shadow the value. A package-private type means only this package can
// construct the key, so only this package can touch the stored identity.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces authentication on protected routes.
//
// The user's JWT is read from the session cookie (or, for non-browser
// clients, a Bearer token in the Authorization header), validated, and the
// user ID is stored in the request context. A missing or invalid token
// ends the request with 401 before any handler logic runs — which is why
// handlers on protected routes may ignore the `ok` from UserIDFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the user identity when a valid token is present but
// never blocks the request.
//
// Routes like GET /api/questions use this: anonymous visitors can read, and
// signed-in visitors additionally get their own vote and bookmark status.
// Handlers distinguish the two via UserIDFromContext — ("", false) means
// the request is anonymous.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID set by
// RequireAuth or OptionalAuth. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractUserID finds and validates the caller's JWT.
//
// The browser flow uses the session cookie, which it sends automatically
// after sign-in. API clients without a cookie jar can instead send
// "Authorization: Bearer <jwt>"; the cookie wins when both are present.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return tokens.Validate(cookie.Value)
	}

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return tokens.Validate(strings.TrimPrefix(header, "Bearer "))
	}

	return "", http.ErrNoCookie
}
