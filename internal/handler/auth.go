package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/devforum/internal/auth"
	"github.com/sakif/devforum/internal/service"
	"github.com/sakif/devforum/internal/validation"
)

// AuthHandler manages sign-up, sign-in, the OAuth login flows, and session
// management.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignUp         → register with username/email/password
//   - HandleSignIn         → credentials login
//   - HandleOAuthLogin     → redirect the browser to the provider's consent page
//   - HandleOAuthCallback  → receive the code, exchange it, upsert the user, issue JWT
//   - HandleLogout         → clear the JWT cookie
//   - HandleMe             → return the currently logged-in user's profile
//
// The handler owns everything HTTP-shaped (cookies, redirects, CSRF state);
// account creation and linking live in service.AuthService.
type AuthHandler struct {
	auths     *service.AuthService
	providers map[string]auth.Provider
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler. providers is keyed by the name in
// the login URL (/auth/{provider}/login), e.g. "github" and "google".
func NewAuthHandler(auths *service.AuthService, providers []auth.Provider, logger *slog.Logger) *AuthHandler {
	byName := make(map[string]auth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AuthHandler{auths: auths, providers: byName, logger: logger}
}

// HandleSignUp registers a new credentials user and logs them in.
//
// HTTP: POST /auth/sign-up
// BODY: {"name": ..., "username": ..., "email": ..., "password": ...}
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var params validation.SignUpParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.SignUp(r.Context(), params.Name, params.Username, params.Email, params.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, result.User)
}

// HandleSignIn authenticates a credentials user.
//
// HTTP: POST /auth/sign-in
// BODY: {"email": ..., "password": ...}
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var params validation.SignInParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}
	if err := validation.Check(params); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auths.SignIn(r.Context(), params.Email, params.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, result.User)
}

// HandleOAuthLogin redirects the user to the provider's authorization page.
//
// HTTP: GET /auth/{provider}/login
//
// CSRF PROTECTION VIA STATE:
// We generate a random state string and store it in a short-lived cookie.
// On callback we verify the state matches, proving the flow was initiated
// by this server and not a CSRF attacker.
func (h *AuthHandler) HandleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		http.Error(w, "unknown OAuth provider", http.StatusNotFound)
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes: long enough to approve, short enough to limit risk
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleOAuthCallback completes an OAuth login flow.
//
// HTTP: GET /auth/{provider}/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a provider profile
//  3. Upsert the user + linked account in the database
//  4. Issue a JWT session cookie
//  5. Redirect to the app home page
func (h *AuthHandler) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		http.Error(w, "unknown OAuth provider", http.StatusNotFound)
		return
	}

	// --- Step 1: Validate CSRF state ---
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("oauth callback: missing state cookie", slog.String("provider", provider.Name()))
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback: state mismatch", slog.String("provider", provider.Name()))
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	// User denied authorization on the provider's page.
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("oauth callback: user denied authorization",
			slog.String("provider", provider.Name()),
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	// --- Step 2: Exchange code for a profile ---
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	profile, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: exchange failed",
			slog.String("provider", provider.Name()),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// --- Steps 3-4: Upsert user+account, issue JWT ---
	result, err := h.auths.OAuthSignIn(r.Context(), profile)
	if err != nil {
		h.logger.Error("oauth callback: sign-in failed",
			slog.String("provider", provider.Name()),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user authenticated",
		slog.String("userID", result.User.ID),
		slog.String("provider", provider.Name()),
	)

	h.setSessionCookie(w, result.Token)

	// --- Step 5: Redirect to the app ---
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /auth/logout
//
// Logout is state-changing, hence POST: GET would be vulnerable to CSRF
// and browser pre-fetching. Since sessions are stateless JWTs, "logout"
// just deletes the client-side cookie; the token stays technically valid
// until it expires, but without the cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Should never happen on a RequireAuth-protected route, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	user, err := h.auths.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setSessionCookie stores the JWT as an HttpOnly cookie.
// HttpOnly keeps it away from JavaScript (XSS protection); SameSite=Lax
// sends it on top-level navigations but not cross-site POSTs. Secure
// should be enabled in production behind HTTPS.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
