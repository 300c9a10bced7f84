package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// OAuthUser is the provider-neutral profile the auth service upserts from.
// Each provider maps its own API response into this shape.
type OAuthUser struct {
	Provider          string // "github" or "google"
	ProviderAccountID string // the provider's stable user ID
	Name              string
	Username          string
	Email             string
	Image             string
}

// Provider wraps one OAuth 2.0 Authorization Code flow.
//
// OAUTH 2.0 AUTHORIZATION CODE FLOW:
//  1. Your server redirects the user to the provider's authorization endpoint,
//     with your ClientID and the requested scopes.
//  2. The user approves (or denies) the authorization request.
//  3. The provider redirects back to your CallbackURL with a short-lived "code".
//  4. Your server exchanges the code for an access token (server-to-server call).
//  5. Your server uses the access token to fetch the user's profile.
//
// WHY SERVER-SIDE EXCHANGE?
// The code-for-token exchange happens server-to-server, using your ClientSecret.
// The access token never touches the client's browser.
type Provider interface {
	// Name returns the provider key stored on the account row.
	Name() string
	// AuthURL returns the URL to redirect the user to for authorization.
	//
	// STATE PARAMETER:
	// The state is a random string we generate and store in a cookie before
	// redirecting. When the provider calls back, we verify the returned state
	// matches our cookie. This prevents CSRF attacks where an attacker tricks
	// your browser into completing an OAuth flow for their account.
	AuthURL(state string) string
	// Exchange trades the authorization code for a normalized profile.
	Exchange(ctx context.Context, code string) (*OAuthUser, error)
}

// =========================================================================
// GITHUB
// =========================================================================

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal the fields we need.
type githubUser struct {
	ID        int64  `json:"id"` // GitHub's numeric user ID — stable, never changes
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"` // empty if hidden in GitHub settings
	AvatarURL string `json:"avatar_url"`
}

type GitHubProvider struct {
	config *oauth2.Config
}

var _ Provider = (*GitHubProvider)(nil)

// NewGitHubProvider creates a GitHubProvider with the given credentials.
//
// You get ClientID and ClientSecret by registering an OAuth App at:
// https://github.com/settings/developers → "OAuth Apps" → "New OAuth App"
//
// callbackURL must match the "Authorization callback URL" you configured
// exactly. Example: "http://localhost:8080/api/auth/github/callback"
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*OAuthUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that automatically adds
	// the "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)
	var gh githubUser
	if err := fetchJSON(client, "https://api.github.com/user", &gh); err != nil {
		return nil, err
	}
	if gh.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (ID = 0)")
	}

	name := gh.Name
	if name == "" {
		name = gh.Login
	}
	return &OAuthUser{
		Provider:          p.Name(),
		ProviderAccountID: strconv.FormatInt(gh.ID, 10),
		Name:              name,
		Username:          gh.Login,
		Email:             gh.Email,
		Image:             gh.AvatarURL,
	}, nil
}

// =========================================================================
// GOOGLE
// =========================================================================

// googleUser is the subset of Google's userinfo response we read.
type googleUser struct {
	Sub     string `json:"sub"` // Google's stable subject ID
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type GoogleProvider struct {
	config *oauth2.Config
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider creates a GoogleProvider. Credentials come from a
// "Web application" OAuth client in the Google Cloud console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*OAuthUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	client := p.config.Client(ctx, oauthToken)
	var gu googleUser
	if err := fetchJSON(client, "https://www.googleapis.com/oauth2/v3/userinfo", &gu); err != nil {
		return nil, err
	}
	if gu.Sub == "" {
		return nil, fmt.Errorf("auth: Google returned an invalid user (empty sub)")
	}

	return &OAuthUser{
		Provider:          p.Name(),
		ProviderAccountID: gu.Sub,
		Name:              gu.Name,
		Email:             gu.Email,
		Image:             gu.Picture,
	}, nil
}

// fetchJSON GETs a provider profile endpoint and decodes the JSON body.
func fetchJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("auth: calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: %s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth: decoding response from %s: %w", url, err)
	}
	return nil
}
