// Package auth implements Google OAuth login with in-memory sessions.
// Every authenticated request resolves to a Session whose UserID becomes the
// owner scope for all data access.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

const (
	defaultCookieName = "marketscout_session"
	defaultSessionTTL = 24 * time.Hour
	stateCookieName   = "oauth_state"
)

// Session is an authenticated user session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	HD      string `json:"hd"`
}

// Manager handles the OAuth flow and session lifecycle.
type Manager struct {
	oauthConfig   *oauth2.Config
	allowedDomain string
	cookieName    string
	sessionTTL    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager wires the Google OAuth config. redirectURL is the absolute URL
// of the /auth/callback endpoint.
func NewManager(cfg config.AuthConfig, redirectURL string) *Manager {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = defaultCookieName
	}
	ttl := defaultSessionTTL
	if cfg.CookieMaxAge > 0 {
		ttl = time.Duration(cfg.CookieMaxAge) * time.Second
	}
	return &Manager{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		allowedDomain: cfg.AllowedDomain,
		cookieName:    cookieName,
		sessionTTL:    ttl,
		sessions:      make(map[string]*Session),
	}
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HandleLogin starts the OAuth flow. The random state is stored in a short
// lived cookie and verified on callback.
func (m *Manager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := randomToken()
	if err != nil {
		logger.Error("generate oauth state", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if m.allowedDomain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", m.allowedDomain))
	}
	http.Redirect(w, r, m.oauthConfig.AuthCodeURL(state, opts...), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow: verifies state, exchanges the
// code, fetches the Google profile, and issues a session cookie.
func (m *Manager) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		logger.Warn("oauth state mismatch", "remote", r.RemoteAddr)
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	// State is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	token, err := m.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		logger.Error("oauth code exchange", "error", err)
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	user, err := m.fetchGoogleUser(r.Context(), token)
	if err != nil {
		logger.Error("fetch google user", "error", err)
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	if m.allowedDomain != "" && !strings.EqualFold(user.HD, m.allowedDomain) {
		logger.Warn("login rejected for domain", "email", user.Email)
		http.Error(w, "account domain not allowed", http.StatusForbidden)
		return
	}

	session, err := m.createSession(user)
	if err != nil {
		logger.Error("create session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(m.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("user logged in", "email", user.Email)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// HandleLogout destroys the session and clears the cookie.
func (m *Manager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		m.mu.Lock()
		delete(m.sessions, cookie.Value)
		m.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: m.cookieName, Value: "", Path: "/", MaxAge: -1})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// HandleUserInfo returns the current session's profile.
func (m *Manager) HandleUserInfo(w http.ResponseWriter, r *http.Request) {
	session := m.SessionFromRequest(r)
	w.Header().Set("Content-Type", "application/json")
	if session == nil {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"authenticated": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"authenticated": true,
		"user": map[string]string{
			"id":      session.UserID,
			"email":   session.Email,
			"name":    session.Name,
			"picture": session.Picture,
		},
	})
}

func (m *Manager) fetchGoogleUser(ctx context.Context, token *oauth2.Token) (*googleUser, error) {
	client := m.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("requesting userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if user.ID == "" || user.Email == "" {
		return nil, fmt.Errorf("userinfo missing id or email")
	}
	return &user, nil
}

func (m *Manager) createSession(user *googleUser) (*Session, error) {
	id, err := randomToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &Session{
		ID:        id,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: now,
		ExpiresAt: now.Add(m.sessionTTL),
	}
	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	return session, nil
}

// GetSession looks up a session by ID, expiring it lazily.
func (m *Manager) GetSession(id string) *Session {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil
	}
	return session
}

// SessionFromRequest resolves the session cookie, returning nil when absent
// or expired.
func (m *Manager) SessionFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return m.GetSession(cookie.Value)
}

// RequireAuth rejects requests without a valid session.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.SessionFromRequest(r) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CleanupExpiredSessions removes expired sessions every interval until ctx
// is cancelled.
func (m *Manager) CleanupExpiredSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for id, s := range m.sessions {
				if now.After(s.ExpiresAt) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
