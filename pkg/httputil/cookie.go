package httputil

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	RefreshCookieName = "refreshToken"
	RefreshCookiePath = "/v1/auth/"
)

var ErrNoToken = errors.New("no token found")

// CookieOptions controls the attributes of the refresh cookie.
type CookieOptions struct {
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (o CookieOptions) sameSite() http.SameSite {
	// SameSite=None requires Secure=true, so use Lax for plain http development
	if o.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetRefreshCookie writes the raw refresh token into an HttpOnly cookie scoped to the auth routes.
func SetRefreshCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     RefreshCookiePath,
		Domain:   opts.Domain,
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.sameSite(),
	})
}

func ClearRefreshCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.sameSite(),
	})
}

// GetRefreshToken extracts the refresh token from its cookie.
func GetRefreshToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	return cookie.Value, nil
}

// GetBearerToken extracts the token from an "Authorization: Bearer <token>" header.
func GetBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
