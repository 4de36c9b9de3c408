package middlewares

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"

	"github.com/mbolis/onboarding-feedback/httpx"
	"github.com/mbolis/onboarding-feedback/log"
)

const refreshCookieMaxAge = 60 * 60 * 24 * 365

// Admin rejects requests whose bearer token, signed with secret, does not
// carry the 'admin' role.
func Admin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), admin).Handler(next)
	}
}

func admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		if !hasRole(claims["roles"], "admin") {
			httpx.LogStatus(w, http.StatusForbidden, log.DebugLevel, "auth.admin_role")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func hasRole(rolesClaim, role string) bool {
	for _, r := range strings.Split(rolesClaim, ",") {
		if strings.TrimSpace(r) == role {
			return true
		}
	}
	return false
}

// RefreshTokens trades a refresh token for a new token pair. The bearer
// server's response is buffered so that callers can inspect it.
func RefreshTokens(bearerServer *oauth.BearerServer, refreshToken string) (httpx.ResponseBuffer, error) {
	body := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}.Encode()

	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")
	req.Header.Set("content-length", strconv.Itoa(len(body)))

	resp := httpx.NewResponseBuffer()
	bearerServer.UserCredentials(resp, req)
	return resp, nil
}

// CookieAuth lets browsers reach protected pages using the access_token and
// refresh_token cookies. An expired access token is refreshed transparently,
// anything else is sent to the login page.
func CookieAuth(bearerServer *oauth.BearerServer) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				h.ServeHTTP(w, r)
				return
			}

			token, err := r.Cookie("access_token")
			if err != nil && !errors.Is(err, http.ErrNoCookie) {
				httpx.LogInternalError(w, "auth.access_cookie", err)
				return
			}
			if err == nil {
				r.Header.Set("authorization", "Bearer "+token.Value)
				buf := httpx.NewResponseBuffer()
				h.ServeHTTP(buf, r)
				if buf.Status() != http.StatusUnauthorized {
					buf.Flush(w)
					return
				}
			}

			loginLocation := "/login?goto=" + url.QueryEscape(r.RequestURI)

			refreshToken, err := r.Cookie("refresh_token")
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					httpx.LogInternalError(w, "auth.refresh_cookie", err)
					return
				}

				w.Header().Set("location", loginLocation)
				w.WriteHeader(http.StatusTemporaryRedirect)
				return
			}

			resp, err := RefreshTokens(bearerServer, refreshToken.Value)
			if err != nil {
				httpx.LogInternalError(w, "auth.refresh_request", err)
				return
			}
			if resp.Status() == http.StatusUnauthorized {
				w.Header().Set("location", loginLocation)
				http.SetCookie(w, &http.Cookie{
					Path:     "/",
					Name:     "refresh_token",
					Value:    "",
					MaxAge:   -1,
					SameSite: http.SameSiteNoneMode,
				})
				w.WriteHeader(http.StatusTemporaryRedirect)
				return
			}
			if resp.Status() != http.StatusOK {
				httpx.LogStatus(w, resp.Status(), log.WarnLevel, "auth.refresh")
				return
			}

			var tokens struct {
				AccessToken  string  `json:"access_token"`
				RefreshToken string  `json:"refresh_token"`
				ExpiresIn    float64 `json:"expires_in"`
			}
			err = resp.DecodeJSON(&tokens)
			if err != nil {
				httpx.LogInternalError(w, "auth.refresh_decode", err)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Path:     "/",
				Name:     "access_token",
				Value:    tokens.AccessToken,
				MaxAge:   int(tokens.ExpiresIn),
				SameSite: http.SameSiteNoneMode,
			})
			http.SetCookie(w, &http.Cookie{
				Path:     "/",
				Name:     "refresh_token",
				Value:    tokens.RefreshToken,
				MaxAge:   refreshCookieMaxAge,
				SameSite: http.SameSiteNoneMode,
			})

			r.Header.Set("authorization", "Bearer "+tokens.AccessToken)
			h.ServeHTTP(w, r)
		})
	}
}
