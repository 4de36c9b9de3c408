package routes

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/mbolis/onboarding-feedback/app"
	"github.com/mbolis/onboarding-feedback/httpx"
	"github.com/mbolis/onboarding-feedback/log"
	"github.com/mbolis/onboarding-feedback/routes/middlewares"
)

var refreshAuthorization = regexp.MustCompile(`(?i)^refresh\s+(.*)`)

// Login exchanges HTTP basic credentials for an admin token pair.
func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "login.basic_auth")
			return
		}

		body := url.Values{
			"grant_type": {"password"},
			"username":   {user},
			"password":   {pass},
		}.Encode()
		r.Body = io.NopCloser(strings.NewReader(body))
		r.Header.Set("content-type", "application/x-www-form-urlencoded")
		r.Header.Set("content-length", strconv.Itoa(len(body)))
		app.UserCredentials(w, r)
	}
}

// Refresh expects an "Authorization: Refresh <token>" header.
func Refresh(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match := refreshAuthorization.FindStringSubmatch(r.Header.Get("authorization"))
		if len(match) == 0 {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "refresh.token")
			return
		}

		resp, err := middlewares.RefreshTokens(app.BearerServer, match[1])
		if err != nil {
			httpx.LogInternalError(w, "refresh.new_request", err)
			return
		}
		resp.Flush(w)
	}
}
