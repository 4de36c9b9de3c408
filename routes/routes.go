package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/onboarding-feedback/app"
	"github.com/mbolis/onboarding-feedback/log"
	"github.com/mbolis/onboarding-feedback/metrics"
	"github.com/mbolis/onboarding-feedback/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.Logger,
		NoColor: true,
	})

	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.Logger, middleware.Recoverer, metrics.Instrument)

	root.Mount("/api", apiRouter(app))
	root.Handle("/metrics", metrics.Handler())

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles(app.PrivateDir, "/admin"))
	root.Mount("/", servePublicFiles(app.PublicDir))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/options", GetOptions())
	api.Post("/surveys/{type}", SubmitSurvey(app))

	api.With(middlewares.Admin(app.TokenSecret)).Mount("/admin", adminRouter(app))

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func adminRouter(app app.App) http.Handler {
	r := chi.NewRouter()

	r.Get("/surveys/{type}", ListSurveyResponses(app))
	r.Get("/surveys/{type}/stats", GetDashboardStats(app))
	r.Get("/enps", GetENPS(app))
	r.Get("/enps/export", ExportENPS(app))
	r.Get("/export", ExportSurveyResponses(app))

	return r
}

func servePublicFiles(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}

func servePrivateFiles(dir, path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir(dir)))
}
