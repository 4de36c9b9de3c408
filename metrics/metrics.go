package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbolis/onboarding-feedback/model"
)

// Submission outcomes.
const (
	Accepted = "accepted"
	Rejected = "rejected"
	Failed   = "failed"
)

// Unknown labels survey types outside the fixed set.
const Unknown = "unknown"

var (
	SurveySubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_survey_submissions_total",
			Help: "Survey submissions by survey type and outcome",
		},
		[]string{"survey_type", "outcome"},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_exports_total",
			Help: "CSV exports served by survey type",
		},
		[]string{"survey_type"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onboarding_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// SurveyTypeLabel keeps label cardinality bounded: anything that is not a
// known survey type is counted under Unknown.
func SurveyTypeLabel(t model.SurveyType) string {
	if !t.Valid() {
		return Unknown
	}
	return string(t)
}

// Instrument records RequestDuration under the matched chi route pattern.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
