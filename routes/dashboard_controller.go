package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/onboarding-feedback/app"
	"github.com/mbolis/onboarding-feedback/export"
	"github.com/mbolis/onboarding-feedback/httpx"
	"github.com/mbolis/onboarding-feedback/log"
	"github.com/mbolis/onboarding-feedback/metrics"
	"github.com/mbolis/onboarding-feedback/model"
	"github.com/mbolis/onboarding-feedback/survey"
)

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func GetOptions() http.HandlerFunc {
	options := map[string][]option{
		"offices":     {},
		"positions":   {},
		"surveyTypes": {},
	}
	for _, o := range model.Offices {
		options["offices"] = append(options["offices"], option{o, model.OfficeLabel(o)})
	}
	for _, p := range model.Positions {
		options["positions"] = append(options["positions"], option{p, model.PositionLabel(p)})
	}
	for _, t := range model.SurveyTypes {
		options["surveyTypes"] = append(options["surveyTypes"], option{string(t), t.Label()})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, options)
	}
}

type dashboardResponse struct {
	Stats    survey.DashboardStats `json:"stats"`
	Filtered int                   `json:"filtered"`
	Total    int                   `json:"total"`
	Summary  string                `json:"summary"`
}

func GetDashboardStats(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyType, err := model.ParseSurveyType(chi.URLParam(r, "type"))
		if err != nil {
			httpx.LogNotFound(w, "dashboard_stats", chi.URLParam(r, "type"))
			return
		}

		responses, err := app.Responses.ListResponses(r.Context(), surveyType)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, log.ErrorLevel, "db.list_responses", err, msgFetchFailed)
			return
		}

		filter := survey.Filter{
			Offices:   queryList(r, "office"),
			Positions: queryList(r, "position"),
		}
		filtered := filter.Apply(responses)

		render.JSON(w, r, dashboardResponse{
			Stats:    survey.CalculateDashboardStats(surveyType, filtered),
			Filtered: len(filtered),
			Total:    len(responses),
			Summary:  survey.FilterSummary(len(filtered), len(responses)),
		})
	}
}

func GetENPS(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := fetchAll(r, app.Responses)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, log.ErrorLevel, "db.list_responses", err, msgFetchFailed)
			return
		}

		render.JSON(w, r, survey.ComputeENPS(responses, enpsFilter(r), app.Location))
	}
}

func ExportSurveyResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyType := model.SurveyType(r.URL.Query().Get("type"))
		if surveyType == "" {
			surveyType = model.ThreeDays
		}

		responses, err := app.Responses.ListResponses(r.Context(), surveyType)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, log.ErrorLevel, "export.list_responses", err, msgExportFailed)
			return
		}

		exporter := export.Exporter{Location: app.Location}
		metrics.Exports.WithLabelValues(metrics.SurveyTypeLabel(surveyType)).Inc()
		writeCSV(w, export.Filename(surveyType, time.Now()), exporter.CSV(surveyType, responses))
	}
}

func ExportENPS(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := fetchAll(r, app.Responses)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, log.ErrorLevel, "export.list_responses", err, msgExportFailed)
			return
		}

		exporter := export.Exporter{Location: app.Location}
		metrics.Exports.WithLabelValues("enps").Inc()
		writeCSV(w, export.ENPSFilename(time.Now()), exporter.ENPSCSV(enpsFilter(r).Apply(responses)))
	}
}

func enpsFilter(r *http.Request) survey.Filter {
	var types []model.SurveyType
	for _, t := range queryList(r, "type") {
		types = append(types, model.SurveyType(t))
	}
	return survey.ENPSFilter(queryList(r, "office"), types)
}

func writeCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("content-type", export.ContentType)
	w.Header().Set("content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Warnf("export.write: %s", err)
	}
}

// queryList accepts both repeated (?office=a&office=b) and comma separated
// (?office=a,b) selections.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
