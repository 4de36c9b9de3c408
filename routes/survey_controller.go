package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mitchellh/mapstructure"

	"github.com/mbolis/onboarding-feedback/app"
	"github.com/mbolis/onboarding-feedback/httpx"
	"github.com/mbolis/onboarding-feedback/log"
	"github.com/mbolis/onboarding-feedback/metrics"
	"github.com/mbolis/onboarding-feedback/model"
	"github.com/mbolis/onboarding-feedback/survey"
)

// Client-facing error messages.
const (
	msgMissingFields = "Todos os campos são obrigatórios"
	msgBadRequest    = "Requisição inválida"
	msgSaveFailed    = "Erro ao salvar pesquisa"
	msgFetchFailed   = "Erro ao buscar pesquisas"
	msgExportFailed  = "Erro ao exportar dados"
)

func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyType, err := model.ParseSurveyType(chi.URLParam(r, "type"))
		if err != nil {
			httpx.LogNotFound(w, "submit_survey", chi.URLParam(r, "type"))
			return
		}

		body := map[string]any{}
		err = render.DecodeJSON(r.Body, &body)
		if err != nil {
			metrics.SurveySubmissions.WithLabelValues(string(surveyType), metrics.Rejected).Inc()
			httpx.LogJSONError(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", err, msgBadRequest)
			return
		}

		sub := survey.Submission{SurveyType: surveyType}
		var header struct{ Office, Position string }
		err = mapstructure.WeakDecode(body, &header)
		if err == nil {
			sub.Office, sub.Position = header.Office, header.Position
			sub.Answers, err = model.DecodeAnswers(surveyType, body)
		}
		if err != nil {
			metrics.SurveySubmissions.WithLabelValues(string(surveyType), metrics.Rejected).Inc()
			httpx.LogJSONError(w, r, http.StatusBadRequest, log.DebugLevel, "request.decode_answers", err, msgBadRequest)
			return
		}

		err = survey.Validate(sub)
		if err != nil {
			metrics.SurveySubmissions.WithLabelValues(string(surveyType), metrics.Rejected).Inc()
			httpx.LogJSONError(w, r, http.StatusBadRequest, log.DebugLevel, "submit.validate", err, msgMissingFields)
			return
		}

		created, err := app.Responses.CreateResponse(r.Context(), model.SurveyResponse{
			SurveyType: surveyType,
			Office:     sub.Office,
			Position:   sub.Position,
			Answers:    sub.Answers,
		})
		if err != nil {
			metrics.SurveySubmissions.WithLabelValues(string(surveyType), metrics.Failed).Inc()
			httpx.LogJSONError(w, r, http.StatusInternalServerError, log.ErrorLevel, "db.create_response", err, msgSaveFailed)
			return
		}
		metrics.SurveySubmissions.WithLabelValues(string(surveyType), metrics.Accepted).Inc()

		log.WithFields(log.Fields{
			"id":          created.ID,
			"survey_type": created.SurveyType,
			"office":      created.Office,
		}).Info("survey submitted")

		render.JSON(w, r, map[string]any{
			"success": true,
			"id":      created.ID,
		})
	}
}

func ListSurveyResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyType, err := model.ParseSurveyType(chi.URLParam(r, "type"))
		if err != nil {
			httpx.LogNotFound(w, "list_responses", chi.URLParam(r, "type"))
			return
		}

		responses, err := app.Responses.ListResponses(r.Context(), surveyType)
		if err != nil {
			httpx.LogJSONError(w, r, http.StatusInternalServerError, log.ErrorLevel, "db.list_responses", err, msgFetchFailed)
			return
		}

		render.JSON(w, r, responses)
	}
}

// fetchAll concatenates the responses of every survey type, in check-in
// order. Any failed read fails the whole fetch.
func fetchAll(r *http.Request, store app.ResponseStore) ([]model.SurveyResponse, error) {
	var all []model.SurveyResponse
	for _, t := range model.SurveyTypes {
		responses, err := store.ListResponses(r.Context(), t)
		if err != nil {
			return nil, err
		}
		all = append(all, responses...)
	}
	return all, nil
}
