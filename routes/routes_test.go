package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/onboarding-feedback/app"
	"github.com/mbolis/onboarding-feedback/config"
	"github.com/mbolis/onboarding-feedback/export"
	"github.com/mbolis/onboarding-feedback/httpx"
	"github.com/mbolis/onboarding-feedback/metrics"
	"github.com/mbolis/onboarding-feedback/model"
)

type fakeStore struct {
	responses map[model.SurveyType][]model.SurveyResponse
	created   []model.SurveyResponse
	createErr error
	listErr   error
}

func (s *fakeStore) CreateResponse(ctx context.Context, r model.SurveyResponse) (model.SurveyResponse, error) {
	if s.createErr != nil {
		return model.SurveyResponse{}, s.createErr
	}
	r.ID = "new-id"
	r.CreatedAt = created
	s.created = append(s.created, r)
	return r, nil
}

func (s *fakeStore) ListResponses(ctx context.Context, t model.SurveyType) ([]model.SurveyResponse, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]model.SurveyResponse{}, s.responses[t]...), nil
}

type fakeTokens struct{}

func (fakeTokens) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	return nil
}
func (fakeTokens) ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) error {
	return nil
}

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func threeDay(id, office, position, nps string) model.SurveyResponse {
	return model.SurveyResponse{
		ID: id, SurveyType: model.ThreeDays, Office: office, Position: position,
		Answers: model.ThreeDayAnswers{
			ManualWelcome: "4", NPS: nps, Integration: "5", Expectations: "ok",
		},
		CreatedAt: created,
	}
}

func seededStore() *fakeStore {
	return &fakeStore{responses: map[model.SurveyType][]model.SurveyResponse{
		model.ThreeDays: {
			threeDay("a", "sede1", "cargo1", "9"),
			threeDay("b", "sede2", "cargo1", "7"),
			threeDay("c", "sede1", "cargo2", "3"),
		},
		model.ThirtyDays: {{
			ID: "d", SurveyType: model.ThirtyDays, Office: "sede3", Position: "cargo3",
			Answers: model.ThirtyDayAnswers{
				Tools: "5", Recognition: "5", Training: "5", Growth: "5",
				Opinion: "5", Communication: "5", NPS: "10", Experience: "boa",
			},
			CreatedAt: created,
		}},
	}}
}

func testApp(t *testing.T, store app.ResponseStore) app.App {
	cfg := config.Config{
		TokenSecret:   "test-secret",
		TokenTTL:      time.Hour,
		AdminUser:     "admin@empresa.com",
		AdminPassword: "admin123",
		Location:      time.UTC,
	}
	bearerServer, err := httpx.NewBearerServer(cfg, fakeTokens{})
	require.NoError(t, err)
	return app.App{Responses: store, BearerServer: bearerServer, Config: cfg}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("content-type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestSubmitSurvey(t *testing.T) {
	store := &fakeStore{}
	api := apiRouter(testApp(t, store))

	rec := serve(api, http.MethodPost, "/surveys/3days", `{
		"office": "sede1", "position": "cargo2",
		"manualWelcome": "5", "nps": 0, "integration": "4", "expectations": "tudo certo"
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, map[string]any{"success": true, "id": "new-id"}, body)

	require.Len(t, store.created, 1)
	got := store.created[0]
	assert.Equal(t, model.ThreeDays, got.SurveyType)
	assert.Equal(t, "sede1", got.Office)
	assert.Equal(t, "cargo2", got.Position)
	assert.Equal(t, model.ThreeDayAnswers{
		ManualWelcome: "5", NPS: "0", Integration: "4", Expectations: "tudo certo",
	}, got.Answers)
}

func TestSubmitSurveyRejected(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		msg    string
	}{
		{
			name:   "missing answer",
			target: "/surveys/15days",
			body:   `{"office":"sede1","position":"cargo1","responsibilities":"4","support":"4","integration":"4","processes":"4","nps":"8"}`,
			status: http.StatusBadRequest,
			msg:    msgMissingFields,
		},
		{
			name:   "blank office",
			target: "/surveys/3days",
			body:   `{"office":"  ","position":"cargo1","manualWelcome":"5","nps":"9","integration":"4","expectations":"x"}`,
			status: http.StatusBadRequest,
			msg:    msgMissingFields,
		},
		{
			name:   "malformed body",
			target: "/surveys/3days",
			body:   `{"office":`,
			status: http.StatusBadRequest,
			msg:    msgBadRequest,
		},
		{
			name:   "object answer",
			target: "/surveys/3days",
			body:   `{"office":"sede1","position":"cargo1","manualWelcome":{"a":1},"nps":"9","integration":"4","expectations":"x"}`,
			status: http.StatusBadRequest,
			msg:    msgBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			rec := serve(apiRouter(testApp(t, store)), http.MethodPost, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			decodeBody(t, rec, &body)
			assert.Equal(t, tt.msg, body["error"])
			assert.Empty(t, store.created)
		})
	}
}

func TestSubmitSurveyUnknownType(t *testing.T) {
	store := &fakeStore{}
	rec := serve(apiRouter(testApp(t, store)), http.MethodPost, "/surveys/3dias", `{"office":"sede1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.created)
}

func TestSubmitSurveyStoreFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("disk full")}
	rec := serve(apiRouter(testApp(t, store)), http.MethodPost, "/surveys/3days",
		`{"office":"sede1","position":"cargo1","manualWelcome":"5","nps":"9","integration":"4","expectations":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Erro ao salvar pesquisa"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestGetOptions(t *testing.T) {
	rec := serve(apiRouter(testApp(t, &fakeStore{})), http.MethodGet, "/options", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]option
	decodeBody(t, rec, &body)
	assert.Len(t, body["offices"], len(model.Offices))
	assert.Len(t, body["positions"], len(model.Positions))
	assert.Equal(t, []option{
		{"3days", model.ThreeDays.Label()},
		{"15days", model.FifteenDays.Label()},
		{"30days", model.ThirtyDays.Label()},
	}, body["surveyTypes"])
}

func TestListSurveyResponses(t *testing.T) {
	admin := adminRouter(testApp(t, seededStore()))

	rec := serve(admin, http.MethodGet, "/surveys/3days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.SurveyResponse
	decodeBody(t, rec, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "9", list[0].Answer(model.KeyNPS))

	rec = serve(admin, http.MethodGet, "/surveys/15days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(admin, http.MethodGet, "/surveys/60days", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDashboardStats(t *testing.T) {
	admin := adminRouter(testApp(t, seededStore()))

	rec := serve(admin, http.MethodGet, "/surveys/3days/stats?office=sede1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stats struct {
			TotalResponses    int                `json:"totalResponses"`
			Averages          map[string]float64 `json:"averages"`
			AverageNPS        float64            `json:"averageNPS"`
			ResponsesByOffice map[string]int     `json:"responsesByOffice"`
		} `json:"stats"`
		Filtered int    `json:"filtered"`
		Total    int    `json:"total"`
		Summary  string `json:"summary"`
	}
	decodeBody(t, rec, &body)

	assert.Equal(t, 2, body.Filtered)
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, "Mostrando 2 de 3 respostas", body.Summary)
	assert.Equal(t, 2, body.Stats.TotalResponses)
	assert.Equal(t, 6.0, body.Stats.AverageNPS)
	assert.Equal(t, map[string]int{"sede1": 2}, body.Stats.ResponsesByOffice)
}

func TestGetENPS(t *testing.T) {
	admin := adminRouter(testApp(t, seededStore()))

	rec := serve(admin, http.MethodGet, "/enps", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all struct {
		TotalResponses int     `json:"totalResponses"`
		Promoters      int     `json:"promoters"`
		Detractors     int     `json:"detractors"`
		NPSScore       float64 `json:"npsScore"`
		Trend          []any   `json:"trendData"`
	}
	decodeBody(t, rec, &all)
	assert.Equal(t, 4, all.TotalResponses)
	assert.Equal(t, 2, all.Promoters)
	assert.Equal(t, 1, all.Detractors)
	assert.InDelta(t, 25.0, all.NPSScore, 1e-9)
	assert.Len(t, all.Trend, 4)

	rec = serve(admin, http.MethodGet, "/enps?office=sede1&type=3days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered struct {
		TotalResponses int     `json:"totalResponses"`
		NPSScore       float64 `json:"npsScore"`
		Band           string  `json:"band"`
	}
	decodeBody(t, rec, &filtered)
	assert.Equal(t, 2, filtered.TotalResponses)
	assert.InDelta(t, 0.0, filtered.NPSScore, 1e-9)
	assert.Equal(t, "Regular", filtered.Band)
}

func TestExportSurveyResponses(t *testing.T) {
	admin := adminRouter(testApp(t, seededStore()))

	rec := serve(admin, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("content-type"))
	assert.Regexp(t, `^attachment; filename="onboarding_3days_\d{4}-\d{2}-\d{2}\.csv"$`, rec.Header().Get("content-disposition"))

	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `a,3days,sede1,cargo1,01/03/2024,4,9,5,"ok"`, lines[1])

	rec = serve(admin, http.MethodGet, "/export?type=30days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("content-disposition"), "onboarding_30days_")
	assert.Len(t, strings.Split(rec.Body.String(), "\n"), 2)
}

func TestExportUnknownTypeCountsUnderOneLabel(t *testing.T) {
	admin := adminRouter(testApp(t, seededStore()))
	before := testutil.ToFloat64(metrics.Exports.WithLabelValues(metrics.Unknown))

	for _, typ := range []string{"bogus", "60days", "enps"} {
		rec := serve(admin, http.MethodGet, "/export?type="+typ, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, strings.Split(rec.Body.String(), "\n"), 1)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(metrics.Exports.WithLabelValues(metrics.Unknown)))
}

func TestExportENPS(t *testing.T) {
	admin := adminRouter(testApp(t, seededStore()))

	rec := serve(admin, http.MethodGet, "/enps/export?type=30days", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("content-type"))
	assert.Regexp(t, `filename="enps_data_\d{4}-\d{2}-\d{2}\.csv"`, rec.Header().Get("content-disposition"))
	assert.Len(t, strings.Split(rec.Body.String(), "\n"), 2)
}

func TestAdminFetchFailure(t *testing.T) {
	admin := adminRouter(testApp(t, &fakeStore{listErr: errors.New("connection lost")}))

	tests := []struct {
		target string
		msg    string
	}{
		{"/surveys/3days", msgFetchFailed},
		{"/surveys/3days/stats", msgFetchFailed},
		{"/enps", msgFetchFailed},
		{"/export?type=15days", msgExportFailed},
		{"/enps/export", msgExportFailed},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(admin, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			var body map[string]string
			decodeBody(t, rec, &body)
			assert.Equal(t, map[string]string{"error": tt.msg}, body)
		})
	}
}

func TestQueryList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?office=sede1,sede2&office=sede3&office=&position=", nil)
	assert.Equal(t, []string{"sede1", "sede2", "sede3"}, queryList(req, "office"))
	assert.Empty(t, queryList(req, "position"))
	assert.Empty(t, queryList(req, "type"))
}

func TestAdminRequiresToken(t *testing.T) {
	handler := Wire(testApp(t, seededStore()))

	rec := serve(handler, http.MethodGet, "/api/admin/surveys/3days", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.SetBasicAuth("admin@empresa.com", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.SetBasicAuth("admin@empresa.com", "admin123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decodeBody(t, rec, &tokens)
	require.NotEmpty(t, tokens.AccessToken)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/surveys/3days", nil)
	req.Header.Set("authorization", "Bearer "+tokens.AccessToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("authorization", "Refresh "+tokens.RefreshToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSubmitThroughRouter(t *testing.T) {
	store := &fakeStore{}
	r := chi.NewRouter()
	r.Mount("/api", apiRouter(testApp(t, store)))

	rec := serve(r, http.MethodPost, "/api/surveys/30days", `{
		"office":"sede2","position":"cargo3",
		"tools":5,"recognition":4,"training":3,"growth":2,"opinion":1,"communication":5,
		"nps":10,"experience":"boa"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.created, 1)
	assert.Equal(t, "10", store.created[0].Answer(model.KeyNPS))
	assert.Equal(t, "1", store.created[0].Answer(model.KeyOpinion))
}
