package app

import (
	"context"

	"github.com/go-chi/oauth"

	"github.com/mbolis/onboarding-feedback/config"
	"github.com/mbolis/onboarding-feedback/model"
)

// ResponseStore persists survey responses.
type ResponseStore interface {
	CreateResponse(ctx context.Context, r model.SurveyResponse) (model.SurveyResponse, error)
	ListResponses(ctx context.Context, t model.SurveyType) ([]model.SurveyResponse, error)
}

type App struct {
	Responses ResponseStore
	*oauth.BearerServer
	config.Config
}
