package survey

import (
	"github.com/mbolis/onboarding-feedback/model"
)

// Filter narrows a response list to the selected categories. An empty
// selection means no filtering on that field.
type Filter struct {
	Offices     []string
	Positions   []string
	SurveyTypes []model.SurveyType
}

func (f Filter) Match(r model.SurveyResponse) bool {
	return selected(f.Offices, r.Office) &&
		selected(f.Positions, r.Position) &&
		selected(f.SurveyTypes, r.SurveyType)
}

// Apply returns the matching responses in their original order.
func (f Filter) Apply(responses []model.SurveyResponse) []model.SurveyResponse {
	out := make([]model.SurveyResponse, 0, len(responses))
	for _, r := range responses {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func selected[T comparable](selection []T, v T) bool {
	if len(selection) == 0 {
		return true
	}
	for _, s := range selection {
		if s == v {
			return true
		}
	}
	return false
}
