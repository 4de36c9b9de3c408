package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrUnknownSurveyType = errors.New("unknown survey type")

// SurveyType identifies one of the onboarding check-in milestones.
type SurveyType string

const (
	ThreeDays   SurveyType = "3days"
	FifteenDays SurveyType = "15days"
	ThirtyDays  SurveyType = "30days"
)

// SurveyTypes in check-in order.
var SurveyTypes = []SurveyType{ThreeDays, FifteenDays, ThirtyDays}

func ParseSurveyType(s string) (SurveyType, error) {
	for _, t := range SurveyTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSurveyType, s)
}

func (t SurveyType) Valid() bool {
	_, err := ParseSurveyType(string(t))
	return err == nil
}

// SurveyResponse is one submitted check-in. Records are append-only.
type SurveyResponse struct {
	ID         string     `json:"id"`
	SurveyType SurveyType `json:"surveyType"`
	Office     string     `json:"office"`
	Position   string     `json:"position"`
	Answers    Answers    `json:"responses"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// UnmarshalJSON picks the Answers variant from the surveyType field.
// Records of an unknown type keep nil Answers.
func (r *SurveyResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         string         `json:"id"`
		SurveyType SurveyType     `json:"surveyType"`
		Office     string         `json:"office"`
		Position   string         `json:"position"`
		Responses  map[string]any `json:"responses"`
		CreatedAt  time.Time      `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SurveyResponse{
		ID:         raw.ID,
		SurveyType: raw.SurveyType,
		Office:     raw.Office,
		Position:   raw.Position,
		CreatedAt:  raw.CreatedAt,
	}
	if !raw.SurveyType.Valid() {
		return nil
	}

	answers, err := DecodeAnswers(raw.SurveyType, raw.Responses)
	if err != nil {
		return err
	}
	r.Answers = answers
	return nil
}

// Answer returns the raw answer for key, or "" when r has no answers.
func (r SurveyResponse) Answer(key string) string {
	return Answer(r.Answers, key)
}
