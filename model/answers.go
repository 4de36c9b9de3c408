package model

import (
	"github.com/mitchellh/mapstructure"
)

// Question keys shared by the survey schemas.
const (
	KeyNPS              = "nps"
	KeyIntegration      = "integration"
	KeyManualWelcome    = "manualWelcome"
	KeyExpectations     = "expectations"
	KeyResponsibilities = "responsibilities"
	KeySupport          = "support"
	KeyProcesses        = "processes"
	KeyExperience       = "experience"
	KeyTools            = "tools"
	KeyRecognition      = "recognition"
	KeyTraining         = "training"
	KeyGrowth           = "growth"
	KeyOpinion          = "opinion"
	KeyCommunication    = "communication"
)

// Answers holds the answers of a single survey. The concrete type is
// determined by the survey type; Get returns "" for keys the variant
// does not carry.
type Answers interface {
	SurveyType() SurveyType
	Get(key string) string
}

// Answer is a nil-safe Answers.Get.
func Answer(a Answers, key string) string {
	if a == nil {
		return ""
	}
	return a.Get(key)
}

type ThreeDayAnswers struct {
	ManualWelcome string `json:"manualWelcome"`
	NPS           string `json:"nps"`
	Integration   string `json:"integration"`
	Expectations  string `json:"expectations"`
}

func (ThreeDayAnswers) SurveyType() SurveyType { return ThreeDays }

func (a ThreeDayAnswers) Get(key string) string {
	switch key {
	case KeyManualWelcome:
		return a.ManualWelcome
	case KeyNPS:
		return a.NPS
	case KeyIntegration:
		return a.Integration
	case KeyExpectations:
		return a.Expectations
	}
	return ""
}

type FifteenDayAnswers struct {
	Responsibilities string `json:"responsibilities"`
	Support          string `json:"support"`
	Integration      string `json:"integration"`
	Processes        string `json:"processes"`
	NPS              string `json:"nps"`
	Experience       string `json:"experience"`
}

func (FifteenDayAnswers) SurveyType() SurveyType { return FifteenDays }

func (a FifteenDayAnswers) Get(key string) string {
	switch key {
	case KeyResponsibilities:
		return a.Responsibilities
	case KeySupport:
		return a.Support
	case KeyIntegration:
		return a.Integration
	case KeyProcesses:
		return a.Processes
	case KeyNPS:
		return a.NPS
	case KeyExperience:
		return a.Experience
	}
	return ""
}

type ThirtyDayAnswers struct {
	Tools         string `json:"tools"`
	Recognition   string `json:"recognition"`
	Training      string `json:"training"`
	Growth        string `json:"growth"`
	Opinion       string `json:"opinion"`
	Communication string `json:"communication"`
	NPS           string `json:"nps"`
	Experience    string `json:"experience"`
}

func (ThirtyDayAnswers) SurveyType() SurveyType { return ThirtyDays }

func (a ThirtyDayAnswers) Get(key string) string {
	switch key {
	case KeyTools:
		return a.Tools
	case KeyRecognition:
		return a.Recognition
	case KeyTraining:
		return a.Training
	case KeyGrowth:
		return a.Growth
	case KeyOpinion:
		return a.Opinion
	case KeyCommunication:
		return a.Communication
	case KeyNPS:
		return a.NPS
	case KeyExperience:
		return a.Experience
	}
	return ""
}

// DecodeAnswers converts a loosely typed answer bag into the variant of t.
// Numbers and booleans are converted to strings; unknown keys are ignored.
func DecodeAnswers(t SurveyType, raw map[string]any) (Answers, error) {
	switch t {
	case ThreeDays:
		return decodeAnswers[ThreeDayAnswers](raw)
	case FifteenDays:
		return decodeAnswers[FifteenDayAnswers](raw)
	case ThirtyDays:
		return decodeAnswers[ThirtyDayAnswers](raw)
	}
	return nil, ErrUnknownSurveyType
}

func decodeAnswers[T Answers](raw map[string]any) (Answers, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return out, nil
}
