// Package survey holds the submission rules and the statistics computed
// over onboarding survey responses. Everything here is pure: callers fetch
// the records and own any state.
package survey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mbolis/onboarding-feedback/model"
)

// ErrMissingFields rejects a submission with one or more blank answers.
// Errors returned by Validate wrap it once per missing key.
var ErrMissingFields = errors.New("missing required fields")

// Submission is a candidate survey response before it is stored.
type Submission struct {
	SurveyType model.SurveyType
	Office     string
	Position   string
	Answers    model.Answers
}

// Validate checks that office, position and every question of the survey
// schema carry a non-blank value. Values are not range-checked.
func Validate(s Submission) error {
	var result *multierror.Error
	missing := func(key string) {
		result = multierror.Append(result, fmt.Errorf("%s: %w", key, ErrMissingFields))
	}

	if blank(s.Office) {
		missing("office")
	}
	if blank(s.Position) {
		missing("position")
	}

	answers := s.Answers
	if answers != nil && answers.SurveyType() != s.SurveyType {
		answers = nil
	}
	for _, q := range model.Questions(s.SurveyType) {
		if blank(model.Answer(answers, q.Key)) {
			missing(q.Key)
		}
	}

	return result.ErrorOrNil()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
