package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbolis/onboarding-feedback/model"
)

// ErrFetchFailure marks a failed read from the response store.
var ErrFetchFailure = errors.New("fetch failure")

// FetchError reports which read failed and why.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrFetchFailure, e.Op, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailure, e.Err}
}

// Store keeps survey responses, one logical collection per survey type.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// CreateResponse stores r under a fresh id and creation time, and returns
// the stored record. Any ID or CreatedAt set by the caller is ignored.
func (s *Store) CreateResponse(ctx context.Context, r model.SurveyResponse) (model.SurveyResponse, error) {
	if r.Answers == nil || r.Answers.SurveyType() != r.SurveyType {
		return model.SurveyResponse{}, fmt.Errorf("create response: answers do not match survey type %q", r.SurveyType)
	}

	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return model.SurveyResponse{}, fmt.Errorf("create response: %w", err)
	}

	r.ID = uuid.New().String()
	r.CreatedAt = s.now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO onboarding_response (id, survey_type, office, position, responses, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.SurveyType,
		r.Office,
		r.Position,
		string(answers),
		r.CreatedAt,
	)
	if err != nil {
		return model.SurveyResponse{}, fmt.Errorf("create response: %w", err)
	}
	return r, nil
}

// ListResponses returns every response of type t, most recent first.
func (s *Store) ListResponses(ctx context.Context, t model.SurveyType) ([]model.SurveyResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_type, office, position, responses, created_at
		FROM onboarding_response
		WHERE survey_type = ?
		ORDER BY created_at DESC, rowid DESC`,
		t,
	)
	if err != nil {
		return nil, &FetchError{"list_responses.query", err}
	}
	defer rows.Close()

	responses := []model.SurveyResponse{}
	for rows.Next() {
		var r model.SurveyResponse
		var answers string
		err = rows.Scan(&r.ID, &r.SurveyType, &r.Office, &r.Position, &answers, &r.CreatedAt)
		if err != nil {
			return nil, &FetchError{"list_responses.scan", err}
		}

		var raw map[string]any
		if err = json.Unmarshal([]byte(answers), &raw); err != nil {
			return nil, &FetchError{"list_responses.parse_answers", err}
		}
		r.Answers, err = model.DecodeAnswers(r.SurveyType, raw)
		if err != nil {
			return nil, &FetchError{"list_responses.decode_answers", err}
		}

		responses = append(responses, r)
	}
	if err = rows.Err(); err != nil {
		return nil, &FetchError{"list_responses.rows", err}
	}

	return responses, nil
}
