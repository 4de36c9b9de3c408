// Package export flattens survey responses into CSV text for download.
//
// The output follows the format the admin spreadsheets were built on: only
// free-text answers are quoted (with inner quotes doubled), everything else
// is written raw, lines are separated by "\n" with no trailing newline.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbolis/onboarding-feedback/model"
)

var baseHeaders = []string{"ID", "Tipo de Pesquisa", "Sede", "Cargo", "Data de Resposta"}

var enpsHeaders = []string{"ID", "Tipo de Pesquisa", "Sede", "Cargo", "NPS", "Data"}

const ContentType = "text/csv; charset=utf-8"

// Headers returns the header row of a t export. Unknown survey types only
// get the base columns.
func Headers(t model.SurveyType) []string {
	headers := append([]string{}, baseHeaders...)
	for _, q := range model.Questions(t) {
		headers = append(headers, q.Header)
	}
	return headers
}

// Exporter renders dates in Location (UTC when nil).
type Exporter struct {
	Location *time.Location
}

// Rows maps responses to CSV cells, header row first.
func (e Exporter) Rows(t model.SurveyType, responses []model.SurveyResponse) [][]string {
	questions := model.Questions(t)

	rows := make([][]string, 0, len(responses)+1)
	rows = append(rows, Headers(t))
	for _, r := range responses {
		row := []string{
			r.ID,
			string(r.SurveyType),
			r.Office,
			r.Position,
			model.FormatDate(r.CreatedAt, e.Location),
		}
		for _, q := range questions {
			v := r.Answer(q.Key)
			if q.Scale == model.Text {
				v = Quote(v)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows
}

// CSV renders the full export of responses of type t.
func (e Exporter) CSV(t model.SurveyType, responses []model.SurveyResponse) string {
	return join(e.Rows(t, responses))
}

// ENPSCSV renders the NPS answer of every response regardless of type.
func (e Exporter) ENPSCSV(responses []model.SurveyResponse) string {
	rows := make([][]string, 0, len(responses)+1)
	rows = append(rows, enpsHeaders)
	for _, r := range responses {
		rows = append(rows, []string{
			r.ID,
			string(r.SurveyType),
			r.Office,
			r.Position,
			r.Answer(model.KeyNPS),
			model.FormatDate(r.CreatedAt, e.Location),
		})
	}
	return join(rows)
}

// Quote wraps s in double quotes, doubling any quote inside it.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Filename is the attachment name of a t export made at now.
func Filename(t model.SurveyType, now time.Time) string {
	return fmt.Sprintf("onboarding_%s_%s.csv", t, now.Format("2006-01-02"))
}

func ENPSFilename(now time.Time) string {
	return fmt.Sprintf("enps_data_%s.csv", now.Format("2006-01-02"))
}

func join(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, ",")
	}
	return strings.Join(lines, "\n")
}
