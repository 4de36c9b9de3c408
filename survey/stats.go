package survey

import (
	"fmt"

	"github.com/mbolis/onboarding-feedback/model"
)

// DashboardStats summarises the responses of a single survey type.
type DashboardStats struct {
	SurveyType          model.SurveyType   `json:"surveyType"`
	TotalResponses      int                `json:"totalResponses"`
	Averages            map[string]float64 `json:"averages"`
	AverageNPS          float64            `json:"averageNPS"`
	NPSClassification   NPSClass           `json:"npsClassification"`
	OverallAverage      float64            `json:"overallAverage"`
	ResponsesByOffice   map[string]int     `json:"responsesByOffice"`
	ResponsesByPosition map[string]int     `json:"responsesByPosition"`
}

// CalculateDashboardStats averages every numeric question of t over
// responses. Blank or unparsable answers count as 0 and still count toward
// the denominator. Records are expected to be of type t already.
func CalculateDashboardStats(t model.SurveyType, responses []model.SurveyResponse) DashboardStats {
	stats := DashboardStats{
		SurveyType:          t,
		TotalResponses:      len(responses),
		Averages:            map[string]float64{},
		ResponsesByOffice:   map[string]int{},
		ResponsesByPosition: map[string]int{},
	}

	var likertSum float64
	var likertCount int
	for _, q := range model.Questions(t) {
		if !q.Scale.Numeric() {
			continue
		}

		avg := average(responses, q.Key)
		stats.Averages[q.Key] = avg
		if q.Scale == model.Likert {
			likertSum += avg
			likertCount++
		}
	}
	if likertCount > 0 {
		stats.OverallAverage = likertSum / float64(likertCount)
	}

	stats.AverageNPS = stats.Averages[model.KeyNPS]
	stats.NPSClassification = ClassifyNPS(stats.AverageNPS)

	for _, r := range responses {
		stats.ResponsesByOffice[r.Office]++
		stats.ResponsesByPosition[r.Position]++
	}

	return stats
}

func average(responses []model.SurveyResponse, key string) float64 {
	if len(responses) == 0 {
		return 0
	}

	var sum int64
	for _, r := range responses {
		sum += int64(model.ParseScore(r.Answer(key)))
	}
	return float64(sum) / float64(len(responses))
}

// NPSClass labels an NPS value against the promoter/neutral thresholds.
type NPSClass string

const (
	Promoters  NPSClass = "Promotores"
	Neutrals   NPSClass = "Neutros"
	Detractors NPSClass = "Detratores"
)

// ClassifyNPS places v in one of the three NPS groups. The dashboards feed
// it the average score of a survey, not individual answers.
func ClassifyNPS(v float64) NPSClass {
	switch {
	case v >= 9:
		return Promoters
	case v >= 7:
		return Neutrals
	default:
		return Detractors
	}
}

// Percentage of value over total; 0 when total is 0.
func Percentage(value, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(value) / float64(total) * 100
}

func FilterSummary(filtered, total int) string {
	return fmt.Sprintf("Mostrando %d de %d respostas", filtered, total)
}
