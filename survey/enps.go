package survey

import (
	"time"

	"github.com/mbolis/onboarding-feedback/model"
)

// Category is the NPS group of a single respondent.
type Category int

const (
	Detractor Category = iota
	Passive
	Promoter
)

// Categorize classifies one 0..10 answer.
func Categorize(score int) Category {
	switch {
	case score >= 9:
		return Promoter
	case score >= 7:
		return Passive
	default:
		return Detractor
	}
}

// Band is the qualitative reading of an NPS score in -100..100.
type Band string

const (
	Excellent Band = "Excelente"
	Good      Band = "Bom"
	Fair      Band = "Regular"
	Critical  Band = "Crítico"
)

func BandFor(score float64) Band {
	switch {
	case score >= 50:
		return Excellent
	case score >= 20:
		return Good
	case score >= 0:
		return Fair
	default:
		return Critical
	}
}

// AverageBand maps a 0..10 average onto the score bands through
// (avg/10)*100 - 50, as the per-survey breakdown has always displayed it.
func AverageBand(avg float64) Band {
	return BandFor((avg/10)*100 - 50)
}

// Score is %promoters - %detractors over n respondents, 0 when n is 0.
func Score(promoters, detractors, n int) float64 {
	if n == 0 {
		return 0
	}
	return 100*(float64(promoters)/float64(n)) - 100*(float64(detractors)/float64(n))
}

type SurveyTypeBreakdown struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Band    Band    `json:"band"`
}

type OfficeBreakdown struct {
	Count      int     `json:"count"`
	Average    float64 `json:"average"`
	Promoters  int     `json:"promoters"`
	Passives   int     `json:"passives"`
	Detractors int     `json:"detractors"`
	NPSScore   float64 `json:"npsScore"`
	Band       Band    `json:"band"`
}

// TrendPoint is a per-record projection; points are neither sorted nor
// grouped by date.
type TrendPoint struct {
	Date       string           `json:"date"`
	Score      int              `json:"score"`
	SurveyType model.SurveyType `json:"surveyType"`
}

type ENPSStats struct {
	TotalResponses int     `json:"totalResponses"`
	AverageNPS     float64 `json:"averageNPS"`
	Promoters      int     `json:"promoters"`
	Passives       int     `json:"passives"`
	Detractors     int     `json:"detractors"`
	PromotersPct   float64 `json:"promotersPct"`
	PassivesPct    float64 `json:"passivesPct"`
	DetractorsPct  float64 `json:"detractorsPct"`
	NPSScore       float64 `json:"npsScore"`
	Band           Band    `json:"band"`

	BySurveyType map[model.SurveyType]SurveyTypeBreakdown `json:"responsesBySurvey"`
	ByOffice     map[string]OfficeBreakdown               `json:"responsesByOffice"`
	Trend        []TrendPoint                             `json:"trendData"`
}

// ENPSFilter returns the filter the eNPS view supports: offices and
// survey types. Positions are ignored.
func ENPSFilter(offices []string, types []model.SurveyType) Filter {
	return Filter{Offices: offices, SurveyTypes: types}
}

// ComputeENPS scores every response matching f individually and rolls the
// results up overall, per survey type and per office. Trend dates are
// rendered in loc.
func ComputeENPS(responses []model.SurveyResponse, f Filter, loc *time.Location) ENPSStats {
	responses = f.Apply(responses)

	stats := ENPSStats{
		TotalResponses: len(responses),
		BySurveyType:   map[model.SurveyType]SurveyTypeBreakdown{},
		ByOffice:       map[string]OfficeBreakdown{},
		Trend:          make([]TrendPoint, 0, len(responses)),
	}

	type total struct {
		count int
		sum   int64
		cats  [3]int
	}
	byType := map[model.SurveyType]*total{}
	byOffice := map[string]*total{}

	var sum int64
	var cats [3]int
	for _, r := range responses {
		score := model.ParseScore(r.Answer(model.KeyNPS))
		cat := Categorize(score)
		sum += int64(score)
		cats[cat]++

		bt := byType[r.SurveyType]
		if bt == nil {
			bt = &total{}
			byType[r.SurveyType] = bt
		}
		bt.count++
		bt.sum += int64(score)

		bo := byOffice[r.Office]
		if bo == nil {
			bo = &total{}
			byOffice[r.Office] = bo
		}
		bo.count++
		bo.sum += int64(score)
		bo.cats[cat]++

		stats.Trend = append(stats.Trend, TrendPoint{
			Date:       model.FormatDate(r.CreatedAt, loc),
			Score:      score,
			SurveyType: r.SurveyType,
		})
	}

	n := len(responses)
	if n > 0 {
		stats.AverageNPS = float64(sum) / float64(n)
	}
	stats.Promoters = cats[Promoter]
	stats.Passives = cats[Passive]
	stats.Detractors = cats[Detractor]
	stats.PromotersPct = Percentage(stats.Promoters, n)
	stats.PassivesPct = Percentage(stats.Passives, n)
	stats.DetractorsPct = Percentage(stats.Detractors, n)
	stats.NPSScore = Score(stats.Promoters, stats.Detractors, n)
	stats.Band = BandFor(stats.NPSScore)

	for t, bt := range byType {
		avg := float64(bt.sum) / float64(bt.count)
		stats.BySurveyType[t] = SurveyTypeBreakdown{
			Count:   bt.count,
			Average: avg,
			Band:    AverageBand(avg),
		}
	}
	for office, bo := range byOffice {
		score := Score(bo.cats[Promoter], bo.cats[Detractor], bo.count)
		stats.ByOffice[office] = OfficeBreakdown{
			Count:      bo.count,
			Average:    float64(bo.sum) / float64(bo.count),
			Promoters:  bo.cats[Promoter],
			Passives:   bo.cats[Passive],
			Detractors: bo.cats[Detractor],
			NPSScore:   score,
			Band:       BandFor(score),
		}
	}

	return stats
}
