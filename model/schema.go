package model

import (
	"math"
	"strings"
	"time"
)

type Scale int

const (
	Likert Scale = iota + 1 // 1..5
	NPS                     // 0..10
	Text
)

func (s Scale) Numeric() bool {
	return s == Likert || s == NPS
}

// Question is one answer field of a survey schema. Header is the column
// title used in exports.
type Question struct {
	Key    string
	Header string
	Scale  Scale
}

var schemas = map[SurveyType][]Question{
	ThreeDays: {
		{KeyManualWelcome, "Manual Boas-vindas", Likert},
		{KeyNPS, "NPS", NPS},
		{KeyIntegration, "Avaliação Integração", Likert},
		{KeyExpectations, "Expectativas", Text},
	},
	FifteenDays: {
		{KeyResponsibilities, "Responsabilidades Claras", Likert},
		{KeySupport, "Apoio Recebido", Likert},
		{KeyIntegration, "Integração Time", Likert},
		{KeyProcesses, "Processos Claros", Likert},
		{KeyNPS, "NPS", NPS},
		{KeyExperience, "Experiência", Text},
	},
	ThirtyDays: {
		{KeyTools, "Ferramentas Adequadas", Likert},
		{KeyRecognition, "Reconhecimento", Likert},
		{KeyTraining, "Treinamento", Likert},
		{KeyGrowth, "Oportunidades Crescimento", Likert},
		{KeyOpinion, "Opinião Valorizada", Likert},
		{KeyCommunication, "Comunicação Gerencial", Likert},
		{KeyNPS, "NPS", NPS},
		{KeyExperience, "Experiência", Text},
	},
}

// Questions returns the schema of t in export column order. It is empty
// for an unknown survey type.
func Questions(t SurveyType) []Question {
	qs := schemas[t]
	out := make([]Question, len(qs))
	copy(out, qs)
	return out
}

var (
	Offices   = []string{"sede1", "sede2", "sede3"}
	Positions = []string{"cargo1", "cargo2", "cargo3"}
)

var surveyTypeLabels = map[SurveyType]string{
	ThreeDays:   "3 Dias",
	FifteenDays: "15 Dias",
	ThirtyDays:  "30 Dias",
}

func (t SurveyType) Label() string {
	if l, ok := surveyTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// OfficeLabel turns "sede1" into "Sede 1".
func OfficeLabel(office string) string {
	return strings.Replace(office, "sede", "Sede ", 1)
}

// PositionLabel turns "cargo1" into "Cargo 1".
func PositionLabel(position string) string {
	return strings.Replace(position, "cargo", "Cargo ", 1)
}

// MaxScore caps ParseScore so that sums over many answers cannot overflow.
const MaxScore = math.MaxInt32

// ParseScore reads the leading integer of s, skipping leading whitespace.
// Input with no leading digits yields 0. Magnitudes beyond MaxScore
// saturate.
func ParseScore(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int(s[i] - '0')
		if n > (MaxScore-d)/10 {
			n = MaxScore
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}

const dateLayout = "02/01/2006"

// FormatDate renders t as a pt-BR short date in loc (UTC when nil).
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}
