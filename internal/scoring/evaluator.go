// Package scoring evaluates a contest log: points per QSO from the distance,
// DOK and field multipliers counted once each, in log order.
package scoring

import (
	"math"
	"strings"

	"github.com/shrimpsizemoose/qsolog/internal/models"
)

// DefaultMultipliers are the DOKs that count as multipliers.
var DefaultMultipliers = []string{
	"B01", "B02", "B03", "B04", "B05", "B06", "B07", "B08", "B09",
	"B10", "B11", "B12", "B13", "B14", "B15", "B16", "B17", "B18",
	"B19", "B20", "B21", "B22", "B23", "B24", "B25", "B26", "B27",
	"B28", "B29", "B30", "B31", "B32", "B33", "B34", "B35", "B36",
	"B37", "B38", "B39", "B40", "B41", "B42", "B43", "Z15", "Z42",
	"Z51", "Z52", "Z61", "DC", "DVB", "YLB",
}

const (
	DefaultReviewPoints   = 300
	DefaultCriticalPoints = 1000
)

// CheckLevel flags QSOs whose points are high enough to deserve a second look
// for typos in the locator.
type CheckLevel int

const (
	CheckNone CheckLevel = iota
	CheckReview
	CheckCritical
)

type Evaluator struct {
	Multipliers    []string
	ReviewPoints   int
	CriticalPoints int

	allowed map[string]bool
}

// NewEvaluator builds an evaluator for the given allow-list. A nil list
// selects DefaultMultipliers.
func NewEvaluator(multipliers []string, reviewPoints, criticalPoints int) *Evaluator {
	if multipliers == nil {
		multipliers = DefaultMultipliers
	}
	if reviewPoints <= 0 {
		reviewPoints = DefaultReviewPoints
	}
	if criticalPoints <= 0 {
		criticalPoints = DefaultCriticalPoints
	}

	allowed := make(map[string]bool, len(multipliers))
	for _, m := range multipliers {
		allowed[strings.ToUpper(m)] = true
	}

	return &Evaluator{
		Multipliers:    multipliers,
		ReviewPoints:   reviewPoints,
		CriticalPoints: criticalPoints,
		allowed:        allowed,
	}
}

// CountsAsMultiplier reports whether code is on the allow-list.
func (e *Evaluator) CountsAsMultiplier(code string) bool {
	return code != "" && e.allowed[strings.ToUpper(code)]
}

// Row is the evaluation of a single QSO.
type Row struct {
	Index         int
	QSO           *models.QSO
	Points        int
	NewMultiplier bool
	NewField      bool
	Check         CheckLevel
}

type Evaluation struct {
	Rows            []Row
	TotalPoints     int
	MultiplierCount int
	FieldCount      int
	Score           int
}

// TotalMultipliers is the sum of DOK and field multipliers.
func (ev Evaluation) TotalMultipliers() int {
	return ev.MultiplierCount + ev.FieldCount
}

// Evaluate scores qsos in order. ownCode is the operator's own DOK: QSOs with
// the same DOK earn no points. Records are not modified.
func (e *Evaluator) Evaluate(qsos []*models.QSO, ownCode string) Evaluation {
	seenCodes := make(map[string]bool)
	seenFields := make(map[string]bool)

	ev := Evaluation{Rows: make([]Row, 0, len(qsos))}

	for i, q := range qsos {
		row := Row{Index: i, QSO: q}

		if q.RxMultiplierCode != ownCode && q.Stats != nil {
			// half to even, matching the rounding the rules were computed with
			row.Points = int(math.RoundToEven(q.Stats.DistanceKM))
		}

		code := q.RxMultiplierCode
		if !seenCodes[code] && e.CountsAsMultiplier(code) {
			seenCodes[code] = true
			row.NewMultiplier = true
			ev.MultiplierCount++
		}

		if q.Stats != nil && !seenFields[q.Stats.Field] {
			seenFields[q.Stats.Field] = true
			row.NewField = true
			ev.FieldCount++
		}

		switch {
		case row.Points > e.CriticalPoints:
			row.Check = CheckCritical
		case row.Points > e.ReviewPoints:
			row.Check = CheckReview
		}

		ev.TotalPoints += row.Points
		ev.Rows = append(ev.Rows, row)
	}

	ev.Score = ev.TotalMultipliers() * ev.TotalPoints
	return ev
}
