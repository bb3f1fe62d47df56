package app

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoreboard"
	"github.com/shrimpsizemoose/qsolog/internal/scoring"
	"github.com/shrimpsizemoose/qsolog/internal/store"
)

var (
	ErrArchiveNotConfigured = errors.New("no archive dsn configured")
	ErrClassNotSet          = errors.New("contest class is not set")
)

// NewSubmission turns an evaluated log into an archive submission.
func NewSubmission(op models.Operator, class string, ev scoring.Evaluation, now time.Time) (*models.Submission, []store.ArchivedQSO) {
	sub := &models.Submission{
		Receipt:     uuid.NewString(),
		Call:        op.Call,
		DOK:         op.DOK,
		Locator:     op.Locator,
		Class:       class,
		QSOCount:    len(ev.Rows),
		Points:      ev.TotalPoints,
		Multipliers: ev.MultiplierCount,
		Fields:      ev.FieldCount,
		Score:       ev.Score,
		SubmittedAt: now.Unix(),
	}

	qsos := make([]store.ArchivedQSO, 0, len(ev.Rows))
	for _, row := range ev.Rows {
		q := row.QSO
		a := store.ArchivedQSO{
			Position:         row.Index,
			Timestamp:        q.Timestamp,
			TxReport:         q.TxReport,
			TxSerial:         q.TxSerial,
			RxReport:         q.RxReport,
			RxSerial:         q.RxSerial,
			RxCallsign:       q.RxCallsign,
			RxLocator:        q.RxLocator,
			RxMultiplierCode: q.RxMultiplierCode,
			Points:           row.Points,
			NewMultiplier:    row.NewMultiplier,
			NewField:         row.NewField,
		}
		if q.Stats != nil {
			a.DistanceKM = q.Stats.DistanceKM
		}
		qsos = append(qsos, a)
	}
	return sub, qsos
}

// NewStanding turns an evaluated log into a scoreboard entry.
func NewStanding(op models.Operator, class string, ev scoring.Evaluation) scoreboard.Standing {
	return scoreboard.Standing{
		Call:        op.Call,
		Class:       class,
		DOK:         op.DOK,
		Locator:     op.Locator,
		QSOs:        len(ev.Rows),
		Points:      ev.TotalPoints,
		Multipliers: ev.MultiplierCount,
		Fields:      ev.FieldCount,
		Score:       ev.Score,
	}
}
