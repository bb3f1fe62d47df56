package models

// Submission is the archived summary of one finished contest log.
type Submission struct {
	ID          int64  `db:"id" json:"id"`
	Receipt     string `db:"receipt" json:"receipt" validate:"omitempty,uuid"`
	Call        string `db:"callsign" json:"call" validate:"required,callsign"`
	DOK         string `db:"dok" json:"dok"`
	Locator     string `db:"locator" json:"locator" validate:"required,locator"`
	Class       string `db:"class" json:"class" validate:"required,max=1"`
	QSOCount    int    `db:"qso_count" json:"qso_count"`
	Points      int    `db:"points" json:"points"`
	Multipliers int    `db:"multipliers" json:"multipliers"`
	Fields      int    `db:"fields" json:"fields"`
	Score       int    `db:"score" json:"score"`
	SubmittedAt int64  `db:"submitted_at" json:"submitted_at"`
}

func (s *Submission) Validate() error {
	return validate.Struct(s)
}
