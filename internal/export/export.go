// Package export writes a contest log in the formats contest managers and
// logbook programs read: ADIF, Cabrillo and a printable claim sheet.
package export

import (
	"errors"

	"github.com/shrimpsizemoose/qsolog/internal/models"
)

const ProgramID = "qsolog"

// Version is stamped into exported files.
var Version = "0.3.0"

var ErrNoClass = errors.New("export needs a contest class")

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orReport(s string) string {
	if s == "" {
		return models.DefaultReport
	}
	return s
}
