package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shrimpsizemoose/qsolog/internal/models"
)

const adifVersion = "3.0.9"

type adifWriter struct {
	w   *bufio.Writer
	err error
}

func (a *adifWriter) field(name, value string) {
	if a.err != nil || value == "" {
		return
	}
	_, a.err = fmt.Fprintf(a.w, "<%s:%d>%s\n", name, len(value), value)
}

func (a *adifWriter) raw(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

// WriteADIF writes the log as an ADIF file. Band and mode come from the
// contest class; without a class the band is left out.
func WriteADIF(w io.Writer, op models.Operator, log *models.Log) error {
	if log.Len() == 0 {
		return models.ErrEmptyLog
	}

	mode := "SSB"
	band := ""
	if class, err := models.LookupClass(log.Class); err == nil {
		mode = class.Mode
		band = class.ADIFBand
	}

	a := &adifWriter{w: bufio.NewWriter(w)}
	a.raw(fmt.Sprintf("Generated for %s in %s - Loc: %s\n\n", op.Call, op.DOK, op.Locator))
	a.field("adif_ver", adifVersion)
	a.field("programid", fmt.Sprintf("%s v%s", ProgramID, Version))
	a.raw("<EOH>\n\n")

	for _, q := range log.QSOs {
		t := q.Time()
		a.field("QSO_DATE", t.Format("20060102"))
		a.field("TIME_ON", t.Format("1504"))
		a.field("CALL", q.RxCallsign)
		a.field("RST_SENT", q.TxReport)
		a.field("RST_RCVD", q.RxReport)
		a.field("DARC_DOK", q.RxMultiplierCode)
		a.field("GRIDSQUARE", q.RxLocator)
		a.field("SRX", q.RxSerial)
		a.field("STX", q.TxSerial)
		a.field("BAND", band)
		a.field("MODE", mode)
		a.raw("<EOR>\n\n")
	}

	if a.err != nil {
		return fmt.Errorf("failed to write ADIF: %w", a.err)
	}
	return a.w.Flush()
}
