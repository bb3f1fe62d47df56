package export

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoring"
)

const summaryTemplate = `
     Name:       {{.Operator.Name}}
     Address:    {{.Operator.Address}}
     QTH:        {{.Operator.QTH}}


                     {{.ContestName}}

     Call: {{.Operator.Call}}       DOK: {{.Operator.DOK}}          Loc: {{.Operator.Locator}}

     Class: {{.Class.Code}} ({{.Class.Description}})

               Band        QSO   Points       DOK       Loc
               {{printf "%-6s" .Class.CabrilloBand}}     {{printf "%4d" .QSOs}}   {{printf "%6d" .Eval.TotalPoints}}     {{printf "%3d" .Eval.MultiplierCount}}       {{printf "%3d" .Eval.FieldCount}}
               _______________________________________________
               Total      {{printf "%4d" .QSOs}}   {{printf "%6d" .Eval.TotalPoints}}     {{printf "%3d" .Eval.MultiplierCount}}       {{printf "%3d" .Eval.FieldCount}}
               _______________________________________________

               Final score:  {{.Eval.TotalPoints}} points x {{.Eval.TotalMultipliers}} multipliers = {{.Eval.Score}} points
               _______________________________________________

     I declare that I have followed the rules of the contest and the
     license regulations of my country. The log is truthful.

     QTH: {{.Operator.QTH}}     Date: {{.Date}}   Call: {{.Operator.Call}}


     This log was created with {{.Program}}.



     {{.ContestName}}  -  QSO list     CALL: {{.Operator.Call}}

     Nr    DATE   UTC  CALL     BAND MODE   SENT                RCVD                  DOK   Loc    Pkt
{{range .Rows}}     {{printf "%5d" .Nr}} {{printf "%-6s" .Date}} {{printf "%-4s" .UTC}} {{printf "%-8s" .Call}} {{printf "%-4s" $.Class.CabrilloBand}} {{printf "%-6s" $.Class.Mode}} {{printf "%-19s" .Sent}} {{printf "%-21s" .Rcvd}} {{printf "%-5s" .NewDOK}} {{printf "%-6s" .NewField}} {{printf "%3d" .Points}}
{{end}}
                                                                          ({{printf "%5d" .Eval.MultiplierCount}} + {{printf "%5d" .Eval.FieldCount}}) x {{printf "%7d" .Eval.TotalPoints}}

                                                                             {{printf "%15d" .Eval.Score}} points
`

var summaryTmpl = template.Must(template.New("summary").Parse(summaryTemplate))

type summaryRow struct {
	Nr       int
	Date     string
	UTC      string
	Call     string
	Sent     string
	Rcvd     string
	NewDOK   string
	NewField string
	Points   int
}

type summaryData struct {
	ContestName string
	Program     string
	Operator    models.Operator
	Class       models.Class
	QSOs        int
	Eval        scoring.Evaluation
	Date        string
	Rows        []summaryRow
}

func exchange(report, serial, dok, locator string) string {
	return fmt.Sprintf("%-4s%-3s/%s/%s", orReport(report), serial, dok, locator)
}

func marker(b bool) string {
	if b {
		return "x"
	}
	return ""
}

// WriteSummary writes the printable claim sheet of an evaluated log.
func WriteSummary(w io.Writer, contestName string, op models.Operator, log *models.Log, ev scoring.Evaluation, date time.Time) error {
	if log.Len() == 0 {
		return models.ErrEmptyLog
	}
	if log.Class == "" {
		return ErrNoClass
	}
	class, err := models.LookupClass(log.Class)
	if err != nil {
		return err
	}

	data := summaryData{
		ContestName: contestName,
		Program:     fmt.Sprintf("%s v%s", ProgramID, Version),
		Operator:    op,
		Class:       class,
		QSOs:        log.Len(),
		Eval:        ev,
		Date:        date.Format("02.01.2006"),
		Rows:        make([]summaryRow, 0, len(ev.Rows)),
	}

	for _, row := range ev.Rows {
		q := row.QSO
		t := q.Time()
		data.Rows = append(data.Rows, summaryRow{
			Nr:       row.Index + 1,
			Date:     t.Format("060102"),
			UTC:      t.Format("1504"),
			Call:     orDash(q.RxCallsign),
			Sent:     exchange(q.TxReport, q.TxSerial, op.DOK, op.Locator),
			Rcvd:     exchange(q.RxReport, q.RxSerial, q.RxMultiplierCode, q.RxLocator),
			NewDOK:   marker(row.NewMultiplier),
			NewField: marker(row.NewField),
			Points:   row.Points,
		})
	}

	if err := summaryTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
