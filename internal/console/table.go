package console

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoring"
)

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (c *Console) printTableHeader(newline bool) {
	fmt.Fprint(c.out.w, "QSO# Time              TX RST RX Call     RX RST RX DOK  RX Loc. Distance ")
	if newline {
		fmt.Fprintln(c.out.w)
	}
}

func (c *Console) printTableRow(idx int, q *models.QSO, newline bool) {
	fmt.Fprintf(c.out.w, "%4d %-18s%-7s%-13s%-7s%-8s%-8s",
		idx,
		q.Time().Format("2006-01-02 15:04"),
		dash(q.TxReport),
		dash(q.RxCallsign),
		dash(q.RxReport),
		dash(q.RxMultiplierCode),
		dash(q.RxLocator),
	)
	if q.Stats != nil {
		fmt.Fprintf(c.out.w, "%8.1f ", q.Stats.DistanceKM)
	} else {
		fmt.Fprintf(c.out.w, "%8s ", "-")
	}
	if newline {
		fmt.Fprintln(c.out.w)
	}
}

func (c *Console) handleList(_ context.Context) error {
	if c.session.Log.Len() == 0 {
		c.out.println(colorYellow, "No QSOs in log.")
		return nil
	}

	c.printTableHeader(true)
	for i, q := range c.session.Log.QSOs {
		c.printTableRow(i, q, true)
	}
	return nil
}

func checkColor(level scoring.CheckLevel) color {
	switch level {
	case scoring.CheckCritical:
		return colorRed
	case scoring.CheckReview:
		return colorYellow
	default:
		return colorDefault
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (c *Console) handleEvaluation(_ context.Context) error {
	if c.session.Log.Len() == 0 {
		c.out.println(colorYellow, "No QSOs in log.")
		return nil
	}

	ev := c.session.Evaluate()
	evaluator := c.session.Evaluator()

	c.printTableHeader(false)
	fmt.Fprintln(c.out.w, "Points DOK-Multi Loc-Multi")

	for _, row := range ev.Rows {
		c.out.set(checkColor(row.Check))
		c.printTableRow(row.Index, row.QSO, false)
		fmt.Fprintf(c.out.w, "%6d %-9s %-9s\n", row.Points, yesNo(row.NewMultiplier), yesNo(row.NewField))
		c.out.set(colorDefault)
	}

	fmt.Fprintf(c.out.w, "\nTotal score = multipliers x points = %d x %d = %d\n\n",
		ev.TotalMultipliers(), ev.TotalPoints, ev.Score)
	fmt.Fprintf(c.out.w, "QSOs with %s or %s should be checked for errors!\n",
		c.out.paint(colorYellow, fmt.Sprintf(">%d points", evaluator.ReviewPoints)),
		c.out.paint(colorRed, fmt.Sprintf(">%d points", evaluator.CriticalPoints)),
	)
	return nil
}
