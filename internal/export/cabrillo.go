package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shrimpsizemoose/qsolog/internal/models"
)

// WriteCabrillo writes a Cabrillo 3.0 log. The class selects the frequency
// column and the band category.
func WriteCabrillo(w io.Writer, op models.Operator, log *models.Log) error {
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

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "START-OF-LOG: 3.0\n")
	fmt.Fprintf(bw, "CREATED-BY: %s v%s\n", ProgramID, Version)
	fmt.Fprintf(bw, "CALLSIGN: %s\n", op.Call)
	fmt.Fprintf(bw, "CATEGORY-BAND: %s\n", class.CabrilloBand)
	fmt.Fprintf(bw, "CATEGORY-MODE: %s\n", class.Mode)
	fmt.Fprintf(bw, "GRID-LOCATOR: %s\n", op.Locator)
	fmt.Fprintf(bw, "NAME: %s\n", op.Name)
	fmt.Fprintf(bw, "ADDRESS: %s\n", op.Address)
	fmt.Fprintf(bw, "ADDRESS: %s\n", op.QTH)

	// QSO: freq  mo yyyy-mm-dd nnnn call          rst dok    loc    call          rst dok    loc
	for _, q := range log.QSOs {
		fmt.Fprintf(bw, "QSO: %5d %s %s %-13s %-3s %-6s %-6s %-13s %-3s %-6s %-6s\n",
			class.CabrilloFreq,
			class.CabrilloMode,
			q.Time().Format("2006-01-02 1504"),
			op.Call,
			orReport(q.TxReport),
			op.DOK,
			op.Locator,
			orDash(q.RxCallsign),
			orReport(q.RxReport),
			orDash(q.RxMultiplierCode),
			orDash(q.RxLocator),
		)
	}

	if _, err := fmt.Fprintf(bw, "END-OF-LOG:\n"); err != nil {
		return fmt.Errorf("failed to write Cabrillo: %w", err)
	}
	return bw.Flush()
}
