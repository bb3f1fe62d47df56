package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/app"
	"github.com/shrimpsizemoose/qsolog/internal/export"
	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoreboard"
)

func (c *Console) handleEditLast(ctx context.Context) error {
	if c.session.Log.Len() == 0 {
		c.out.println(colorYellow, "No QSOs in log.")
		return nil
	}
	return c.editDialog(c.session.Log.Len() - 1)
}

func (c *Console) handleEditByNumber(ctx context.Context) error {
	input, err := c.readLine("QSO number> ")
	if err != nil {
		return err
	}
	if input == "" {
		c.out.println(colorRed, "Empty input, cancelled.")
		return nil
	}

	idx, err := strconv.Atoi(input)
	if err != nil {
		return fmt.Errorf("not a QSO number: %q", input)
	}
	if _, err := c.session.Log.At(idx); err != nil {
		return err
	}
	return c.editDialog(idx)
}

// editDialog lets the operator change fields of QSO idx one at a time until
// 'q' is entered. Every accepted change is saved right away.
func (c *Console) editDialog(idx int) error {
	for {
		q, err := c.session.Log.At(idx)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.out.w, "\nOriginal input: %s\n\n", dash(q.RawLine))
		for i, f := range models.EditableFields {
			col := colorYellow
			if f.Key[0] == 'r' {
				col = colorGreen
			}
			c.out.printf(col, "[%d] %-22s - %s\n", i, f.Label, fieldValue(q, f.Key))
		}

		cmd, err := c.readLine("\nField number ('q' to finish)> ")
		if err != nil {
			return err
		}
		if cmd == "q" {
			return nil
		}

		n, err := strconv.Atoi(cmd)
		if err != nil || n < 0 || n >= len(models.EditableFields) {
			continue
		}
		field := models.EditableFields[n]

		value, err := c.readLine(field.Label + "> ")
		if err != nil {
			return err
		}
		if value == "" {
			c.out.println(colorRed, "Empty input, QSO not changed.")
			continue
		}

		if err := c.session.Edit(idx, field.Key, value); err != nil {
			logger.Error.Printf("Edit of QSO %d failed: %v", idx, err)
			c.out.printf(colorRed, "Error: %v\n", err)
		}
	}
}

func fieldValue(q *models.QSO, key string) string {
	switch key {
	case "timestamp":
		return q.Time().Format("2006-01-02 15:04")
	case "tx_report":
		return q.TxReport
	case "tx_serial":
		return q.TxSerial
	case "rx_report":
		return q.RxReport
	case "rx_serial":
		return q.RxSerial
	case "rx_callsign":
		return q.RxCallsign
	case "rx_locator":
		return q.RxLocator
	case "rx_multiplier_code":
		return q.RxMultiplierCode
	default:
		return ""
	}
}

// ensureClass asks for the contest class until a valid one is chosen.
func (c *Console) ensureClass() error {
	for c.session.Log.Class == "" {
		c.out.println(colorYellow, "Contest class not set!")
		fmt.Fprintln(c.out.w, "Classes:")
		fmt.Fprintln(c.out.w)
		for _, class := range models.Classes {
			fmt.Fprintf(c.out.w, "%s = %s\n", class.Code, class.Description)
		}
		fmt.Fprintln(c.out.w)

		input, err := c.readLine("Choose the class: ")
		if err != nil {
			return err
		}
		if err := c.session.SetClass(input); err != nil {
			c.out.printf(colorRed, "%v\n", err)
		}
	}
	return nil
}

func (c *Console) handleClass(ctx context.Context) error {
	if class, ok := c.session.Class(); ok {
		c.out.printf(colorGreen, "Contest class is %s (%s).\n", class.Code, class.Description)
		return nil
	}
	return c.ensureClass()
}

func (c *Console) exportTo(suffix string, write func(io.Writer) error) error {
	filename := c.session.Path + suffix
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(filename)
		if errors.Is(err, models.ErrEmptyLog) {
			c.out.println(colorYellow, "No QSOs in log.")
			return nil
		}
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}

	c.out.printf(colorGreen, "Exported to: %s\n", filename)
	return nil
}

func (c *Console) handleADIF(ctx context.Context) error {
	return c.exportTo(".adi", func(w io.Writer) error {
		return export.WriteADIF(w, c.session.Operator, c.session.Log)
	})
}

func (c *Console) handleCabrillo(ctx context.Context) error {
	if err := c.ensureClass(); err != nil {
		return err
	}
	return c.exportTo(".cabrillo", func(w io.Writer) error {
		return export.WriteCabrillo(w, c.session.Operator, c.session.Log)
	})
}

func (c *Console) handleSummary(ctx context.Context) error {
	if err := c.ensureClass(); err != nil {
		return err
	}
	ev := c.session.Evaluate()
	now := c.session.Clock().Now()
	return c.exportTo(".txt", func(w io.Writer) error {
		return export.WriteSummary(w, c.contestName, c.session.Operator, c.session.Log, ev, now)
	})
}

func (c *Console) handleArchive(ctx context.Context) error {
	if err := c.ensureClass(); err != nil {
		return err
	}

	sub, err := c.backend.ArchiveLog()
	if errors.Is(err, models.ErrEmptyLog) {
		c.out.println(colorYellow, "No QSOs in log.")
		return nil
	}
	if errors.Is(err, app.ErrArchiveNotConfigured) {
		c.out.println(colorYellow, "No archive configured, set [archive] dsn.")
		return nil
	}
	if err != nil {
		return err
	}
	c.out.printf(colorGreen, "Archived %d QSOs, score %d.\n", sub.QSOCount, sub.Score)
	if sub.Receipt != "" {
		c.out.printf(colorDefault, "Receipt: %s\n", sub.Receipt)
	}

	standings, err := c.backend.Standings(sub.Class)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out.w, "\nStandings class %s:\n\n", sub.Class)
	for i, s := range standings {
		line := fmt.Sprintf("%3d. %-13s %-6s %5d QSOs %8d points", i+1, s.Call, s.DOK, s.QSOCount, s.Score)
		if s.Call == sub.Call {
			line = c.out.paint(colorCyan, line)
		}
		fmt.Fprintln(c.out.w, line)
	}
	return nil
}

func (c *Console) handlePublish(ctx context.Context) error {
	if err := c.ensureClass(); err != nil {
		return err
	}

	standing, err := c.backend.PublishScore(ctx)
	if errors.Is(err, scoreboard.ErrDisabled) {
		c.out.println(colorYellow, "Scoreboard is disabled, set [scoreboard] enabled.")
		return nil
	}
	if err != nil {
		return err
	}
	c.out.printf(colorGreen, "Published score %d (%d QSOs) for class %s.\n", standing.Score, standing.QSOs, standing.Class)
	return nil
}
