// Package console is the interactive logging loop: single-letter commands,
// anything longer is a QSO.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/app"
	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoreboard"
)

const helpText = `Commands:

h - show this help
q - save and quit
e - edit the last QSO
b - edit a QSO by number
l - list QSOs
w - show the evaluation
a - export ADIF
c - export Cabrillo
s - export the claim sheet
k - set the contest class
x - archive the log to the club database
p - publish the score to the scoreboard

Any other input is read as a new QSO.
`

var errQuit = errors.New("quit")

// Backend is what the console needs beyond the session.
type Backend interface {
	ArchiveLog() (*models.Submission, error)
	Standings(class string) ([]models.Submission, error)
	PublishScore(ctx context.Context) (scoreboard.Standing, error)
}

var _ Backend = (*app.Service)(nil)

type commandHandler func(ctx context.Context) error

type Console struct {
	session     *app.Session
	backend     Backend
	contestName string

	in  *bufio.Scanner
	out painter
}

func New(session *app.Session, backend Backend, contestName string, in io.Reader, out io.Writer, colors bool) *Console {
	return &Console{
		session:     session,
		backend:     backend,
		contestName: contestName,
		in:          bufio.NewScanner(in),
		out:         painter{w: out, enabled: colors},
	}
}

func (c *Console) routeCommand(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"h": c.handleHelp,
		"q": c.handleQuit,
		"e": c.handleEditLast,
		"b": c.handleEditByNumber,
		"l": c.handleList,
		"w": c.handleEvaluation,
		"a": c.handleADIF,
		"c": c.handleCabrillo,
		"s": c.handleSummary,
		"k": c.handleClass,
		"x": c.handleArchive,
		"p": c.handlePublish,
	}
	handler, found := commands[cmd]
	return handler, found
}

// readLine prompts and reads one line. io.EOF means the input is exhausted.
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out.w, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) Banner() {
	op := c.session.Operator
	c.out.printf(colorGreen, "\nOwn info:\n\n    Call:     %s\n    Locator:  %s\n    DOK:      %s\n\nEnter 'h' for a list of commands.\n", op.Call, op.Locator, op.DOK)
	if n := c.session.Log.Len(); n > 0 {
		c.out.printf(colorBlue, "%d QSOs loaded.\n", n)
	}
}

// Run reads commands until 'q' or the end of input. The log is saved on the
// way out either way.
func (c *Console) Run(ctx context.Context) error {
	c.Banner()

	for {
		if err := ctx.Err(); err != nil {
			return c.session.Save()
		}

		op := c.session.Operator
		c.out.printf(colorMagenta, "\n<<< %s %s %s %s\n", c.session.TxReport(), c.session.NextSerial(), op.DOK, op.Locator)

		line, err := c.readLine("> ")
		if errors.Is(err, io.EOF) {
			return c.session.Save()
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := c.dispatch(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return c.session.Save()
			}
			logger.Error.Printf("Command error: %v", err)
			c.out.printf(colorRed, "Error: %v\n", err)
		}
	}
}

func (c *Console) dispatch(ctx context.Context, line string) error {
	if len(line) > 1 {
		return c.handleQSO(line)
	}
	if handler, ok := c.routeCommand(line); ok {
		return handler(ctx)
	}
	c.out.println(colorRed, "Input not recognized.")
	return nil
}

func (c *Console) handleHelp(ctx context.Context) error {
	c.out.printf(colorGreen, "%s", helpText)
	return nil
}

func (c *Console) handleQuit(ctx context.Context) error {
	if err := c.session.Save(); err != nil {
		return err
	}
	return errQuit
}

func (c *Console) handleQSO(line string) error {
	q, idx, res, err := c.session.AddFromLine(line)
	for _, a := range res.Ambiguities {
		c.out.printf(colorYellow, "WARNING: %s looks like a locator and was not used as the callsign.\n", a.Token)
	}
	if q == nil {
		return err
	}

	c.out.set(colorCyan)
	fmt.Fprintln(c.out.w)
	c.printTableHeader(true)
	c.printTableRow(idx, q, true)
	fmt.Fprintln(c.out.w)
	c.out.set(colorDefault)
	return err
}
