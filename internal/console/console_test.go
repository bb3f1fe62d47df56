package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/qsolog/internal/app"
	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoreboard"
	"github.com/shrimpsizemoose/qsolog/internal/store/logfile"
)

const operatorTOML = `
[operator]
call = "DL5TKL"
locator = "JN59MO"
dok = "B25"
name = "Test Operator"
address = "Hauptstr. 1"
qth = "90402 Nuernberg"
`

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ArchiveLog() (*models.Submission, error) {
	args := m.Called()
	sub, _ := args.Get(0).(*models.Submission)
	return sub, args.Error(1)
}

func (m *mockBackend) Standings(class string) ([]models.Submission, error) {
	args := m.Called(class)
	subs, _ := args.Get(0).([]models.Submission)
	return subs, args.Error(1)
}

func (m *mockBackend) PublishScore(ctx context.Context) (scoreboard.Standing, error) {
	args := m.Called(ctx)
	return args.Get(0).(scoreboard.Standing), args.Error(1)
}

func newSession(t *testing.T, extra string) *app.Session {
	t.Helper()
	config, err := app.ParseConfig([]byte(operatorTOML + extra))
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s, err := app.OpenSession(config, filepath.Join(t.TempDir(), "contest.log"), logfile.New(), clock)
	require.NoError(t, err)
	return s
}

func run(t *testing.T, s *app.Session, backend Backend, input string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(s, backend, "Test Contest", strings.NewReader(input), &out, false)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestConsole_LogAndList(t *testing.T) {
	s := newSession(t, "")
	out := run(t, s, &mockBackend{}, "DL1AA 59004 JN58QR B01\nl\nq\n")

	assert.Contains(t, out, "<<< 59 001 B25 JN59MO")
	assert.Contains(t, out, "<<< 59 002 B25 JN59MO")
	assert.Contains(t, out, "   0 2024-05-01 12:00  59     DL1AA        59     B01     JN58QR     100.2 ")
	require.Equal(t, 1, s.Log.Len())

	reloaded, err := logfile.New().Load(s.Path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Len())
}

func TestConsole_Unrecognized(t *testing.T) {
	s := newSession(t, "")
	out := run(t, s, &mockBackend{}, "z\n\nq\n")
	assert.Equal(t, 2, strings.Count(out, "Input not recognized."))
	assert.Equal(t, 0, s.Log.Len())
}

func TestConsole_Help(t *testing.T) {
	out := run(t, newSession(t, ""), &mockBackend{}, "h\n")
	assert.Contains(t, out, "x - archive the log to the club database")
}

func TestConsole_EmptyLogMessages(t *testing.T) {
	out := run(t, newSession(t, ""), &mockBackend{}, "l\nw\ne\na\n")
	assert.Equal(t, 4, strings.Count(out, "No QSOs in log."))
}

func TestConsole_Ambiguity(t *testing.T) {
	s := newSession(t, "")
	out := run(t, s, &mockBackend{}, "59001 DL12AB JN59MO\n")
	assert.Contains(t, out, "WARNING: DL12AB looks like a locator and was not used as the callsign.")
	require.Equal(t, 1, s.Log.Len())
	assert.Empty(t, s.Log.QSOs[0].RxCallsign)
}

func TestConsole_EditLast(t *testing.T) {
	s := newSession(t, "")
	// field 5 is rx_callsign, field 6 rx_locator
	out := run(t, s, &mockBackend{}, "DL1AA 59004\ne\n5\ndl9zz\n6\n\n6\nXX\n6\njn58qr\nq\nq\n")

	assert.Contains(t, out, "Original input: DL1AA 59004")
	assert.Contains(t, out, "Empty input, QSO not changed.")
	assert.Contains(t, out, "Error: invalid value for rx_locator")

	q := s.Log.QSOs[0]
	assert.Equal(t, "DL9ZZ", q.RxCallsign)
	assert.Equal(t, "JN58QR", q.RxLocator)
	require.NotNil(t, q.Stats)
}

func TestConsole_EditByNumber(t *testing.T) {
	s := newSession(t, "")
	out := run(t, s, &mockBackend{}, "DL1AA 59004\nDL2BB 59005\nb\n7\nb\n\nb\n0\n1\n55\nq\n")

	assert.Contains(t, out, "QSO index out of range")
	assert.Contains(t, out, "Empty input, cancelled.")
	assert.Equal(t, "55", s.Log.QSOs[0].TxReport)
	assert.Equal(t, "59", s.Log.QSOs[1].TxReport)
}

func TestConsole_Evaluation(t *testing.T) {
	s := newSession(t, "")
	out := run(t, s, &mockBackend{}, "DL1AA 59004 JN58QR B01\nDL3CC 59002 KP20LE\nw\n")

	assert.Contains(t, out, "Total score = multipliers x points = 3 x 1568 = 4704")
	assert.Contains(t, out, "QSOs with >300 points or >1000 points should be checked for errors!")
}

func TestConsole_FailedExportRemovesFile(t *testing.T) {
	s := newSession(t, "")
	var out bytes.Buffer
	c := New(s, &mockBackend{}, "Test Contest", strings.NewReader(""), &out, false)

	errDiskFull := errors.New("disk full")
	err := c.exportTo(".adi", func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial export")
		return errDiskFull
	})
	assert.ErrorIs(t, err, errDiskFull)

	_, err = os.Stat(s.Path + ".adi")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotContains(t, out.String(), "Exported to")
}

func TestConsole_ClassAndExports(t *testing.T) {
	s := newSession(t, "")
	out := run(t, s, &mockBackend{}, "DL1AA 59004 JN58QR B01\nc\nZ\nk\na\ns\nk\n")

	assert.Contains(t, out, "Contest class not set!")
	assert.Contains(t, out, "K = 2m SSB")
	assert.Contains(t, out, "unknown contest class")
	assert.Contains(t, out, "Contest class is K (2m SSB).")
	assert.Equal(t, "K", s.Log.Class)

	for _, suffix := range []string{".cabrillo", ".adi", ".txt"} {
		assert.Contains(t, out, "Exported to: "+s.Path+suffix)
		data, err := os.ReadFile(s.Path + suffix)
		require.NoError(t, err)
		assert.Contains(t, string(data), "DL1AA")
	}
}

func TestConsole_Archive(t *testing.T) {
	s := newSession(t, "[contest]\nclass = \"K\"\n")
	backend := &mockBackend{}
	backend.On("ArchiveLog").Return(&models.Submission{
		Receipt: "9f4c1a52-0b7e-4d2a-8c61-3e5f2b7a9d10", Call: "DL5TKL", Class: "K", QSOCount: 1, Score: 200,
	}, nil)
	backend.On("Standings", "K").Return([]models.Submission{
		{Call: "DL1AA", DOK: "B01", QSOCount: 12, Score: 3400},
		{Call: "DL5TKL", DOK: "B25", QSOCount: 1, Score: 200},
	}, nil)

	out := run(t, s, backend, "DL1AA 59004 JN58QR B01\nx\n")

	assert.Contains(t, out, "Archived 1 QSOs, score 200.")
	assert.Contains(t, out, "Receipt: 9f4c1a52-0b7e-4d2a-8c61-3e5f2b7a9d10")
	assert.Contains(t, out, "  1. DL1AA         B01       12 QSOs     3400 points")
	assert.Contains(t, out, "  2. DL5TKL        B25        1 QSOs      200 points")
	backend.AssertExpectations(t)
}

func TestConsole_ArchiveNotConfigured(t *testing.T) {
	s := newSession(t, "[contest]\nclass = \"K\"\n")
	backend := &mockBackend{}
	backend.On("ArchiveLog").Return(nil, app.ErrArchiveNotConfigured)

	out := run(t, s, backend, "x\n")
	assert.Contains(t, out, "No archive configured")
	backend.AssertNotCalled(t, "Standings", mock.Anything)
}

func TestConsole_Publish(t *testing.T) {
	s := newSession(t, "[contest]\nclass = \"L\"\n")
	backend := &mockBackend{}
	backend.On("PublishScore", mock.Anything).Return(scoreboard.Standing{Class: "L", QSOs: 3, Score: 900}, nil).Once()
	backend.On("PublishScore", mock.Anything).Return(scoreboard.Standing{}, scoreboard.ErrDisabled).Once()

	out := run(t, s, backend, "p\np\n")
	assert.Contains(t, out, "Published score 900 (3 QSOs) for class L.")
	assert.Contains(t, out, "Scoreboard is disabled")
	backend.AssertExpectations(t)
}

func TestConsole_Colors(t *testing.T) {
	s := newSession(t, "")
	var out bytes.Buffer
	c := New(s, &mockBackend{}, "Test Contest", strings.NewReader("z\n"), &out, true)
	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), string(colorRed)+"Input not recognized.\n"+string(colorDefault))
}
