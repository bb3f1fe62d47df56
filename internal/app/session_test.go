package app

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/store/logfile"
)

var contestStart = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type mockLogStore struct {
	mock.Mock
}

func (m *mockLogStore) Load(path string) (*models.Log, error) {
	args := m.Called(path)
	log, _ := args.Get(0).(*models.Log)
	return log, args.Error(1)
}

func (m *mockLogStore) Save(path string, log *models.Log) error {
	args := m.Called(path, log)
	return args.Error(0)
}

func testConfig(t *testing.T, extra string) *Config {
	t.Helper()
	c, err := ParseConfig([]byte(operatorTOML + extra))
	require.NoError(t, err)
	return c
}

func openTestSession(t *testing.T, extra string) (*Session, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(contestStart)
	path := filepath.Join(t.TempDir(), "contest.log")
	s, err := OpenSession(testConfig(t, extra), path, logfile.New(), clock)
	require.NoError(t, err)
	return s, clock
}

func TestOpenSession_NewLog(t *testing.T) {
	s, _ := openTestSession(t, "")
	assert.Equal(t, 0, s.Log.Len())
	assert.Equal(t, "", s.Log.Class)
	assert.Equal(t, "001", s.NextSerial())
	assert.Equal(t, "59", s.TxReport())
}

func TestOpenSession_ConfiguredClass(t *testing.T) {
	s, _ := openTestSession(t, "[contest]\nclass = \"L\"\n")
	class, ok := s.Class()
	require.True(t, ok)
	assert.Equal(t, "L", class.Code)
}

func TestOpenSession_ResumesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contest.log")
	existing := &models.Log{
		Class: "K",
		QSOs: []*models.QSO{
			{Timestamp: 1, TxReport: "59", TxSerial: "001", RxCallsign: "DL1AA", RxLocator: "JN58QR"},
			{Timestamp: 2, TxReport: "59", TxSerial: "003", RxCallsign: "DL2BB"},
		},
	}
	require.NoError(t, logfile.New().Save(path, existing))

	s, err := OpenSession(testConfig(t, "[contest]\nclass = \"L\"\n"), path, logfile.New(), clockwork.NewFakeClock())
	require.NoError(t, err)

	assert.Equal(t, "K", s.Log.Class, "class stored in the log wins")
	assert.Equal(t, "004", s.NextSerial())
	require.NotNil(t, s.Log.QSOs[0].Stats)
	assert.InDelta(t, 100.18263940062367, s.Log.QSOs[0].Stats.DistanceKM, 1e-9)
	assert.Nil(t, s.Log.QSOs[1].Stats)
}

func TestOpenSession_LoadError(t *testing.T) {
	st := &mockLogStore{}
	st.On("Load", "contest.log").Return(nil, logfile.ErrMalformedLogLine)

	_, err := OpenSession(testConfig(t, ""), "contest.log", st, clockwork.NewFakeClock())
	assert.ErrorIs(t, err, logfile.ErrMalformedLogLine)
	st.AssertExpectations(t)
}

func TestOpenSession_MissingFileViaStore(t *testing.T) {
	st := &mockLogStore{}
	st.On("Load", "contest.log").Return(nil, fs.ErrNotExist)

	s, err := OpenSession(testConfig(t, ""), "contest.log", st, clockwork.NewFakeClock())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Log.Len())
}

func TestSession_AddFromLine(t *testing.T) {
	s, clock := openTestSession(t, "")

	q, idx, res, err := s.AddFromLine("DL1AA 59004 JN58QR B01")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Empty(t, res.Ambiguities)

	assert.Equal(t, contestStart.Unix(), q.Timestamp)
	assert.Equal(t, "59", q.TxReport)
	assert.Equal(t, "001", q.TxSerial)
	assert.Equal(t, "59", q.RxReport)
	assert.Equal(t, "004", q.RxSerial)
	assert.Equal(t, "DL1AA", q.RxCallsign)
	assert.Equal(t, "JN58QR", q.RxLocator)
	assert.Equal(t, "B01", q.RxMultiplierCode)
	assert.Equal(t, "DL1AA 59004 JN58QR B01", q.RawLine)
	require.NotNil(t, q.Stats)
	assert.Equal(t, "JN58", q.Stats.Field)

	clock.Advance(3 * time.Minute)
	q, idx, _, err = s.AddFromLine("dl2bb 5712")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "002", q.TxSerial)
	assert.Equal(t, "012", q.RxSerial)
	assert.Equal(t, contestStart.Add(3*time.Minute).Unix(), q.Timestamp)
	assert.Nil(t, q.Stats)
	assert.Equal(t, "003", s.NextSerial())

	reloaded, err := logfile.New().Load(s.Path)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len(), "every QSO is saved immediately")
}

func TestSession_AddFromLine_LongExtractedValues(t *testing.T) {
	s, _ := openTestSession(t, "")

	q, _, _, err := s.AddFromLine("DL5ABC JN59MO 59001 123456789B01")
	require.NoError(t, err)
	assert.Equal(t, "123456789B01", q.RxMultiplierCode)

	q, _, _, err = s.AddFromLine("HB9/DL5ABCDEFGH/P JN59MO 59002")
	require.NoError(t, err)
	assert.Equal(t, "HB9/DL5ABCDEFGH/P", q.RxCallsign)
	assert.Equal(t, 2, s.Log.Len())

	reloaded, err := logfile.New().Load(s.Path)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())
	assert.Equal(t, "123456789B01", reloaded.QSOs[0].RxMultiplierCode)
	assert.Equal(t, "HB9/DL5ABCDEFGH/P", reloaded.QSOs[1].RxCallsign)
}

func TestSession_AddFromLine_Ambiguity(t *testing.T) {
	s, _ := openTestSession(t, "")

	q, _, res, err := s.AddFromLine("59001 DL12AB JN59MO")
	require.NoError(t, err)
	require.Len(t, res.Ambiguities, 1)
	assert.Equal(t, "DL12AB", res.Ambiguities[0].Token)
	assert.Equal(t, "JN59MO", q.RxLocator)
	assert.Empty(t, q.RxCallsign)
}

func TestSession_AddFromLine_SaveFails(t *testing.T) {
	st := &mockLogStore{}
	st.On("Load", "contest.log").Return(&models.Log{}, nil)
	st.On("Save", "contest.log", mock.Anything).Return(errors.New("disk full"))

	s, err := OpenSession(testConfig(t, ""), "contest.log", st, clockwork.NewFakeClock())
	require.NoError(t, err)

	q, idx, _, err := s.AddFromLine("DL1AA 59004")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, q)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, s.Log.Len(), "QSO is kept in memory")
	st.AssertExpectations(t)
}

func TestSession_Edit(t *testing.T) {
	s, _ := openTestSession(t, "")
	_, _, _, err := s.AddFromLine("DL1AA 59004")
	require.NoError(t, err)

	require.NoError(t, s.Edit(0, "rx_locator", "jn58qr"))
	q := s.Log.QSOs[0]
	assert.Equal(t, "JN58QR", q.RxLocator)
	require.NotNil(t, q.Stats)

	require.NoError(t, s.Edit(0, "tx_serial", "10"))
	assert.Equal(t, "011", s.NextSerial())

	err = s.Edit(0, "rx_locator", "nowhere")
	assert.Error(t, err)
	assert.Equal(t, "JN58QR", s.Log.QSOs[0].RxLocator)

	err = s.Edit(5, "rx_callsign", "DL9ZZ")
	assert.ErrorIs(t, err, models.ErrIndexOutOfRange)

	reloaded, err := logfile.New().Load(s.Path)
	require.NoError(t, err)
	assert.Equal(t, "010", reloaded.QSOs[0].TxSerial)
}

func TestSession_SetClass(t *testing.T) {
	s, _ := openTestSession(t, "")

	_, ok := s.Class()
	assert.False(t, ok)

	assert.ErrorIs(t, s.SetClass("Z"), models.ErrUnknownClass)
	require.NoError(t, s.SetClass("k"))
	require.NoError(t, s.SetClass("K"))
	assert.ErrorIs(t, s.SetClass("L"), ErrClassAlreadySet)

	class, ok := s.Class()
	require.True(t, ok)
	assert.Equal(t, "2M", class.ADIFBand)

	reloaded, err := logfile.New().Load(s.Path)
	require.NoError(t, err)
	assert.Equal(t, "K", reloaded.Class)
}

func TestSession_Evaluate(t *testing.T) {
	s, _ := openTestSession(t, "")
	for _, line := range []string{
		"DL1AA 59004 JN58QR B01",
		"DL2BB 59010 JN58QR B25",
		"DL3CC 59002 JN59NS B01",
	} {
		_, _, _, err := s.AddFromLine(line)
		require.NoError(t, err)
	}

	ev := s.Evaluate()
	require.Len(t, ev.Rows, 3)
	assert.Equal(t, 100, ev.Rows[0].Points)
	assert.Equal(t, 0, ev.Rows[1].Points, "own DOK earns no points")
	assert.Equal(t, 19, ev.Rows[2].Points)
	assert.Equal(t, 119, ev.TotalPoints)
	assert.Equal(t, 2, ev.MultiplierCount)
	assert.Equal(t, 2, ev.FieldCount)
	assert.Equal(t, 4*119, ev.Score)
}
