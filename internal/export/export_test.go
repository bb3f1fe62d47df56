package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoring"
)

var operator = models.Operator{
	Call:    "DL5TKL",
	Locator: "JN59MO",
	DOK:     "B25",
	Name:    "Test Operator",
	Address: "Hauptstr. 1",
	QTH:     "90402 Nuernberg",
}

func testLog(class string) *models.Log {
	log := &models.Log{
		Class: class,
		QSOs: []*models.QSO{
			{Timestamp: 1714564800, TxReport: "59", TxSerial: "001", RxReport: "57", RxSerial: "004",
				RxCallsign: "DL1AA", RxLocator: "JN58QR", RxMultiplierCode: "B01"},
			{Timestamp: 1714565100, TxReport: "59", TxSerial: "002", RxCallsign: "DL2BB"},
		},
	}
	for _, q := range log.QSOs {
		_ = q.UpdateStats(operator.Locator)
	}
	return log
}

func TestWriteADIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteADIF(&buf, operator, testLog("K")))

	want := "Generated for DL5TKL in B25 - Loc: JN59MO\n\n" +
		"<adif_ver:5>3.0.9\n" +
		"<programid:13>qsolog v0.3.0\n" +
		"<EOH>\n\n" +
		"<QSO_DATE:8>20240501\n<TIME_ON:4>1200\n<CALL:5>DL1AA\n<RST_SENT:2>59\n<RST_RCVD:2>57\n" +
		"<DARC_DOK:3>B01\n<GRIDSQUARE:6>JN58QR\n<SRX:3>004\n<STX:3>001\n<BAND:2>2M\n<MODE:3>SSB\n<EOR>\n\n" +
		"<QSO_DATE:8>20240501\n<TIME_ON:4>1205\n<CALL:5>DL2BB\n<RST_SENT:2>59\n" +
		"<STX:3>002\n<BAND:2>2M\n<MODE:3>SSB\n<EOR>\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteADIF_NoClass(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteADIF(&buf, operator, testLog("")))
	assert.NotContains(t, buf.String(), "<BAND")
	assert.Contains(t, buf.String(), "<MODE:3>SSB")
}

func TestWriteCabrillo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCabrillo(&buf, operator, testLog("F")))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"START-OF-LOG: 3.0",
		"CREATED-BY: qsolog v0.3.0",
		"CALLSIGN: DL5TKL",
		"CATEGORY-BAND: 10M",
		"CATEGORY-MODE: SSB",
		"GRID-LOCATOR: JN59MO",
		"NAME: Test Operator",
		"ADDRESS: Hauptstr. 1",
		"ADDRESS: 90402 Nuernberg",
		"QSO: 28000 PH 2024-05-01 1200 DL5TKL        59  B25    JN59MO DL1AA         57  B01    JN58QR",
		"QSO: 28000 PH 2024-05-01 1205 DL5TKL        59  B25    JN59MO DL2BB         59  -      -     ",
		"END-OF-LOG:",
	}, lines)
}

func TestWriteCabrillo_Errors(t *testing.T) {
	tests := []struct {
		name    string
		log     *models.Log
		wantErr error
	}{
		{"empty log", &models.Log{Class: "K"}, models.ErrEmptyLog},
		{"no class", testLog(""), ErrNoClass},
		{"unknown class", testLog("Q"), models.ErrUnknownClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.ErrorIs(t, WriteCabrillo(&buf, operator, tt.log), tt.wantErr)
		})
	}
}

func TestWriteSummary(t *testing.T) {
	log := testLog("K")
	ev := scoring.NewEvaluator(nil, 0, 0).Evaluate(log.QSOs, operator.DOK)

	var buf bytes.Buffer
	err := WriteSummary(&buf, "Aktivitaetswettbewerb Franken", operator, log, ev, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Aktivitaetswettbewerb Franken")
	assert.Contains(t, out, "Class: K (2m SSB)")
	assert.Contains(t, out, "Final score:  100 points x 2 multipliers = 200 points")
	assert.Contains(t, out, "Date: 02.05.2024")
	assert.Contains(t, out, "This log was created with qsolog v0.3.0.")
	assert.Contains(t, out, "        1 240501 1200 DL1AA    2M   SSB    59  001/B25/JN59MO  57  004/B01/JN58QR    x     x      100")
	assert.Contains(t, out, "        2 240501 1205 DL2BB    2M   SSB    59  002/B25/JN59MO  59     //                            0")
}

func TestWriteSummary_Errors(t *testing.T) {
	var buf bytes.Buffer
	ev := scoring.Evaluation{}
	assert.ErrorIs(t, WriteSummary(&buf, "c", operator, &models.Log{Class: "K"}, ev, time.Now()), models.ErrEmptyLog)
	assert.ErrorIs(t, WriteSummary(&buf, "c", operator, testLog(""), ev, time.Now()), ErrNoClass)
}
