package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

// ArchivedQSO is a QSO row of an archived submission together with the
// evaluation it received.
type ArchivedQSO struct {
	SubmissionID     int64   `db:"submission_id" json:"submission_id"`
	Position         int     `db:"position" json:"position"`
	Timestamp        int64   `db:"timestamp" json:"timestamp"`
	TxReport         string  `db:"tx_report" json:"tx_report"`
	TxSerial         string  `db:"tx_serial" json:"tx_serial"`
	RxReport         string  `db:"rx_report" json:"rx_report"`
	RxSerial         string  `db:"rx_serial" json:"rx_serial"`
	RxCallsign       string  `db:"rx_callsign" json:"rx_callsign"`
	RxLocator        string  `db:"rx_locator" json:"rx_locator"`
	RxMultiplierCode string  `db:"rx_multiplier_code" json:"rx_multiplier_code"`
	DistanceKM       float64 `db:"distance_km" json:"distance_km"`
	Points           int     `db:"points" json:"points"`
	NewMultiplier    bool    `db:"new_multiplier" json:"new_multiplier"`
	NewField         bool    `db:"new_field" json:"new_field"`
}
