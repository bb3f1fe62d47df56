package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/qsolog/internal/geo"
)

// DefaultReport is sent and assumed received when nothing else was typed.
const DefaultReport = "59"

// QSO is one logged contact. Optional fields are empty when absent and are
// left out of the serialized form.
type QSO struct {
	Timestamp int64 `json:"timestamp" validate:"gte=0"`

	TxReport string `json:"tx_report,omitempty" validate:"omitempty,report"`
	TxSerial string `json:"tx_serial,omitempty" validate:"omitempty,serial"`

	RxReport         string `json:"rx_report,omitempty" validate:"omitempty,report"`
	RxSerial         string `json:"rx_serial,omitempty" validate:"omitempty,serial"`
	RxCallsign       string `json:"rx_callsign,omitempty" validate:"omitempty,callsign"`
	RxLocator        string `json:"rx_locator,omitempty" validate:"omitempty,locator"`
	RxMultiplierCode string `json:"rx_multiplier_code,omitempty" validate:"omitempty,alphanum"`

	// RawLine is the operator input the QSO was parsed from.
	RawLine string `json:"raw_line,omitempty"`

	Stats *Stats `json:"-"`
}

// Stats is derived from the received and the own locator.
type Stats struct {
	DistanceKM     float64
	MultiplierCode string
	Field          string
}

// Normalize upper-cases callsign, locator and multiplier code and pads serials.
func (q *QSO) Normalize() {
	q.RxCallsign = strings.ToUpper(strings.TrimSpace(q.RxCallsign))
	q.RxLocator = strings.ToUpper(strings.TrimSpace(q.RxLocator))
	q.RxMultiplierCode = strings.ToUpper(strings.TrimSpace(q.RxMultiplierCode))

	if s, err := NormalizeSerial(q.TxSerial); err == nil {
		q.TxSerial = s
	}
	if s, err := NormalizeSerial(q.RxSerial); err == nil {
		q.RxSerial = s
	}
}

func (q *QSO) Validate() error {
	return validate.Struct(q)
}

// UpdateStats recomputes Stats against the operator's own locator. Stats is
// nil when either locator is missing or malformed.
func (q *QSO) UpdateStats(ownLocator string) error {
	if ownLocator == "" || q.RxLocator == "" {
		q.Stats = nil
		return nil
	}

	distance, err := geo.DistanceKM(ownLocator, q.RxLocator)
	if err != nil {
		q.Stats = nil
		return err
	}

	q.Stats = &Stats{
		DistanceKM:     distance,
		MultiplierCode: q.RxMultiplierCode,
		Field:          geo.Field(q.RxLocator),
	}
	return nil
}

// Time returns the QSO timestamp in UTC.
func (q *QSO) Time() time.Time {
	return time.Unix(q.Timestamp, 0).UTC()
}

// EditableField names a QSO field that can be changed after logging.
type EditableField struct {
	Key   string
	Label string
}

var EditableFields = []EditableField{
	{Key: "timestamp", Label: "Timestamp"},
	{Key: "tx_report", Label: "Sent report"},
	{Key: "tx_serial", Label: "Sent serial"},
	{Key: "rx_report", Label: "Received report"},
	{Key: "rx_serial", Label: "Received serial"},
	{Key: "rx_callsign", Label: "Received callsign"},
	{Key: "rx_locator", Label: "Received locator"},
	{Key: "rx_multiplier_code", Label: "Received DOK"},
}

const editTimeLayout = "2006-01-02 15:04"

// Set changes a single field by its serialized key. The QSO is left untouched
// when the new value does not validate. Stats are not recomputed here.
func (q *QSO) Set(key, value string) error {
	next := *q
	value = strings.TrimSpace(value)

	switch key {
	case "timestamp":
		ts, err := parseTimestamp(value)
		if err != nil {
			return err
		}
		next.Timestamp = ts
	case "tx_report":
		next.TxReport = value
	case "tx_serial":
		next.TxSerial = value
	case "rx_report":
		next.RxReport = value
	case "rx_serial":
		next.RxSerial = value
	case "rx_callsign":
		next.RxCallsign = value
	case "rx_locator":
		next.RxLocator = value
	case "rx_multiplier_code":
		next.RxMultiplierCode = value
	default:
		return fmt.Errorf("unknown field %q", key)
	}

	next.Normalize()
	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	*q = next
	return nil
}

// parseTimestamp accepts epoch seconds or "YYYY-MM-DD HH:MM" in UTC.
func parseTimestamp(value string) (int64, error) {
	if ts, err := strconv.ParseInt(value, 10, 64); err == nil {
		return ts, nil
	}
	t, err := time.Parse(editTimeLayout, value)
	if err != nil {
		return 0, fmt.Errorf("timestamp must be epoch seconds or %q: %w", editTimeLayout, err)
	}
	return t.Unix(), nil
}
