package models

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrIndexOutOfRange = errors.New("QSO index out of range")
	ErrEmptyLog        = errors.New("no QSOs in log")
)

// Log is the ordered list of QSOs of one contest session.
type Log struct {
	// Class is the contest class code, empty until chosen.
	Class string
	QSOs  []*QSO
}

func (l *Log) Len() int {
	return len(l.QSOs)
}

// Add appends q and returns its index.
func (l *Log) Add(q *QSO) int {
	l.QSOs = append(l.QSOs, q)
	return len(l.QSOs) - 1
}

func (l *Log) At(i int) (*QSO, error) {
	if i < 0 || i >= len(l.QSOs) {
		return nil, fmt.Errorf("%w: %d (log has %d QSOs)", ErrIndexOutOfRange, i, len(l.QSOs))
	}
	return l.QSOs[i], nil
}

func (l *Log) Last() (*QSO, error) {
	if len(l.QSOs) == 0 {
		return nil, ErrEmptyLog
	}
	return l.QSOs[len(l.QSOs)-1], nil
}

// Edit changes one field of the QSO at index i and re-derives its stats.
func (l *Log) Edit(i int, key, value, ownLocator string) error {
	q, err := l.At(i)
	if err != nil {
		return err
	}

	next := *q
	if err := next.Set(key, value); err != nil {
		return err
	}
	if err := next.UpdateStats(ownLocator); err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}
	*q = next
	return nil
}

// RefreshStats recomputes the stats of every QSO.
func (l *Log) RefreshStats(ownLocator string) error {
	var errs []error
	for i, q := range l.QSOs {
		if err := q.UpdateStats(ownLocator); err != nil {
			errs = append(errs, fmt.Errorf("QSO %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// NextSerial returns the serial number to send in the next QSO.
func (l *Log) NextSerial() int {
	highest := 0
	for _, q := range l.QSOs {
		if n, err := strconv.Atoi(q.TxSerial); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}
