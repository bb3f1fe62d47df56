package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jonboulle/clockwork"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/metrics"
	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/parser"
	"github.com/shrimpsizemoose/qsolog/internal/scoring"
	"github.com/shrimpsizemoose/qsolog/internal/store"
)

var ErrClassAlreadySet = errors.New("contest class is already set")

// Session is one operator logging into one log file. Everything a logging
// operation needs is carried here, nothing lives in package state.
type Session struct {
	Operator models.Operator
	Log      *models.Log
	Path     string

	store      store.LogStore
	evaluator  *scoring.Evaluator
	clock      clockwork.Clock
	txReport   string
	nextSerial int
}

// OpenSession loads the log at path. A missing file starts an empty log.
func OpenSession(config *Config, path string, logStore store.LogStore, clock clockwork.Clock) (*Session, error) {
	log, err := logStore.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Info.Printf("No log at %s yet, starting a new one", path)
		log = &models.Log{}
	case err != nil:
		return nil, fmt.Errorf("failed to load log: %w", err)
	default:
		logger.Info.Printf("Loaded %d QSOs from %s", log.Len(), path)
	}

	if log.Class == "" {
		log.Class = config.Contest.Class
	} else if config.Contest.Class != "" && config.Contest.Class != log.Class {
		logger.Info.Printf("Log is in class %s, ignoring configured class %s", log.Class, config.Contest.Class)
	}

	if err := log.RefreshStats(config.Operator.Locator); err != nil {
		return nil, fmt.Errorf("failed to compute QSO stats: %w", err)
	}

	return &Session{
		Operator:   config.Operator,
		Log:        log,
		Path:       path,
		store:      logStore,
		evaluator:  config.Evaluator(),
		clock:      clock,
		txReport:   config.Contest.TxReport,
		nextSerial: log.NextSerial(),
	}, nil
}

// NextSerial is the serial number the next QSO will be sent.
func (s *Session) NextSerial() string {
	return models.FormatSerial(s.nextSerial)
}

// TxReport is the report sent in every QSO.
func (s *Session) TxReport() string {
	return s.txReport
}

// AddFromLine parses an operator line into a new QSO, appends it and saves
// the log. The QSO stays in the log when only the save fails.
func (s *Session) AddFromLine(line string) (*models.QSO, int, parser.Result, error) {
	res := parser.Extract(line)
	metrics.ParseAmbiguities.Add(float64(len(res.Ambiguities)))
	for _, a := range res.Ambiguities {
		logger.Debug.Printf("Ambiguous token in %q: %s", line, a)
	}

	q := &models.QSO{
		Timestamp:        s.clock.Now().Unix(),
		TxReport:         s.txReport,
		TxSerial:         s.NextSerial(),
		RxReport:         res.Report,
		RxSerial:         res.Serial,
		RxCallsign:       res.Callsign,
		RxLocator:        res.Locator,
		RxMultiplierCode: res.MultiplierCode,
		RawLine:          line,
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, -1, res, fmt.Errorf("failed to build QSO from %q: %w", line, err)
	}
	if err := q.UpdateStats(s.Operator.Locator); err != nil {
		return nil, -1, res, fmt.Errorf("failed to compute QSO stats: %w", err)
	}

	idx := s.Log.Add(q)
	s.nextSerial++
	metrics.QSOsLogged.WithLabelValues(s.Log.Class).Inc()

	if err := s.Save(); err != nil {
		return q, idx, res, err
	}
	return q, idx, res, nil
}

// Edit changes one field of QSO i and saves the log.
func (s *Session) Edit(i int, key, value string) error {
	err := s.Log.Edit(i, key, value, s.Operator.Locator)
	metrics.QSOEdits.WithLabelValues(key, metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	// a hand-edited tx serial must not be sent twice
	if next := s.Log.NextSerial(); next > s.nextSerial {
		s.nextSerial = next
	}
	return s.Save()
}

// SetClass chooses the contest class. It can be set once per log.
func (s *Session) SetClass(code string) error {
	class, err := models.LookupClass(code)
	if err != nil {
		return err
	}
	switch s.Log.Class {
	case class.Code:
		return nil
	case "":
	default:
		return fmt.Errorf("%w: %s", ErrClassAlreadySet, s.Log.Class)
	}

	s.Log.Class = class.Code
	logger.Info.Printf("Contest class set to %s (%s)", class.Code, class.Description)
	return s.Save()
}

// Class returns the contest class of the log, if one is set.
func (s *Session) Class() (models.Class, bool) {
	if s.Log.Class == "" {
		return models.Class{}, false
	}
	class, err := models.LookupClass(s.Log.Class)
	if err != nil {
		return models.Class{}, false
	}
	return class, true
}

// Evaluator is the scoring evaluator of the session.
func (s *Session) Evaluator() *scoring.Evaluator {
	return s.evaluator
}

func (s *Session) Evaluate() scoring.Evaluation {
	ev := s.evaluator.Evaluate(s.Log.QSOs, s.Operator.DOK)
	metrics.Score.WithLabelValues(s.Operator.Call, s.Log.Class).Set(float64(ev.Score))
	return ev
}

func (s *Session) Save() error {
	err := s.store.Save(s.Path, s.Log)
	metrics.LogSaves.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.Error.Printf("Failed to save log %s: %v", s.Path, err)
		return fmt.Errorf("failed to save log: %w", err)
	}
	return nil
}

func (s *Session) Clock() clockwork.Clock {
	return s.clock
}
