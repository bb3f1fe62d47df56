package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/shrimpsizemoose/qsolog/internal/models"
)

// LogStore persists the contest log of a running session.
type LogStore interface {
	Load(path string) (*models.Log, error)
	Save(path string, log *models.Log) error
}

// ArchiveStore keeps finished logs for club standings.
type ArchiveStore interface {
	Close() error
	ApplyMigrations(dir string) error

	SaveSubmission(sub *models.Submission, qsos []ArchivedQSO) (int64, error)
	ListStandings(class string) ([]models.Submission, error)
	ListArchivedQSOs(submissionID int64) ([]ArchivedQSO, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory in file name order,
// translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

// SaveSubmission stores a submission and its QSOs. A second submission of the
// same call in the same class replaces the first one.
func (s *BaseStore) SaveSubmission(sub *models.Submission, qsos []ArchivedQSO) (int64, error) {
	if err := sub.Validate(); err != nil {
		return 0, fmt.Errorf("invalid submission: %w", err)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`
		INSERT INTO submissions (receipt, callsign, dok, locator, class, qso_count, points, multipliers, fields, score, submitted_at)
		VALUES (:receipt, :callsign, :dok, :locator, :class, :qso_count, :points, :multipliers, :fields, :score, :submitted_at)
		ON CONFLICT(callsign, class) DO UPDATE SET
		receipt = excluded.receipt,
		dok = excluded.dok,
		locator = excluded.locator,
		qso_count = excluded.qso_count,
		points = excluded.points,
		multipliers = excluded.multipliers,
		fields = excluded.fields,
		score = excluded.score,
		submitted_at = excluded.submitted_at
		RETURNING id
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare submission insert: %w", err)
	}
	defer stmt.Close()

	var id int64
	if err := stmt.Get(&id, sub); err != nil {
		return 0, fmt.Errorf("failed to save submission: %w", err)
	}

	clearQuery, args, err := sq.Delete("archived_qsos").Where(sq.Eq{"submission_id": id}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := tx.Exec(s.Converter(clearQuery), args...); err != nil {
		return 0, fmt.Errorf("failed to clear archived QSOs: %w", err)
	}

	for i := range qsos {
		qsos[i].SubmissionID = id
		_, err := tx.NamedExec(`
			INSERT INTO archived_qsos (submission_id, position, timestamp, tx_report, tx_serial, rx_report, rx_serial,
				rx_callsign, rx_locator, rx_multiplier_code, distance_km, points, new_multiplier, new_field)
			VALUES (:submission_id, :position, :timestamp, :tx_report, :tx_serial, :rx_report, :rx_serial,
				:rx_callsign, :rx_locator, :rx_multiplier_code, :distance_km, :points, :new_multiplier, :new_field)
		`, qsos[i])
		if err != nil {
			return 0, fmt.Errorf("failed to archive QSO %d: %w", qsos[i].Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit submission: %w", err)
	}
	sub.ID = id
	return id, nil
}

var (
	submissionColumns = []string{
		"id", "receipt", "callsign", "dok", "locator", "class",
		"qso_count", "points", "multipliers", "fields", "score", "submitted_at",
	}
	archivedQSOColumns = []string{
		"submission_id", "position", "timestamp", "tx_report", "tx_serial", "rx_report", "rx_serial",
		"rx_callsign", "rx_locator", "rx_multiplier_code", "distance_km", "points", "new_multiplier", "new_field",
	}
)

func (s *BaseStore) ListStandings(class string) ([]models.Submission, error) {
	query, args, err := sq.Select(submissionColumns...).
		From("submissions").
		Where(sq.Eq{"class": class}).
		OrderBy("score DESC", "callsign ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var standings []models.Submission
	if err := s.DB.Select(&standings, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	return standings, nil
}

func (s *BaseStore) ListArchivedQSOs(submissionID int64) ([]ArchivedQSO, error) {
	query, args, err := sq.Select(archivedQSOColumns...).
		From("archived_qsos").
		Where(sq.Eq{"submission_id": submissionID}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var qsos []ArchivedQSO
	if err := s.DB.Select(&qsos, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list archived QSOs: %w", err)
	}
	return qsos, nil
}
