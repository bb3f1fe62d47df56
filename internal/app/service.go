package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/metrics"
	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoreboard"
	"github.com/shrimpsizemoose/qsolog/internal/store"
)

type Service struct {
	Config     *Config
	Session    *Session
	Scoreboard *scoreboard.Publisher

	archive     store.ArchiveStore
	openArchive func(dsn, migrationsDir string) (store.ArchiveStore, error)
}

func NewService(ctx context.Context, config *Config, logPath string, clock clockwork.Clock) (*Service, error) {
	session, err := OpenSession(config, logPath, NewLogStore(), clock)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	publisher, err := scoreboard.NewPublisher(ctx, config.Scoreboard)
	if err != nil {
		return nil, fmt.Errorf("failed to init scoreboard: %w", err)
	}

	return &Service{
		Config:      config,
		Session:     session,
		Scoreboard:  publisher,
		openArchive: NewArchive,
	}, nil
}

// Archive returns the SQL archive, connecting on first use.
func (s *Service) Archive() (store.ArchiveStore, error) {
	if s.archive != nil {
		return s.archive, nil
	}
	archive, err := s.openArchive(s.Config.Archive.DSN, s.Config.Archive.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	s.archive = archive
	return archive, nil
}

// ArchiveLog evaluates the log and stores it as the operator's submission for
// the log's class.
func (s *Service) ArchiveLog() (*models.Submission, error) {
	if s.Session.Log.Class == "" {
		return nil, ErrClassNotSet
	}
	if s.Session.Log.Len() == 0 {
		return nil, models.ErrEmptyLog
	}

	archive, err := s.Archive()
	if err != nil {
		return nil, err
	}

	ev := s.Session.Evaluate()
	sub, qsos := NewSubmission(s.Session.Operator, s.Session.Log.Class, ev, s.Session.Clock().Now())
	if _, err := archive.SaveSubmission(sub, qsos); err != nil {
		return nil, err
	}
	for _, row := range ev.Rows {
		metrics.QSOPoints.WithLabelValues(sub.Class).Observe(float64(row.Points))
	}

	logger.Info.Printf("Archived %d QSOs of %s in class %s as submission %d", sub.QSOCount, sub.Call, sub.Class, sub.ID)
	return sub, nil
}

// Standings lists the archived submissions of a class, best first.
func (s *Service) Standings(class string) ([]models.Submission, error) {
	archive, err := s.Archive()
	if err != nil {
		return nil, err
	}
	return archive.ListStandings(class)
}

// PublishScore pushes the current evaluation to the scoreboard.
func (s *Service) PublishScore(ctx context.Context) (scoreboard.Standing, error) {
	if !s.Scoreboard.Enabled() {
		return scoreboard.Standing{}, scoreboard.ErrDisabled
	}
	if s.Session.Log.Class == "" {
		return scoreboard.Standing{}, ErrClassNotSet
	}

	standing := NewStanding(s.Session.Operator, s.Session.Log.Class, s.Session.Evaluate())
	if err := s.Scoreboard.Publish(ctx, standing, s.Session.Clock().Now()); err != nil {
		return scoreboard.Standing{}, err
	}
	return standing, nil
}

// Close releases connections and dumps metrics when a textfile is configured.
func (s *Service) Close() error {
	var errs []error

	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("archive: %w", err))
		}
	}
	if err := s.Scoreboard.Close(); err != nil {
		errs = append(errs, fmt.Errorf("scoreboard: %w", err))
	}
	if s.Config.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(s.Config.Metrics.Textfile); err != nil {
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %w", errors.Join(errs...))
	}
	return nil
}
