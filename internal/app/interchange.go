package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/agentdesk/internal/adapters/interchange"
	eventqueue "github.com/okian/agentdesk/internal/adapters/mq/queue"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/pkg/logger"
)

// Import outcomes recorded in metrics.
const (
	outcomeApplied  = "applied"
	outcomePartial  = "partial"
	outcomeRejected = "rejected"
)

// ExportCSV renders every record of kind as CSV. An empty collection
// renders as "".
func (s *Service) ExportCSV(kind model.Kind) (string, error) {
	c, err := s.collection(kind)
	if err != nil {
		return "", err
	}
	return c.exportCSV(), nil
}

// ImportCSV normalizes every row of text and prepends the records to kind
// in file order. It returns the number of records added.
func (s *Service) ImportCSV(ctx context.Context, kind model.Kind, text string) (int, error) {
	c, err := s.collection(kind)
	if err != nil {
		return 0, err
	}
	rows := interchange.FromCSV(text)
	n := c.prependRows(ctx, rows)
	s.metrics.RecordImport(string(kind), string(model.FormatCSV), outcomeApplied, n)
	s.logger.Info(ctx, "csv import applied", logger.String("collection", string(kind)), logger.Int("rows", n))
	return n, nil
}

// ExportJSON renders the four collections and the branding as one
// indented backup document.
func (s *Service) ExportJSON() (string, error) {
	return interchange.ToJSON(interchange.Backup{
		Players:    s.players.All(),
		Clubs:      s.clubs.All(),
		Friendlies: s.friendlies.All(),
		Contracts:  s.contracts.All(),
		Branding:   s.Branding(),
	})
}

// ImportReport lists which backup fields were applied and which were
// present but unusable.
type ImportReport struct {
	Applied []string `json:"applied"`
	Skipped []string `json:"skipped"`
}

// ImportJSON restores a backup document. Text that is not JSON fails with an
// interchange.FormatError and changes nothing. Otherwise each field that is
// present and well-formed replaces its collection (or the branding) and the
// others are left as they are.
func (s *Service) ImportJSON(ctx context.Context, text string) (ImportReport, error) {
	backup, skipped, err := interchange.ParseBackup(text)
	if err != nil {
		s.metrics.RecordImport("all", string(model.FormatJSON), outcomeRejected, 0)
		return ImportReport{}, err
	}

	report := ImportReport{Applied: []string{}, Skipped: skipped}
	if report.Skipped == nil {
		report.Skipped = []string{}
	}
	rows := 0
	if backup.Players != nil {
		rows += len(s.players.ReplaceAll(ctx, backup.Players))
		report.Applied = append(report.Applied, string(model.KindPlayers))
	}
	if backup.Clubs != nil {
		rows += len(s.clubs.ReplaceAll(ctx, backup.Clubs))
		report.Applied = append(report.Applied, string(model.KindClubs))
	}
	if backup.Friendlies != nil {
		rows += len(s.friendlies.ReplaceAll(ctx, backup.Friendlies))
		report.Applied = append(report.Applied, string(model.KindFriendlies))
	}
	if backup.Contracts != nil {
		rows += len(s.contracts.ReplaceAll(ctx, backup.Contracts))
		report.Applied = append(report.Applied, string(model.KindContracts))
	}
	if backup.Branding != nil {
		s.branding.Set(ctx, backup.Branding)
		report.Applied = append(report.Applied, "branding")
	}

	outcome := outcomeApplied
	if len(report.Skipped) > 0 {
		outcome = outcomePartial
	}
	s.metrics.RecordImport("all", string(model.FormatJSON), outcome, rows)
	s.logger.Info(ctx, "json import applied",
		logger.Any("applied", report.Applied),
		logger.Any("skipped", report.Skipped),
		logger.Int("rows", rows),
	)
	return report, nil
}

// EnqueueImport queues a whole-file import for the background workers and
// returns the job with its assigned id.
func (s *Service) EnqueueImport(ctx context.Context, job model.ImportJob) (model.ImportJob, error) {
	switch job.Format {
	case model.FormatCSV:
		if _, err := s.collection(job.Kind); err != nil {
			return job, fmt.Errorf("%w: %w", ErrInvalidJob, err)
		}
	case model.FormatJSON:
	default:
		return job, fmt.Errorf("%w: format %q", ErrInvalidJob, job.Format)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return job, ErrNotStarted
	}

	job.ID = uuid.NewString()
	job.SubmittedAt = time.Now().UTC()
	if err := s.importQueue.Enqueue(ctx, job); err != nil {
		if errors.Is(err, eventqueue.ErrFull) {
			return job, ErrQueueFull
		}
		return job, fmt.Errorf("enqueue import: %w", err)
	}
	s.logger.Debug(ctx, "import job queued",
		logger.String("job_id", job.ID),
		logger.String("format", string(job.Format)),
		logger.String("kind", string(job.Kind)),
	)
	return job, nil
}

// ApplyImport applies one queued job against the current state. Jobs are
// applied independently, so of two imports into the same collection the
// one applied last wins.
func (s *Service) ApplyImport(ctx context.Context, job model.ImportJob) (int, error) { //nolint:gocritic // hugeParam: matches the worker contract
	switch job.Format {
	case model.FormatCSV:
		return s.ImportCSV(ctx, job.Kind, job.Payload)
	case model.FormatJSON:
		report, err := s.ImportJSON(ctx, job.Payload)
		if err != nil {
			return 0, err
		}
		return len(report.Applied), nil
	}
	return 0, fmt.Errorf("%w: format %q", ErrInvalidJob, job.Format)
}
