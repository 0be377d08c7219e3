package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nahcon/mealtrack/internal/logger"
)

// ExportService writes scheduled CSV snapshots of the audit log to disk.
type ExportService struct {
	audit *AuditService
	dir   string
	spec  string
	cron  *cron.Cron
}

func NewExportService(audit *AuditService, dir, spec string) *ExportService {
	return &ExportService{audit: audit, dir: dir, spec: spec}
}

// Start schedules the export job. The schedule spec follows cron syntax,
// e.g. "@midnight".
func (s *ExportService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(time.Now()); err != nil {
			logger.Log().WithError(err).Error("scheduled audit export failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule audit export: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule. Safe to call when Start never ran.
func (s *ExportService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce writes the full audit log to the dated export file and returns
// its path.
func (s *ExportService) RunOnce(now time.Time) (string, error) {
	entries, err := s.audit.List(AuditFilter{})
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, ExportFilename(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, entries); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"path":    path,
		"entries": len(entries),
	}).Info("audit log exported")
	return path, nil
}
