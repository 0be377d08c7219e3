package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/metrics"
	"github.com/nahcon/mealtrack/internal/models"
)

// ErrMissingActor is returned when an audit append is dropped because no
// actor could be resolved. Dropping is non-fatal to the calling operation.
var ErrMissingActor = errors.New("audit entry dropped: no actor")

// Actor is the identity snapshot written into every audit entry. It is
// always supplied explicitly at the call site; there is no ambient
// session fallback.
type Actor struct {
	ID    uint
	Email string
	Role  string
}

// Empty reports whether the actor is unresolvable.
func (a Actor) Empty() bool { return a.Email == "" }

// AuditFilter narrows a List call. Zero values leave a dimension open.
// The time range is inclusive on both ends.
type AuditFilter struct {
	Search   string
	Category models.Category
	From     time.Time
	To       time.Time
}

// AuditService owns the append-only audit log.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends one entry with a fresh ULID and the current timestamp.
// An empty actor drops the append with a warning and ErrMissingActor.
func (s *AuditService) Record(actor Actor, action string, category models.Category, details, ip string) error {
	if actor.Empty() {
		logger.WithFields(map[string]interface{}{
			"action":   action,
			"category": category,
		}).Warn("no actor for audit entry, dropping")
		metrics.IncAuditDropped()
		return ErrMissingActor
	}

	entry := models.AuditEntry{
		ID:         ulid.Make().String(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		Action:     action,
		Category:   category,
		Details:    details,
		IPAddress:  ip,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	metrics.IncAuditEntry()
	return nil
}

// List returns entries newest-first. ULIDs sort lexically by creation
// time, so ordering by id descending preserves insertion order without a
// timestamp tiebreak.
func (s *AuditService) List(f AuditFilter) ([]models.AuditEntry, error) {
	q := s.db.Model(&models.AuditEntry{})

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(action) LIKE ? OR LOWER(actor_email) LIKE ? OR LOWER(details) LIKE ?", like, like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at <= ?", f.To)
	}

	var entries []models.AuditEntry
	if err := q.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}

// Count returns the total number of entries.
func (s *AuditService) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.AuditEntry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return n, nil
}

// WriteCSV streams entries in the export column order. encoding/csv
// applies standard quoting, so embedded quotes in Details are doubled.
func WriteCSV(w io.Writer, entries []models.AuditEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "User", "Role", "Action", "Category", "Details"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.ActorEmail,
			e.ActorRole,
			e.Action,
			string(e.Category),
			e.Details,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename returns the dated export filename, e.g.
// audit-log-2026-08-31.csv.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("audit-log-%s.csv", now.UTC().Format("2006-01-02"))
}
