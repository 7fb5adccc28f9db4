package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// NotificationRecord is one alert notification delivery attempt. This is an
// audit trail of what the dispatcher sent where, not alert state.
type NotificationRecord struct {
	ID        string    `db:"id" json:"id"`
	AlertID   string    `db:"alert_id" json:"alert_id"`
	Channel   string    `db:"channel" json:"channel"`
	Severity  string    `db:"severity" json:"severity"`
	Title     string    `db:"title" json:"title"`
	Success   bool      `db:"success" json:"success"`
	Error     string    `db:"error" json:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationLogRepository persists notification delivery attempts
type NotificationLogRepository struct {
	db *sqlx.DB
}

// NewNotificationLogRepository creates a repository over the given database
func NewNotificationLogRepository(db *sqlx.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Record inserts one delivery attempt
func (r *NotificationLogRepository) Record(rec NotificationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExec(`
		INSERT INTO notification_log (id, alert_id, channel, severity, title, success, error, created_at)
		VALUES (:id, :alert_id, :channel, :severity, :title, :success, :error, :created_at)`,
		rec)
	return err
}

// Recent returns the most recent delivery attempts, newest first
func (r *NotificationLogRepository) Recent(limit int) ([]NotificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	records := []NotificationRecord{}
	err := r.db.Select(&records, `
		SELECT id, alert_id, channel, severity, title, success, error, created_at
		FROM notification_log
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	return records, err
}

// PurgeOlderThan deletes delivery records older than the cutoff and returns
// how many were removed.
func (r *NotificationLogRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM notification_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
