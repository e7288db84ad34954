// internal/infra/database/postgres_tracking_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"seller_notification_service/internal/domain/tracking"
)

// Custom errors specific to the tracking repository
var ErrRecordNotFound = fmt.Errorf("tracking record not found")
var ErrDuplicateToken = fmt.Errorf("tracking record with this token already exists")

type PostgresTrackingRepository struct {
	db *sql.DB
}

func NewPostgresTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{db: db}
}

func (r *PostgresTrackingRepository) Create(ctx context.Context, rec *tracking.Record) error {
	query := `INSERT INTO tracking_records (token, email, seller_id, sent_at, opened_at, opened, views)
               VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		rec.Token, rec.RecipientEmail, rec.SellerID, rec.SentAt, rec.FirstOpenedAt, rec.Opened, rec.ViewCount)
	if err != nil {
		if strings.Contains(err.Error(), "tracking_records_pkey") {
			return ErrDuplicateToken
		}
		return fmt.Errorf("error creating tracking record: %w", err)
	}
	return nil
}

func (r *PostgresTrackingRepository) GetByToken(ctx context.Context, token string) (*tracking.Record, error) {
	query := `SELECT token, email, seller_id, sent_at, opened_at, opened, views
               FROM tracking_records WHERE token = $1`
	rec := tracking.Record{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rec.Token, &rec.RecipientEmail, &rec.SellerID, &rec.SentAt,
		&rec.FirstOpenedAt, &rec.Opened, &rec.ViewCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("error getting tracking record by token: %w", err)
	}
	return &rec, nil
}

// MarkOpenedIfUnopened performs the first-open transition as a conditional
// update: the WHERE clause guarantees that concurrent callback hits for the
// same token cannot both win, whatever order the database runs them in.
func (r *PostgresTrackingRepository) MarkOpenedIfUnopened(ctx context.Context, token string, openedAt time.Time) (bool, error) {
	query := `UPDATE tracking_records
               SET opened = TRUE, opened_at = $2
               WHERE token = $1 AND opened = FALSE`
	res, err := r.db.ExecContext(ctx, query, token, openedAt)
	if err != nil {
		return false, fmt.Errorf("error marking tracking record opened: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected for first-open update: %w", err)
	}
	return affected == 1, nil
}

func (r *PostgresTrackingRepository) IncrementViews(ctx context.Context, token string) error {
	query := `UPDATE tracking_records SET views = views + 1 WHERE token = $1 AND opened = TRUE`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("error incrementing views for tracking record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for view increment: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresTrackingRepository) ListAll(ctx context.Context) ([]*tracking.Record, error) {
	query := `SELECT token, email, seller_id, sent_at, opened_at, opened, views
               FROM tracking_records ORDER BY sent_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying tracking records: %w", err)
	}
	defer rows.Close()
	return scanTrackingRecords(rows)
}

func (r *PostgresTrackingRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracking_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting tracking records: %w", err)
	}
	return count, nil
}

// Helper to scan multiple rows
func scanTrackingRecords(rows *sql.Rows) ([]*tracking.Record, error) {
	records := make([]*tracking.Record, 0)
	for rows.Next() {
		rec := tracking.Record{}
		if err := rows.Scan(
			&rec.Token, &rec.RecipientEmail, &rec.SellerID, &rec.SentAt,
			&rec.FirstOpenedAt, &rec.Opened, &rec.ViewCount,
		); err != nil {
			return nil, fmt.Errorf("error scanning tracking record row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracking record rows: %w", err)
	}
	return records, nil
}
