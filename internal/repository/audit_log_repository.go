package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkpad/internal/domain"
)

// AuditLogRepository reads the column-level change history.
type AuditLogRepository interface {
	ListByRecord(ctx context.Context, recordID string) ([]domain.AuditEntry, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) ListByRecord(ctx context.Context, recordID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, table_name, record_id, column_name, old_value, new_value, changed_by, changed_at
        FROM audit_log WHERE record_id=$1 ORDER BY changed_at, id`

	rows, err := r.pool.Query(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TableName,
			&entry.RecordID,
			&entry.ColumnName,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// insertAuditEntries writes audit rows within the caller's transaction so the
// history commits or rolls back with the change it describes.
func insertAuditEntries(ctx context.Context, tx pgx.Tx, entries []domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_log (table_name, record_id, column_name, old_value, new_value, changed_by)
        VALUES ($1,$2,$3,$4,$5,$6)`

	for _, entry := range entries {
		oldValue, err := jsonbValue(entry.OldValue)
		if err != nil {
			return err
		}
		newValue, err := jsonbValue(entry.NewValue)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query,
			entry.TableName,
			entry.RecordID,
			entry.ColumnName,
			oldValue,
			newValue,
			entry.ChangedBy,
		); err != nil {
			return err
		}
	}
	return nil
}
