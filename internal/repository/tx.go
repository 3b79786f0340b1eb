package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkpad/internal/domain"
)

// ColumnUpdate is one column assignment within a partial update, keyed by the
// snake_case column name. Nil values clear nullable columns.
type ColumnUpdate struct {
	Column string
	Value  any
}

// currentTxID reads the identifier of the transaction we are inside of. The
// client uses it to recognize its own write on the change stream.
func currentTxID(ctx context.Context, tx pgx.Tx) (int64, error) {
	var txid int64
	if err := tx.QueryRow(ctx, `SELECT pg_current_xact_id()::xid::text::int`).Scan(&txid); err != nil {
		return 0, fmt.Errorf("read transaction id: %w", err)
	}
	return txid, nil
}

// inTx runs fn inside one transaction, capturing the txid first so every write
// in fn is tagged with it.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx, txid int64) error) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	txid, err := currentTxID(ctx, tx)
	if err != nil {
		return 0, err
	}
	if err := fn(tx, txid); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return txid, nil
}

// buildUpdate assembles a dynamic partial UPDATE. updated_at is always stamped
// server-side, overriding any client-supplied value.
func buildUpdate(table string, cols []ColumnUpdate, id string, returning string) (string, []any) {
	assignments := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		args = append(args, col.Value)
		assignments = append(assignments, fmt.Sprintf("%s=$%d", col.Column, len(args)))
	}
	assignments = append(assignments, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d", table, strings.Join(assignments, ", "), len(args))
	if returning != "" {
		query += " RETURNING " + returning
	}
	return query, args
}

// lockRow selects the row's current column values FOR UPDATE, keyed by column
// name, as the before-image for audit entries.
func lockRow(ctx context.Context, tx pgx.Tx, table, id string) (map[string]any, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE id=$1 FOR UPDATE", table), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}
	values, err := rows.Values()
	if err != nil {
		return nil, err
	}

	row := make(map[string]any, len(values))
	for i, field := range rows.FieldDescriptions() {
		row[string(field.Name)] = values[i]
	}
	return row, rows.Err()
}

// auditUpdate writes column-level before/after rows for an update, comparing
// the locked before-image against the applied column set.
func auditUpdate(ctx context.Context, tx pgx.Tx, table, id string, changedBy *string, before map[string]any, cols []ColumnUpdate) error {
	changes := make([]domain.ColumnChange, 0, len(cols))
	for _, col := range cols {
		changes = append(changes, domain.ColumnChange{
			Column: col.Column,
			Old:    before[col.Column],
			New:    col.Value,
		})
	}
	return insertAuditEntries(ctx, tx, domain.AuditChanges(table, id, changedBy, changes))
}

// jsonbValue marshals an audit value for a jsonb column, keeping NULL for nil.
func jsonbValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
