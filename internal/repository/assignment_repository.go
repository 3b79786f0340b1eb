package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkpad/internal/domain"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

const assignmentColumns = `id, case_id, staff_id, assigned_at, assigned_by, created_at, updated_at`

// AssignmentRepository handles the staff-to-case join table.
type AssignmentRepository interface {
	Insert(ctx context.Context, assignment *domain.CaseStaffAssignment) (int64, error)
	Update(ctx context.Context, id string, cols []ColumnUpdate, changedBy *string) (int64, *domain.CaseStaffAssignment, error)
	Delete(ctx context.Context, id string) (int64, error)
	List(ctx context.Context) ([]domain.CaseStaffAssignment, error)
	ListByCase(ctx context.Context, caseID string) ([]domain.CaseStaffAssignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Insert(ctx context.Context, assignment *domain.CaseStaffAssignment) (int64, error) {
	return inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		return insertAssignmentTx(ctx, tx, assignment)
	})
}

func (r *assignmentRepository) Update(ctx context.Context, id string, cols []ColumnUpdate, changedBy *string) (int64, *domain.CaseStaffAssignment, error) {
	var updated domain.CaseStaffAssignment
	txid, err := inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		before, err := lockRow(ctx, tx, syncstream.TableAssignments, id)
		if err != nil {
			return err
		}
		query, args := buildUpdate(syncstream.TableAssignments, cols, id, assignmentColumns)
		if err := scanAssignment(tx.QueryRow(ctx, query, args...), &updated); err != nil {
			return err
		}
		return auditUpdate(ctx, tx, syncstream.TableAssignments, id, changedBy, before, cols)
	})
	if err != nil {
		return 0, nil, err
	}
	return txid, &updated, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	return inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		cmd, err := tx.Exec(ctx, `DELETE FROM maintenance_case_staff WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *assignmentRepository) List(ctx context.Context) ([]domain.CaseStaffAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM maintenance_case_staff ORDER BY assigned_at`)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

func (r *assignmentRepository) ListByCase(ctx context.Context, caseID string) ([]domain.CaseStaffAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM maintenance_case_staff WHERE case_id=$1 ORDER BY assigned_at`, caseID)
	if err != nil {
		return nil, err
	}
	return collectAssignments(rows)
}

// insertAssignmentTx inserts within the caller's transaction so case writes
// can reconcile the join table atomically with the case row.
func insertAssignmentTx(ctx context.Context, tx pgx.Tx, assignment *domain.CaseStaffAssignment) error {
	const query = `
        INSERT INTO maintenance_case_staff (id, case_id, staff_id, assigned_at, assigned_by, created_at, updated_at)
        VALUES ($1,$2,$3,COALESCE($4, NOW()),$5,COALESCE($6, NOW()),COALESCE($7, NOW()))
        RETURNING assigned_at, created_at, updated_at`

	return tx.QueryRow(ctx, query,
		assignment.ID,
		assignment.CaseID,
		assignment.StaffID,
		nullableTime(assignment.AssignedAt),
		assignment.AssignedBy,
		nullableTime(assignment.CreatedAt),
		nullableTime(assignment.UpdatedAt),
	).Scan(&assignment.AssignedAt, &assignment.CreatedAt, &assignment.UpdatedAt)
}

func collectAssignments(rows pgx.Rows) ([]domain.CaseStaffAssignment, error) {
	defer rows.Close()

	var result []domain.CaseStaffAssignment
	for rows.Next() {
		var assignment domain.CaseStaffAssignment
		if err := scanAssignment(rows, &assignment); err != nil {
			return nil, err
		}
		result = append(result, assignment)
	}
	return result, rows.Err()
}

func scanAssignment(row pgx.Row, assignment *domain.CaseStaffAssignment) error {
	return row.Scan(
		&assignment.ID,
		&assignment.CaseID,
		&assignment.StaffID,
		&assignment.AssignedAt,
		&assignment.AssignedBy,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
