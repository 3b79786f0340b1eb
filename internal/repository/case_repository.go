package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkpad/internal/domain"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

const caseColumns = `id, name, estimated_hours, estimated_costs, planned_start, planned_end,
        offer_created_by, offer_created_at, offer_accepted_at,
        invoice_created_by, invoice_created_at, invoice_paid_at, created_at, updated_at`

// CaseWriteResult reports what a case update changed, for change-stream
// publication after commit.
type CaseWriteResult struct {
	Case    *domain.MaintenanceCase
	Added   []domain.CaseStaffAssignment
	Removed []domain.CaseStaffAssignment
}

// CaseRepository handles maintenance case persistence. Writes that carry a
// staff id set reconcile the assignment join table in the same transaction.
type CaseRepository interface {
	Insert(ctx context.Context, mc *domain.MaintenanceCase, assignments []domain.CaseStaffAssignment) (int64, error)
	Update(ctx context.Context, id string, cols []ColumnUpdate, staffIDs *[]string, assignedBy string, changedBy *string) (int64, *CaseWriteResult, error)
	Delete(ctx context.Context, id string) (int64, []domain.CaseStaffAssignment, error)
	GetByID(ctx context.Context, id string) (*domain.MaintenanceCase, error)
	List(ctx context.Context) ([]domain.MaintenanceCase, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates the repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

func (r *caseRepository) Insert(ctx context.Context, mc *domain.MaintenanceCase, assignments []domain.CaseStaffAssignment) (int64, error) {
	const query = `
        INSERT INTO maintenance_cases (id, name, estimated_hours, estimated_costs, planned_start, planned_end,
            offer_created_by, offer_created_at, offer_accepted_at,
            invoice_created_by, invoice_created_at, invoice_paid_at, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING created_at, updated_at`

	return inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		if err := tx.QueryRow(ctx, query,
			mc.ID,
			mc.Name,
			mc.EstimatedHours,
			mc.EstimatedCosts,
			mc.PlannedStart,
			mc.PlannedEnd,
			mc.OfferCreatedBy,
			mc.OfferCreatedAt,
			mc.OfferAcceptedAt,
			mc.InvoiceCreatedBy,
			mc.InvoiceCreatedAt,
			mc.InvoicePaidAt,
			mc.CreatedAt,
			mc.UpdatedAt,
		).Scan(&mc.CreatedAt, &mc.UpdatedAt); err != nil {
			return err
		}

		for i := range assignments {
			if err := insertAssignmentTx(ctx, tx, &assignments[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *caseRepository) Update(ctx context.Context, id string, cols []ColumnUpdate, staffIDs *[]string, assignedBy string, changedBy *string) (int64, *CaseWriteResult, error) {
	result := &CaseWriteResult{Case: &domain.MaintenanceCase{}}

	txid, err := inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		before, err := lockRow(ctx, tx, syncstream.TableCases, id)
		if err != nil {
			return err
		}

		query, args := buildUpdate(syncstream.TableCases, cols, id, caseColumns)
		if err := scanCase(tx.QueryRow(ctx, query, args...), result.Case); err != nil {
			return err
		}
		if err := auditUpdate(ctx, tx, syncstream.TableCases, id, changedBy, before, cols); err != nil {
			return err
		}

		if staffIDs == nil {
			return nil
		}
		added, removed, err := reconcileAssignments(ctx, tx, id, *staffIDs, assignedBy)
		if err != nil {
			return err
		}
		result.Added, result.Removed = added, removed
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return txid, result, nil
}

// Delete removes the case; the join table cascades. The cascaded assignments
// are collected first so they can be published on the change stream.
func (r *caseRepository) Delete(ctx context.Context, id string) (int64, []domain.CaseStaffAssignment, error) {
	var cascaded []domain.CaseStaffAssignment
	txid, err := inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		rows, err := tx.Query(ctx,
			`SELECT `+assignmentColumns+` FROM maintenance_case_staff WHERE case_id=$1`, id)
		if err != nil {
			return err
		}
		if cascaded, err = collectAssignments(rows); err != nil {
			return err
		}

		cmd, err := tx.Exec(ctx, `DELETE FROM maintenance_cases WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return txid, cascaded, nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceCase, error) {
	var mc domain.MaintenanceCase
	query := `SELECT ` + caseColumns + ` FROM maintenance_cases WHERE id=$1`
	if err := scanCase(r.pool.QueryRow(ctx, query, id), &mc); err != nil {
		return nil, err
	}
	return &mc, nil
}

func (r *caseRepository) List(ctx context.Context) ([]domain.MaintenanceCase, error) {
	query := `SELECT ` + caseColumns + ` FROM maintenance_cases ORDER BY planned_start`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MaintenanceCase
	for rows.Next() {
		var mc domain.MaintenanceCase
		if err := scanCase(rows, &mc); err != nil {
			return nil, err
		}
		result = append(result, mc)
	}
	return result, rows.Err()
}

// reconcileAssignments diffs the stored staff set for the case against the
// desired set, deleting removed pairs and inserting added pairs.
func reconcileAssignments(ctx context.Context, tx pgx.Tx, caseID string, desired []string, assignedBy string) (added, removed []domain.CaseStaffAssignment, err error) {
	rows, err := tx.Query(ctx,
		`SELECT `+assignmentColumns+` FROM maintenance_case_staff WHERE case_id=$1 ORDER BY assigned_at`, caseID)
	if err != nil {
		return nil, nil, err
	}
	current, err := collectAssignments(rows)
	if err != nil {
		return nil, nil, err
	}

	currentIDs := make([]string, 0, len(current))
	byStaffID := make(map[string]domain.CaseStaffAssignment, len(current))
	for _, assignment := range current {
		currentIDs = append(currentIDs, assignment.StaffID)
		byStaffID[assignment.StaffID] = assignment
	}

	toAdd, toRemove := domain.DiffStaffIDs(currentIDs, desired)

	for _, staffID := range toRemove {
		assignment := byStaffID[staffID]
		if _, err := tx.Exec(ctx,
			`DELETE FROM maintenance_case_staff WHERE case_id=$1 AND staff_id=$2`, caseID, staffID); err != nil {
			return nil, nil, err
		}
		removed = append(removed, assignment)
	}

	for _, staffID := range toAdd {
		assignment := domain.CaseStaffAssignment{
			ID:         uuid.NewString(),
			CaseID:     caseID,
			StaffID:    staffID,
			AssignedBy: assignedBy,
		}
		if err := insertAssignmentTx(ctx, tx, &assignment); err != nil {
			return nil, nil, err
		}
		added = append(added, assignment)
	}
	return added, removed, nil
}

func scanCase(row pgx.Row, mc *domain.MaintenanceCase) error {
	return row.Scan(
		&mc.ID,
		&mc.Name,
		&mc.EstimatedHours,
		&mc.EstimatedCosts,
		&mc.PlannedStart,
		&mc.PlannedEnd,
		&mc.OfferCreatedBy,
		&mc.OfferCreatedAt,
		&mc.OfferAcceptedAt,
		&mc.InvoiceCreatedBy,
		&mc.InvoiceCreatedAt,
		&mc.InvoicePaidAt,
		&mc.CreatedAt,
		&mc.UpdatedAt,
	)
}
