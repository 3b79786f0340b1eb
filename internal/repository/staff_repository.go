package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/checkpad/internal/domain"
	syncstream "github.com/spec-kit/checkpad/internal/sync"
)

const staffColumns = `id, first_name, last_name, email, phone, birthday, hourly_rate,
        vacation_days_total, vacation_days_used, sick_days_used, is_active, created_at, updated_at`

// StaffRepository handles staff persistence. Every mutation runs in one
// transaction and returns that transaction's identifier.
type StaffRepository interface {
	Insert(ctx context.Context, staff *domain.Staff) (int64, error)
	Update(ctx context.Context, id string, cols []ColumnUpdate, changedBy *string) (int64, *domain.Staff, error)
	Delete(ctx context.Context, id string) (int64, []domain.CaseStaffAssignment, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) Insert(ctx context.Context, staff *domain.Staff) (int64, error) {
	const query = `
        INSERT INTO staff (id, first_name, last_name, email, phone, birthday, hourly_rate,
            vacation_days_total, vacation_days_used, sick_days_used, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`

	return inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		return tx.QueryRow(ctx, query,
			staff.ID,
			staff.FirstName,
			staff.LastName,
			staff.Email,
			staff.Phone,
			staff.Birthday,
			staff.HourlyRate,
			staff.VacationDaysTotal,
			staff.VacationDaysUsed,
			staff.SickDaysUsed,
			staff.IsActive,
			staff.CreatedAt,
			staff.UpdatedAt,
		).Scan(&staff.CreatedAt, &staff.UpdatedAt)
	})
}

func (r *staffRepository) Update(ctx context.Context, id string, cols []ColumnUpdate, changedBy *string) (int64, *domain.Staff, error) {
	var updated domain.Staff
	txid, err := inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		before, err := lockRow(ctx, tx, syncstream.TableStaff, id)
		if err != nil {
			return err
		}

		query, args := buildUpdate(syncstream.TableStaff, cols, id, staffColumns)
		if err := scanStaff(tx.QueryRow(ctx, query, args...), &updated); err != nil {
			return err
		}

		return auditUpdate(ctx, tx, syncstream.TableStaff, id, changedBy, before, cols)
	})
	if err != nil {
		return 0, nil, err
	}
	return txid, &updated, nil
}

// Delete removes the staff member; their assignments cascade. The cascaded
// assignments are collected first so they can be published on the change
// stream.
func (r *staffRepository) Delete(ctx context.Context, id string) (int64, []domain.CaseStaffAssignment, error) {
	var cascaded []domain.CaseStaffAssignment
	txid, err := inTx(ctx, r.pool, func(tx pgx.Tx, _ int64) error {
		rows, err := tx.Query(ctx,
			`SELECT `+assignmentColumns+` FROM maintenance_case_staff WHERE staff_id=$1`, id)
		if err != nil {
			return err
		}
		if cascaded, err = collectAssignments(rows); err != nil {
			return err
		}

		cmd, err := tx.Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
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

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	var staff domain.Staff
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	if err := scanStaff(r.pool.QueryRow(ctx, query, id), &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY last_name, first_name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Staff
	for rows.Next() {
		var staff domain.Staff
		if err := scanStaff(rows, &staff); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func scanStaff(row pgx.Row, staff *domain.Staff) error {
	return row.Scan(
		&staff.ID,
		&staff.FirstName,
		&staff.LastName,
		&staff.Email,
		&staff.Phone,
		&staff.Birthday,
		&staff.HourlyRate,
		&staff.VacationDaysTotal,
		&staff.VacationDaysUsed,
		&staff.SickDaysUsed,
		&staff.IsActive,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
}
