package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

const employeeColumns = `
	id, employee_no, name, email, password_hash, phone, position, role, status,
	hire_date, max_shifts_per_week, max_shifts_per_day, created_at, version
`

func employeeDst(e *domain.Employee) []any {
	return []any{
		&e.ID,
		&e.EmployeeNo,
		&e.Name,
		&e.Email,
		&e.PasswordHash,
		&e.Phone,
		&e.Position,
		&e.Role,
		&e.Status,
		&e.HireDate,
		&e.MaxShiftsPerWeek,
		&e.MaxShiftsPerDay,
		&e.CreatedAt,
		&e.Version,
	}
}

func (r *Repository) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	employee := &domain.Employee{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(employeeDst(employee)...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) GetEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	employee := &domain.Employee{}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(employeeDst(employee)...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		INSERT INTO employees (
			employee_no, name, email, password_hash, phone, position, role, status,
			hire_date, max_shifts_per_week, max_shifts_per_day
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		employee.EmployeeNo,
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.Phone,
		employee.Position,
		employee.Role,
		employee.Status,
		employee.HireDate,
		employee.MaxShiftsPerWeek,
		employee.MaxShiftsPerDay,
	}
	dst := []any{&employee.ID, &employee.CreatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			name = $1,
			email = $2,
			password_hash = $3,
			phone = $4,
			position = $5,
			role = $6,
			status = $7,
			hire_date = $8,
			max_shifts_per_week = $9,
			max_shifts_per_day = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		employee.Name,
		employee.Email,
		employee.PasswordHash,
		employee.Phone,
		employee.Position,
		employee.Role,
		employee.Status,
		employee.HireDate,
		employee.MaxShiftsPerWeek,
		employee.MaxShiftsPerDay,
		employee.ID,
		employee.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	query := `DELETE FROM employees WHERE id = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

type EmployeeFilter struct {
	Keyword string
	Role    domain.Role
	Status  domain.EmployeeStatus
	Page    int
	Size    int
}

func (r *Repository) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]*domain.Employee, int64, error) {
	where := "WHERE 1=1"
	args := []any{}

	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR employee_no ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var total int64
	countQuery := "SELECT COUNT(*) FROM employees " + where
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Size, (filter.Page-1)*filter.Size)
	query := fmt.Sprintf(`
		SELECT %s FROM employees
		%s
		ORDER BY employee_no ASC
		LIMIT $%d OFFSET $%d
	`, employeeColumns, where, len(args)-1, len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		if err := rows.Scan(employeeDst(employee)...); err != nil {
			return nil, 0, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// GetAdminEmails 返回所有在职管理员的邮箱，用于新申请的站内通知
func (r *Repository) GetAdminEmails(ctx context.Context) ([]string, error) {
	query := `SELECT email FROM employees WHERE role = 'admin' AND status = 'active'`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return emails, nil
}

func (r *Repository) CheckEmployeeEmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1)`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	exists := false
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
