package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

const scheduleColumns = `
	id, employee_id, time_slot_id, schedule_date, status,
	assigned_method, ai_confidence, ai_reason, notes, created_at, updated_at, version
`

func scanScheduleEntry(row *sql.Row) (*domain.ScheduleEntry, error) {
	entry := &domain.ScheduleEntry{}
	var aiConfidence sql.NullFloat64
	var aiReason, notes sql.NullString

	dst := []any{
		&entry.ID,
		&entry.EmployeeID,
		&entry.TimeSlotID,
		&entry.ScheduleDate,
		&entry.Status,
		&entry.AssignedMethod,
		&aiConfidence,
		&aiReason,
		&notes,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if aiConfidence.Valid {
		entry.AIConfidence = &aiConfidence.Float64
	}
	entry.AIReason = aiReason.String
	entry.Notes = notes.String

	return entry, nil
}

func getScheduleEntry(ctx context.Context, q queryer, id int64) (*domain.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	return scanScheduleEntry(q.QueryRowContext(ctx, query, id))
}

func findActiveSchedule(ctx context.Context, q queryer, employeeID int64, date domain.Date, timeSlotID int64, excludeID int64) (*domain.ScheduleEntry, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE employee_id = $1
		  AND schedule_date = $2
		  AND time_slot_id = $3
		  AND status IN ('scheduled', 'confirmed')
		  AND id != $4
		LIMIT 1
	`

	entry, err := scanScheduleEntry(q.QueryRowContext(ctx, query, employeeID, date, timeSlotID, excludeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (r *Repository) GetScheduleEntry(ctx context.Context, id int64) (*domain.ScheduleEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return getScheduleEntry(ctx, r.dbpool, id)
}

func (r *Repository) FindActiveSchedule(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64) (*domain.ScheduleEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return findActiveSchedule(ctx, r.dbpool, employeeID, date, timeSlotID, 0)
}

func (r *Repository) FindActiveScheduleExcluding(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64, excludeID int64) (*domain.ScheduleEntry, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return findActiveSchedule(ctx, r.dbpool, employeeID, date, timeSlotID, excludeID)
}

func (r *Repository) CreateScheduleEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	query := `
		INSERT INTO schedules (employee_id, time_slot_id, schedule_date, status, assigned_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{entry.EmployeeID, entry.TimeSlotID, entry.ScheduleDate, entry.Status, entry.AssignedMethod, entry.Notes}
	dst := []any{&entry.ID, &entry.CreatedAt, &entry.UpdatedAt, &entry.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateScheduleEntry(ctx context.Context, entry *domain.ScheduleEntry) error {
	query := `
		UPDATE schedules
		SET
			employee_id = $1,
			time_slot_id = $2,
			schedule_date = $3,
			status = $4,
			notes = $5,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{entry.EmployeeID, entry.TimeSlotID, entry.ScheduleDate, entry.Status, entry.Notes, entry.ID, entry.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.UpdatedAt, &entry.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteScheduleEntry(ctx context.Context, id int64) error {
	query := `DELETE FROM schedules WHERE id = $1`

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

type ScheduleFilter struct {
	EmployeeID *int64
	Status     string
	DateFrom   *domain.Date
	DateTo     *domain.Date
	Page       int
	Size       int
}

// ListScheduleEntries 分页查询排班，附带员工与时间段信息
func (r *Repository) ListScheduleEntries(ctx context.Context, filter ScheduleFilter) ([]*domain.ScheduleEntry, int64, error) {
	where := "WHERE 1=1"
	args := []any{}

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND s.employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += fmt.Sprintf(" AND s.schedule_date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += fmt.Sprintf(" AND s.schedule_date <= $%d", len(args))
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var total int64
	countQuery := "SELECT COUNT(*) FROM schedules s " + where
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Size, (filter.Page-1)*filter.Size)
	query := fmt.Sprintf(`
		SELECT
			s.id, s.employee_id, s.time_slot_id, s.schedule_date, s.status,
			s.assigned_method, s.ai_confidence, s.ai_reason, s.notes, s.created_at, s.updated_at, s.version,
			e.employee_no, e.name, e.position,
			t.name, t.start_time, t.end_time
		FROM schedules s
		JOIN employees e ON e.id = s.employee_id
		JOIN time_slots t ON t.id = s.time_slot_id
		%s
		ORDER BY s.schedule_date ASC, s.time_slot_id ASC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		entry := &domain.ScheduleEntry{
			Employee: &domain.Employee{},
			TimeSlot: &domain.TimeSlot{},
		}
		var aiConfidence sql.NullFloat64
		var aiReason, notes sql.NullString

		dst := []any{
			&entry.ID,
			&entry.EmployeeID,
			&entry.TimeSlotID,
			&entry.ScheduleDate,
			&entry.Status,
			&entry.AssignedMethod,
			&aiConfidence,
			&aiReason,
			&notes,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.Version,
			&entry.Employee.EmployeeNo,
			&entry.Employee.Name,
			&entry.Employee.Position,
			&entry.TimeSlot.Name,
			&entry.TimeSlot.StartTime,
			&entry.TimeSlot.EndTime,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, 0, err
		}

		if aiConfidence.Valid {
			entry.AIConfidence = &aiConfidence.Float64
		}
		entry.AIReason = aiReason.String
		entry.Notes = notes.String
		entry.Employee.ID = entry.EmployeeID
		entry.TimeSlot.ID = entry.TimeSlotID
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListEmployeeSwappableSchedules 返回某员工从 from 起的所有可调班排班
func (r *Repository) ListEmployeeSwappableSchedules(ctx context.Context, employeeID int64, from domain.Date) ([]*domain.ScheduleEntry, error) {
	query := `
		SELECT
			s.id, s.employee_id, s.time_slot_id, s.schedule_date, s.status,
			s.assigned_method, s.ai_confidence, s.ai_reason, s.notes, s.created_at, s.updated_at, s.version,
			t.name, t.start_time, t.end_time
		FROM schedules s
		JOIN time_slots t ON t.id = s.time_slot_id
		WHERE s.employee_id = $1
		  AND s.schedule_date >= $2
		  AND s.status IN ('scheduled', 'confirmed')
		ORDER BY s.schedule_date ASC
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSwapCandidates(rows, false)
}

// ListAvailableSwaps 返回 [from, to] 窗口内其他员工的有效排班，作为可交换选项
func (r *Repository) ListAvailableSwaps(ctx context.Context, excludeEmployeeID int64, excludeScheduleID int64, from domain.Date, to domain.Date) ([]*domain.ScheduleEntry, error) {
	query := `
		SELECT
			s.id, s.employee_id, s.time_slot_id, s.schedule_date, s.status,
			s.assigned_method, s.ai_confidence, s.ai_reason, s.notes, s.created_at, s.updated_at, s.version,
			e.employee_no, e.name, e.position,
			t.name, t.start_time, t.end_time
		FROM schedules s
		JOIN employees e ON e.id = s.employee_id
		JOIN time_slots t ON t.id = s.time_slot_id
		WHERE s.schedule_date >= $1
		  AND s.schedule_date <= $2
		  AND s.employee_id != $3
		  AND s.id != $4
		  AND s.status IN ('scheduled', 'confirmed')
		ORDER BY s.schedule_date ASC, s.time_slot_id ASC
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to, excludeEmployeeID, excludeScheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSwapCandidates(rows, true)
}

func scanSwapCandidates(rows *sql.Rows, withEmployee bool) ([]*domain.ScheduleEntry, error) {
	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		entry := &domain.ScheduleEntry{
			TimeSlot: &domain.TimeSlot{},
		}
		var aiConfidence sql.NullFloat64
		var aiReason, notes sql.NullString

		dst := []any{
			&entry.ID,
			&entry.EmployeeID,
			&entry.TimeSlotID,
			&entry.ScheduleDate,
			&entry.Status,
			&entry.AssignedMethod,
			&aiConfidence,
			&aiReason,
			&notes,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.Version,
		}
		if withEmployee {
			entry.Employee = &domain.Employee{}
			dst = append(dst, &entry.Employee.EmployeeNo, &entry.Employee.Name, &entry.Employee.Position)
		}
		dst = append(dst, &entry.TimeSlot.Name, &entry.TimeSlot.StartTime, &entry.TimeSlot.EndTime)

		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if aiConfidence.Valid {
			entry.AIConfidence = &aiConfidence.Float64
		}
		entry.AIReason = aiReason.String
		entry.Notes = notes.String
		if entry.Employee != nil {
			entry.Employee.ID = entry.EmployeeID
		}
		entry.TimeSlot.ID = entry.TimeSlotID
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (t *txRepository) GetScheduleEntry(ctx context.Context, id int64) (*domain.ScheduleEntry, error) {
	return getScheduleEntry(ctx, t.tx, id)
}

func (t *txRepository) FindActiveSchedule(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64) (*domain.ScheduleEntry, error) {
	return findActiveSchedule(ctx, t.tx, employeeID, date, timeSlotID, 0)
}

func (t *txRepository) FindActiveScheduleExcluding(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64, excludeID int64) (*domain.ScheduleEntry, error) {
	return findActiveSchedule(ctx, t.tx, employeeID, date, timeSlotID, excludeID)
}

func (t *txRepository) UpdateScheduleEmployee(ctx context.Context, scheduleID int64, employeeID int64) error {
	query := `
		UPDATE schedules
		SET employee_id = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
	`
	_, err := t.tx.ExecContext(ctx, query, employeeID, scheduleID)
	return err
}

func (t *txRepository) MoveSchedule(ctx context.Context, scheduleID int64, date domain.Date, timeSlotID int64) error {
	query := `
		UPDATE schedules
		SET schedule_date = $1, time_slot_id = $2, updated_at = NOW(), version = version + 1
		WHERE id = $3
	`
	_, err := t.tx.ExecContext(ctx, query, date, timeSlotID, scheduleID)
	return err
}

func (t *txRepository) UpdateScheduleStatus(ctx context.Context, scheduleID int64, status domain.ScheduleStatus) error {
	query := `
		UPDATE schedules
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
	`
	_, err := t.tx.ExecContext(ctx, query, status, scheduleID)
	return err
}
