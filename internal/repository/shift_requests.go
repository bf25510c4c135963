package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

const shiftRequestColumns = `
	id, requester_id, request_type, original_schedule_id, target_employee_id,
	target_time_slot_id, target_date, reason, status, approved_by, approved_at,
	approval_notes, created_at, updated_at, version
`

func scanShiftRequest(row *sql.Row) (*domain.ShiftRequest, error) {
	req := &domain.ShiftRequest{}
	if err := row.Scan(shiftRequestDst(req)...); err != nil {
		return nil, err
	}
	return req, nil
}

func shiftRequestDst(req *domain.ShiftRequest) []any {
	return []any{
		&req.ID,
		&req.RequesterID,
		&req.Type,
		&req.OriginalScheduleID,
		&req.TargetEmployeeID,
		&req.TargetTimeSlotID,
		&req.TargetDate,
		&req.Reason,
		&req.Status,
		&req.ApprovedBy,
		&req.ApprovedAt,
		&req.ApprovalNotes,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.Version,
	}
}

func (r *Repository) CreateShiftRequest(ctx context.Context, req *domain.ShiftRequest) error {
	query := `
		INSERT INTO shift_requests (
			requester_id, request_type, original_schedule_id, target_employee_id,
			target_time_slot_id, target_date, reason, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		req.RequesterID,
		req.Type,
		req.OriginalScheduleID,
		req.TargetEmployeeID,
		req.TargetTimeSlotID,
		req.TargetDate,
		req.Reason,
		req.Status,
	}
	dst := []any{&req.ID, &req.CreatedAt, &req.UpdatedAt, &req.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetShiftRequest(ctx context.Context, id int64) (*domain.ShiftRequest, error) {
	query := `SELECT ` + shiftRequestColumns + ` FROM shift_requests WHERE id = $1 AND deleted_at IS NULL`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return scanShiftRequest(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) UpdateShiftRequest(ctx context.Context, req *domain.ShiftRequest) error {
	query := `
		UPDATE shift_requests
		SET
			request_type = $1,
			target_employee_id = $2,
			target_time_slot_id = $3,
			target_date = $4,
			reason = $5,
			status = $6,
			approved_by = $7,
			approved_at = $8,
			approval_notes = $9,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $10 AND version = $11 AND deleted_at IS NULL
		RETURNING updated_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{
		req.Type,
		req.TargetEmployeeID,
		req.TargetTimeSlotID,
		req.TargetDate,
		req.Reason,
		req.Status,
		req.ApprovedBy,
		req.ApprovedAt,
		req.ApprovalNotes,
		req.ID,
		req.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&req.UpdatedAt, &req.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) SoftDeleteShiftRequest(ctx context.Context, id int64) error {
	query := `
		UPDATE shift_requests
		SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL
	`

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

type ShiftRequestFilter struct {
	RequesterID *int64
	Type        domain.ShiftRequestType
	Status      domain.ShiftRequestStatus
	DateFrom    *domain.Date
	DateTo      *domain.Date
	Page        int
	Size        int
}

// ListShiftRequests 分页查询申请，附带申请人、目标员工与原排班信息
func (r *Repository) ListShiftRequests(ctx context.Context, filter ShiftRequestFilter) ([]*domain.ShiftRequest, int64, error) {
	where := "WHERE sr.deleted_at IS NULL"
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		where += fmt.Sprintf(" AND sr.requester_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND sr.request_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND sr.status = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		where += fmt.Sprintf(" AND sr.created_at >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		where += fmt.Sprintf(" AND sr.created_at < $%d::date + 1", len(args))
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var total int64
	countQuery := "SELECT COUNT(*) FROM shift_requests sr " + where
	if err := r.dbpool.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Size, (filter.Page-1)*filter.Size)
	query := fmt.Sprintf(`
		SELECT
			sr.id, sr.requester_id, sr.request_type, sr.original_schedule_id, sr.target_employee_id,
			sr.target_time_slot_id, sr.target_date, sr.reason, sr.status, sr.approved_by, sr.approved_at,
			sr.approval_notes, sr.created_at, sr.updated_at, sr.version,
			req.employee_no, req.name, req.position,
			te.name,
			s.schedule_date, s.status,
			st.name, st.start_time, st.end_time,
			tt.name, tt.start_time, tt.end_time
		FROM shift_requests sr
		JOIN employees req ON req.id = sr.requester_id
		LEFT JOIN employees te ON te.id = sr.target_employee_id
		LEFT JOIN schedules s ON s.id = sr.original_schedule_id
		LEFT JOIN time_slots st ON st.id = s.time_slot_id
		LEFT JOIN time_slots tt ON tt.id = sr.target_time_slot_id
		%s
		ORDER BY sr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]*domain.ShiftRequest, 0)
	for rows.Next() {
		req := &domain.ShiftRequest{Requester: &domain.Employee{}}
		var targetName sql.NullString
		var schedDate sql.Null[domain.Date]
		var schedStatus sql.NullString
		var origSlotName, origSlotStart, origSlotEnd sql.NullString
		var targetSlotName, targetSlotStart, targetSlotEnd sql.NullString

		dst := shiftRequestDst(req)
		dst = append(dst,
			&req.Requester.EmployeeNo,
			&req.Requester.Name,
			&req.Requester.Position,
			&targetName,
			&schedDate,
			&schedStatus,
			&origSlotName,
			&origSlotStart,
			&origSlotEnd,
			&targetSlotName,
			&targetSlotStart,
			&targetSlotEnd,
		)
		if err := rows.Scan(dst...); err != nil {
			return nil, 0, err
		}

		req.Requester.ID = req.RequesterID
		if req.TargetEmployeeID != nil && targetName.Valid {
			req.TargetEmployee = &domain.Employee{ID: *req.TargetEmployeeID, Name: targetName.String}
		}
		if schedDate.Valid {
			req.OriginalSchedule = &domain.ScheduleEntry{
				ID:           req.OriginalScheduleID,
				ScheduleDate: schedDate.V,
				Status:       domain.ScheduleStatus(schedStatus.String),
			}
			if origSlotName.Valid {
				req.OriginalSchedule.TimeSlot = &domain.TimeSlot{
					Name:      origSlotName.String,
					StartTime: origSlotStart.String,
					EndTime:   origSlotEnd.String,
				}
			}
		}
		if req.TargetTimeSlotID != nil && targetSlotName.Valid {
			req.TargetTimeSlot = &domain.TimeSlot{
				ID:        *req.TargetTimeSlotID,
				Name:      targetSlotName.String,
				StartTime: targetSlotStart.String,
				EndTime:   targetSlotEnd.String,
			}
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// GetShiftRequestDetail 查询单条申请并附带关联信息，供详情接口与邮件通知使用
func (r *Repository) GetShiftRequestDetail(ctx context.Context, id int64) (*domain.ShiftRequest, error) {
	query := `
		SELECT
			sr.id, sr.requester_id, sr.request_type, sr.original_schedule_id, sr.target_employee_id,
			sr.target_time_slot_id, sr.target_date, sr.reason, sr.status, sr.approved_by, sr.approved_at,
			sr.approval_notes, sr.created_at, sr.updated_at, sr.version,
			req.employee_no, req.name, req.email,
			te.name, te.email,
			s.schedule_date,
			st.name, st.start_time, st.end_time,
			tt.name, tt.start_time, tt.end_time
		FROM shift_requests sr
		JOIN employees req ON req.id = sr.requester_id
		LEFT JOIN employees te ON te.id = sr.target_employee_id
		LEFT JOIN schedules s ON s.id = sr.original_schedule_id
		LEFT JOIN time_slots st ON st.id = s.time_slot_id
		LEFT JOIN time_slots tt ON tt.id = sr.target_time_slot_id
		WHERE sr.id = $1 AND sr.deleted_at IS NULL
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	req := &domain.ShiftRequest{Requester: &domain.Employee{}}
	var targetName, targetEmail sql.NullString
	var schedDate sql.Null[domain.Date]
	var origSlotName, origSlotStart, origSlotEnd sql.NullString
	var targetSlotName, targetSlotStart, targetSlotEnd sql.NullString

	dst := shiftRequestDst(req)
	dst = append(dst,
		&req.Requester.EmployeeNo,
		&req.Requester.Name,
		&req.Requester.Email,
		&targetName,
		&targetEmail,
		&schedDate,
		&origSlotName,
		&origSlotStart,
		&origSlotEnd,
		&targetSlotName,
		&targetSlotStart,
		&targetSlotEnd,
	)
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	req.Requester.ID = req.RequesterID
	if req.TargetEmployeeID != nil && targetName.Valid {
		req.TargetEmployee = &domain.Employee{ID: *req.TargetEmployeeID, Name: targetName.String, Email: targetEmail.String}
	}
	if schedDate.Valid {
		req.OriginalSchedule = &domain.ScheduleEntry{ID: req.OriginalScheduleID, ScheduleDate: schedDate.V}
		if origSlotName.Valid {
			req.OriginalSchedule.TimeSlot = &domain.TimeSlot{
				Name:      origSlotName.String,
				StartTime: origSlotStart.String,
				EndTime:   origSlotEnd.String,
			}
		}
	}
	if req.TargetTimeSlotID != nil && targetSlotName.Valid {
		req.TargetTimeSlot = &domain.TimeSlot{
			ID:        *req.TargetTimeSlotID,
			Name:      targetSlotName.String,
			StartTime: targetSlotStart.String,
			EndTime:   targetSlotEnd.String,
		}
	}

	return req, nil
}

// GetShiftRequestStats 按状态统计申请数量，requesterID 为 nil 时统计全部
func (r *Repository) GetShiftRequestStats(ctx context.Context, requesterID *int64) (*domain.ShiftRequestStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*)
		FROM shift_requests
		WHERE deleted_at IS NULL AND ($1::bigint IS NULL OR requester_id = $1)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	stats := &domain.ShiftRequestStats{}
	dst := []any{&stats.Pending, &stats.Approved, &stats.Rejected, &stats.Cancelled, &stats.Total}
	if err := r.dbpool.QueryRowContext(ctx, query, requesterID).Scan(dst...); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetShiftRequestForUpdate 在事务内锁定一条申请，阻止并发审批
func (t *txRepository) GetShiftRequestForUpdate(ctx context.Context, id int64) (*domain.ShiftRequest, error) {
	query := `SELECT ` + shiftRequestColumns + ` FROM shift_requests WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return scanShiftRequest(t.tx.QueryRowContext(ctx, query, id))
}

func (t *txRepository) FinalizeShiftRequest(ctx context.Context, req *domain.ShiftRequest) error {
	query := `
		UPDATE shift_requests
		SET
			status = $1,
			approved_by = $2,
			approved_at = $3,
			approval_notes = $4,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $5
		RETURNING updated_at, version
	`

	args := []any{req.Status, req.ApprovedBy, req.ApprovedAt, req.ApprovalNotes, req.ID}
	return t.tx.QueryRowContext(ctx, query, args...).Scan(&req.UpdatedAt, &req.Version)
}
