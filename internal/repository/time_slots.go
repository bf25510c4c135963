package repository

import (
	"context"
	"database/sql"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

const timeSlotColumns = `id, name, start_time, end_time, required_people, is_active, created_at, version`

func timeSlotDst(t *domain.TimeSlot) []any {
	return []any{
		&t.ID,
		&t.Name,
		&t.StartTime,
		&t.EndTime,
		&t.RequiredPeople,
		&t.IsActive,
		&t.CreatedAt,
		&t.Version,
	}
}

func (r *Repository) GetTimeSlotByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE id = $1`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	slot := &domain.TimeSlot{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(timeSlotDst(slot)...); err != nil {
		return nil, err
	}

	return slot, nil
}

func (r *Repository) GetAllTimeSlots(ctx context.Context, onlyActive bool) ([]*domain.TimeSlot, error) {
	query := `SELECT ` + timeSlotColumns + ` FROM time_slots`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY start_time ASC`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot := &domain.TimeSlot{}
		if err := rows.Scan(timeSlotDst(slot)...); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *Repository) CreateTimeSlot(ctx context.Context, slot *domain.TimeSlot) error {
	query := `
		INSERT INTO time_slots (name, start_time, end_time, required_people, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{slot.Name, slot.StartTime, slot.EndTime, slot.RequiredPeople, slot.IsActive}
	dst := []any{&slot.ID, &slot.CreatedAt, &slot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateTimeSlot(ctx context.Context, slot *domain.TimeSlot) error {
	query := `
		UPDATE time_slots
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			required_people = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{slot.Name, slot.StartTime, slot.EndTime, slot.RequiredPeople, slot.IsActive, slot.ID, slot.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&slot.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTimeSlot(ctx context.Context, id int64) error {
	query := `DELETE FROM time_slots WHERE id = $1`

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
