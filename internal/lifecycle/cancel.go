package lifecycle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// cancelApplier 把原排班的状态置为 cancelled，其余字段不变
type cancelApplier struct{}

func (cancelApplier) apply(ctx context.Context, req *domain.ShiftRequest, schedules ScheduleStore) (*MutationResult, error) {
	if req.OriginalScheduleID == 0 {
		return nil, invalid("取消申请必须指定原排班ID")
	}

	original, err := schedules.GetScheduleEntry(ctx, req.OriginalScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("原排班不存在")
		}
		return nil, err
	}

	if err := schedules.UpdateScheduleStatus(ctx, original.ID, domain.ScheduleStatusCancelled); err != nil {
		return nil, err
	}

	original.Status = domain.ScheduleStatusCancelled

	return &MutationResult{OriginalSchedule: original}, nil
}
