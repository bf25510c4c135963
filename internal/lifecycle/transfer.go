package lifecycle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// transferApplier 把原排班移动到目标日期和/或时间段，员工不变。
// 没有提供任何目标字段的申请是合法的空操作
type transferApplier struct{}

func (transferApplier) apply(ctx context.Context, req *domain.ShiftRequest, schedules ScheduleStore) (*MutationResult, error) {
	if req.OriginalScheduleID == 0 {
		return nil, invalid("调班申请必须指定原排班ID")
	}

	original, err := schedules.GetScheduleEntry(ctx, req.OriginalScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("原排班不存在")
		}
		return nil, err
	}

	if req.TargetDate == nil && req.TargetTimeSlotID == nil {
		return &MutationResult{OriginalSchedule: original}, nil
	}

	// 检查该员工在目标时间段是否已有其他排班
	date, slotID := resolveTarget(req, original)
	conflicting, err := schedules.FindActiveScheduleExcluding(ctx, original.EmployeeID, date, slotID, original.ID)
	if err != nil {
		return nil, err
	}
	if conflicting != nil {
		return nil, conflict("目标时间段已有排班冲突")
	}

	if err := schedules.MoveSchedule(ctx, original.ID, date, slotID); err != nil {
		return nil, err
	}

	original.ScheduleDate = date
	original.TimeSlotID = slotID

	return &MutationResult{OriginalSchedule: original}, nil
}
