package lifecycle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// swapApplier 交换两条排班记录的员工，日期和时间段保持在原来的记录上。
// 目标员工等于申请人时按自换班正常执行，不做特殊处理
type swapApplier struct{}

func (swapApplier) apply(ctx context.Context, req *domain.ShiftRequest, schedules ScheduleStore) (*MutationResult, error) {
	if req.OriginalScheduleID == 0 || req.TargetEmployeeID == nil {
		return nil, invalid("换班申请必须指定原排班ID和目标员工ID")
	}

	original, err := schedules.GetScheduleEntry(ctx, req.OriginalScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("原排班不存在")
		}
		return nil, err
	}

	// 查找目标员工在目标时间段的有效排班
	date, slotID := resolveTarget(req, original)
	target, err := schedules.FindActiveSchedule(ctx, *req.TargetEmployeeID, date, slotID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, conflict("目标员工在指定时间段没有排班")
	}

	// 交换两条排班的员工
	if err := schedules.UpdateScheduleEmployee(ctx, original.ID, target.EmployeeID); err != nil {
		return nil, err
	}
	if err := schedules.UpdateScheduleEmployee(ctx, target.ID, original.EmployeeID); err != nil {
		return nil, err
	}

	originalEmployeeID := original.EmployeeID
	original.EmployeeID = target.EmployeeID
	target.EmployeeID = originalEmployeeID

	return &MutationResult{OriginalSchedule: original, TargetSchedule: target}, nil
}
