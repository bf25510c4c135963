package lifecycle

import (
	"context"
	"fmt"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// MutationResult 描述一次审批对排班表造成的变更
type MutationResult struct {
	OriginalSchedule *domain.ScheduleEntry `json:"originalSchedule"`
	TargetSchedule   *domain.ScheduleEntry `json:"targetSchedule,omitempty"`
}

// applier 把一条已进入 approved 状态的申请应用到排班表上。
// 三种申请类型各对应一个实现，由 applierFor 按类型标签选择
type applier interface {
	apply(ctx context.Context, req *domain.ShiftRequest, schedules ScheduleStore) (*MutationResult, error)
}

func applierFor(t domain.ShiftRequestType) (applier, error) {
	switch t {
	case domain.ShiftRequestTypeSwap:
		return swapApplier{}, nil
	case domain.ShiftRequestTypeTransfer:
		return transferApplier{}, nil
	case domain.ShiftRequestTypeCancel:
		return cancelApplier{}, nil
	default:
		return nil, invalid(fmt.Sprintf("不支持的申请类型: %s", t))
	}
}

// resolveTarget 计算申请实际指向的 (日期, 时间段)，
// 未指定的部分沿用原排班的值
func resolveTarget(req *domain.ShiftRequest, original *domain.ScheduleEntry) (domain.Date, int64) {
	date := original.ScheduleDate
	if req.TargetDate != nil {
		date = *req.TargetDate
	}
	slotID := original.TimeSlotID
	if req.TargetTimeSlotID != nil {
		slotID = *req.TargetTimeSlotID
	}
	return date, slotID
}
