package lifecycle

import (
	"context"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// ScheduleStore 是申请处理器在一次审批事务中对排班表的全部操作。
// GetScheduleEntry 在记录不存在时返回 sql.ErrNoRows，
// Find 系列在没有匹配记录时返回 (nil, nil)
type ScheduleStore interface {
	GetScheduleEntry(ctx context.Context, id int64) (*domain.ScheduleEntry, error)
	FindActiveSchedule(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64) (*domain.ScheduleEntry, error)
	FindActiveScheduleExcluding(ctx context.Context, employeeID int64, date domain.Date, timeSlotID int64, excludeID int64) (*domain.ScheduleEntry, error)
	UpdateScheduleEmployee(ctx context.Context, scheduleID int64, employeeID int64) error
	MoveSchedule(ctx context.Context, scheduleID int64, date domain.Date, timeSlotID int64) error
	UpdateScheduleStatus(ctx context.Context, scheduleID int64, status domain.ScheduleStatus) error
}

// TxStore 聚合一次审批事务内可用的读写操作
type TxStore interface {
	ScheduleStore

	// GetShiftRequestForUpdate 以 FOR UPDATE 加载申请，
	// 申请不存在或已被软删除时返回 sql.ErrNoRows
	GetShiftRequestForUpdate(ctx context.Context, id int64) (*domain.ShiftRequest, error)
	FinalizeShiftRequest(ctx context.Context, req *domain.ShiftRequest) error
}

// Store 是生命周期管理器的持久化依赖
type Store interface {
	CreateShiftRequest(ctx context.Context, req *domain.ShiftRequest) error
	GetShiftRequest(ctx context.Context, id int64) (*domain.ShiftRequest, error)
	UpdateShiftRequest(ctx context.Context, req *domain.ShiftRequest) error
	SoftDeleteShiftRequest(ctx context.Context, id int64) error
	GetScheduleEntry(ctx context.Context, id int64) (*domain.ScheduleEntry, error)
	WithinTransaction(ctx context.Context, fn func(tx TxStore) error) error
}

// WorkdayCalendar 判断某天是否为工作日，由系统设置提供实现
type WorkdayCalendar interface {
	IsWorkDay(date domain.Date) bool
}

// Notifier 在申请创建或终结后发送通知。
// 通知是尽力而为的：实现内部记录失败，不向调用方返回错误，
// 因此永远不会影响已提交的事务
type Notifier interface {
	ShiftRequestCreated(ctx context.Context, req *domain.ShiftRequest)
	ShiftRequestApproved(ctx context.Context, req *domain.ShiftRequest, result *MutationResult)
	ShiftRequestRejected(ctx context.Context, req *domain.ShiftRequest)
}
