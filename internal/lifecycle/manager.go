package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// Manager 负责班次申请的状态机：创建、审批、拒绝、撤销与软删除。
// 审批分两个阶段：事务阶段（申请终结 + 排班变更，一起提交或一起回滚）
// 和提交后的通知阶段（尽力而为，失败只记录日志）
type Manager struct {
	store    Store
	calendar WorkdayCalendar
	notifier Notifier
}

func NewManager(store Store, calendar WorkdayCalendar, notifier Notifier) *Manager {
	return &Manager{
		store:    store,
		calendar: calendar,
		notifier: notifier,
	}
}

type CreateInput struct {
	RequesterID        int64
	Type               domain.ShiftRequestType
	OriginalScheduleID int64
	TargetEmployeeID   *int64
	TargetTimeSlotID   *int64
	TargetDate         *domain.Date
	Reason             string
}

func (m *Manager) Create(ctx context.Context, in CreateInput) (*domain.ShiftRequest, error) {
	if _, err := applierFor(in.Type); err != nil {
		return nil, err
	}

	// 原排班必须存在且属于申请人
	schedule, err := m.store.GetScheduleEntry(ctx, in.OriginalScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("指定的排班不存在")
		}
		return nil, err
	}
	if schedule.EmployeeID != in.RequesterID {
		return nil, forbidden("指定的排班不属于申请人")
	}

	if in.TargetDate != nil && !m.calendar.IsWorkDay(*in.TargetDate) {
		return nil, invalid("目标日期不是工作日")
	}

	req := &domain.ShiftRequest{
		RequesterID:        in.RequesterID,
		Type:               in.Type,
		OriginalScheduleID: in.OriginalScheduleID,
		TargetEmployeeID:   in.TargetEmployeeID,
		TargetTimeSlotID:   in.TargetTimeSlotID,
		TargetDate:         in.TargetDate,
		Reason:             in.Reason,
		Status:             domain.ShiftRequestStatusPending,
	}

	if err := m.store.CreateShiftRequest(ctx, req); err != nil {
		return nil, err
	}

	m.notifier.ShiftRequestCreated(ctx, req)

	return req, nil
}

type UpdateInput struct {
	Type             *domain.ShiftRequestType
	TargetEmployeeID *int64
	TargetTimeSlotID *int64
	TargetDate       *domain.Date
	Reason           *string
}

// Update 修改一条还未被处理的申请
func (m *Manager) Update(ctx context.Context, requestID int64, in UpdateInput) (*domain.ShiftRequest, error) {
	req, err := m.store.GetShiftRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("班次请求不存在")
		}
		return nil, err
	}

	if req.Status != domain.ShiftRequestStatusPending {
		return nil, conflict("只有待审核的请求可以修改")
	}

	if in.Type != nil {
		if _, err := applierFor(*in.Type); err != nil {
			return nil, err
		}
		req.Type = *in.Type
	}
	if in.TargetEmployeeID != nil {
		req.TargetEmployeeID = in.TargetEmployeeID
	}
	if in.TargetTimeSlotID != nil {
		req.TargetTimeSlotID = in.TargetTimeSlotID
	}
	if in.TargetDate != nil {
		if !m.calendar.IsWorkDay(*in.TargetDate) {
			return nil, invalid("目标日期不是工作日")
		}
		req.TargetDate = in.TargetDate
	}
	if in.Reason != nil {
		req.Reason = *in.Reason
	}

	if err := m.store.UpdateShiftRequest(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// Approve 在一个事务内将申请置为 approved 并执行对应的排班变更。
// 处理器的任何失败都会使整个事务回滚，申请保持 pending 不变
func (m *Manager) Approve(ctx context.Context, requestID int64, approverID int64, note string) (*domain.ShiftRequest, *MutationResult, error) {
	var (
		req    *domain.ShiftRequest
		result *MutationResult
	)

	err := m.store.WithinTransaction(ctx, func(tx TxStore) error {
		r, err := tx.GetShiftRequestForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("班次请求不存在")
			}
			return err
		}

		if r.Status != domain.ShiftRequestStatusPending {
			return conflict("该请求已被处理")
		}

		now := time.Now()
		r.Status = domain.ShiftRequestStatusApproved
		r.ApprovedBy = &approverID
		r.ApprovedAt = &now
		r.ApprovalNotes = note

		if err := tx.FinalizeShiftRequest(ctx, r); err != nil {
			return err
		}

		a, err := applierFor(r.Type)
		if err != nil {
			return err
		}

		res, err := a.apply(ctx, r, tx)
		if err != nil {
			return err
		}

		req = r
		result = res
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// 事务已提交，之后的通知失败不再影响审批结果
	m.notifier.ShiftRequestApproved(ctx, req, result)

	return req, result, nil
}

func (m *Manager) Reject(ctx context.Context, requestID int64, approverID int64, note string) (*domain.ShiftRequest, error) {
	var req *domain.ShiftRequest

	err := m.store.WithinTransaction(ctx, func(tx TxStore) error {
		r, err := tx.GetShiftRequestForUpdate(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return notFound("班次请求不存在")
			}
			return err
		}

		if r.Status != domain.ShiftRequestStatusPending {
			return conflict("该请求已被处理")
		}

		now := time.Now()
		r.Status = domain.ShiftRequestStatusRejected
		r.ApprovedBy = &approverID
		r.ApprovedAt = &now
		r.ApprovalNotes = note

		if err := tx.FinalizeShiftRequest(ctx, r); err != nil {
			return err
		}

		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.notifier.ShiftRequestRejected(ctx, req)

	return req, nil
}

// Cancel 由申请人撤销自己的待审核申请
func (m *Manager) Cancel(ctx context.Context, requestID int64, requesterID int64) (*domain.ShiftRequest, error) {
	req, err := m.store.GetShiftRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("班次请求不存在")
		}
		return nil, err
	}

	if req.RequesterID != requesterID {
		return nil, forbidden("只能撤销自己的请求")
	}
	if req.Status != domain.ShiftRequestStatusPending {
		return nil, conflict("只有待审核的请求可以撤销")
	}

	req.Status = domain.ShiftRequestStatusCancelled
	if err := m.store.UpdateShiftRequest(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// SoftDelete 标记删除一条申请，任何状态下都允许
func (m *Manager) SoftDelete(ctx context.Context, requestID int64) (*domain.ShiftRequest, error) {
	req, err := m.store.GetShiftRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("班次请求不存在")
		}
		return nil, err
	}

	if err := m.store.SoftDeleteShiftRequest(ctx, requestID); err != nil {
		return nil, err
	}

	return req, nil
}
