package domain

import "time"

type ShiftRequestType string

const (
	ShiftRequestTypeSwap     ShiftRequestType = "swap"
	ShiftRequestTypeTransfer ShiftRequestType = "transfer"
	ShiftRequestTypeCancel   ShiftRequestType = "cancel"
)

type ShiftRequestStatus string

const (
	ShiftRequestStatusPending   ShiftRequestStatus = "pending"
	ShiftRequestStatusApproved  ShiftRequestStatus = "approved"
	ShiftRequestStatusRejected  ShiftRequestStatus = "rejected"
	ShiftRequestStatusCancelled ShiftRequestStatus = "cancelled"
)

// ShiftRequest 表示员工针对自己的某条排班发起的变更申请，
// 状态机为 pending -> approved / rejected / cancelled，终态不可再变更
type ShiftRequest struct {
	ID                 int64              `json:"id"`
	RequesterID        int64              `json:"requesterID"`
	Type               ShiftRequestType   `json:"type"`
	OriginalScheduleID int64              `json:"originalScheduleID"`
	TargetEmployeeID   *int64             `json:"targetEmployeeID"`
	TargetTimeSlotID   *int64             `json:"targetTimeSlotID"`
	TargetDate         *Date              `json:"targetDate"`
	Reason             string             `json:"reason"`
	Status             ShiftRequestStatus `json:"status"`
	ApprovedBy         *int64             `json:"approvedBy"`
	ApprovedAt         *time.Time         `json:"approvedAt"`
	ApprovalNotes      string             `json:"approvalNotes"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	DeletedAt          *time.Time         `json:"-"`
	Version            int32              `json:"-"`

	// 列表接口返回时附带的关联信息
	Requester        *Employee      `json:"requester,omitempty"`
	TargetEmployee   *Employee      `json:"targetEmployee,omitempty"`
	OriginalSchedule *ScheduleEntry `json:"originalSchedule,omitempty"`
	TargetTimeSlot   *TimeSlot      `json:"targetTimeSlot,omitempty"`
}

// ShiftRequestStats 按状态统计的申请数量
type ShiftRequestStats struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}
