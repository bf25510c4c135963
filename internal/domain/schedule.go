package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusConfirmed ScheduleStatus = "confirmed"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

type AssignMethod string

const (
	AssignMethodManual AssignMethod = "manual"
	AssignMethodAI     AssignMethod = "ai"
	AssignMethodCopy   AssignMethod = "copy"
)

// ScheduleEntry 表示某个员工在某一天的某个时间段的一条排班记录
type ScheduleEntry struct {
	ID             int64          `json:"id"`
	EmployeeID     int64          `json:"employeeID"`
	TimeSlotID     int64          `json:"timeSlotID"`
	ScheduleDate   Date           `json:"scheduleDate"`
	Status         ScheduleStatus `json:"status"`
	AssignedMethod AssignMethod   `json:"assignedMethod"`
	AIConfidence   *float64       `json:"aiConfidence,omitempty"`
	AIReason       string         `json:"aiReason,omitempty"`
	Notes          string         `json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Version        int32          `json:"-"`

	// 列表接口返回时附带的关联信息
	Employee *Employee `json:"employee,omitempty"`
	TimeSlot *TimeSlot `json:"timeSlot,omitempty"`
}

// IsActive 报告该排班是否占用着对应的 (员工, 日期, 时间段)
func (s *ScheduleEntry) IsActive() bool {
	return s.Status == ScheduleStatusScheduled || s.Status == ScheduleStatusConfirmed
}
