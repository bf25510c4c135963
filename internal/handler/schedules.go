package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/repository"
)

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	filter := repository.ScheduleFilter{
		Status: r.URL.Query().Get("status"),
		Page:   parsePage(r),
		Size:   parseSize(r),
	}

	if param := r.URL.Query().Get("employeeId"); param != "" {
		employeeID, err := parseID(param)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}
		filter.EmployeeID = &employeeID
	}
	if param := r.URL.Query().Get("dateFrom"); param != "" {
		date, err := domain.ParseDate(param)
		if err != nil {
			h.errorResponse(w, r, "起始日期格式错误")
			return
		}
		filter.DateFrom = &date
	}
	if param := r.URL.Query().Get("dateTo"); param != "" {
		date, err := domain.ParseDate(param)
		if err != nil {
			h.errorResponse(w, r, "结束日期格式错误")
			return
		}
		filter.DateTo = &date
	}

	entries, total, err := h.repository.ListScheduleEntries(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班列表成功", PaginatedData{
		Items: entries,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	})
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID   int64       `json:"employeeId" validate:"required"`
		TimeSlotID   int64       `json:"timeSlotId" validate:"required"`
		ScheduleDate domain.Date `json:"scheduleDate" validate:"required"`
		Notes        string      `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !h.settings.IsWorkDay(req.ScheduleDate) {
		h.errorResponse(w, r, "排班日期不是工作日")
		return
	}

	entry := &domain.ScheduleEntry{
		EmployeeID:     req.EmployeeID,
		TimeSlotID:     req.TimeSlotID,
		ScheduleDate:   req.ScheduleDate,
		Status:         domain.ScheduleStatusScheduled,
		AssignedMethod: domain.AssignMethodManual,
		Notes:          req.Notes,
	}

	if err := h.repository.CreateScheduleEntry(r.Context(), entry); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "schedules_active_unique_idx":
				h.badRequest(w, r, errors.New("该员工在此时间段已有排班"))
			case pgErr.ConstraintName == "schedules_employee_id_fkey":
				h.badRequest(w, r, errors.New("员工不存在"))
			case pgErr.ConstraintName == "schedules_time_slot_id_fkey":
				h.badRequest(w, r, errors.New("时间段不存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "排班创建成功", entry)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(ScheduleCtx).(*domain.ScheduleEntry)
	h.successResponse(w, r, "获取排班成功", entry)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID   *int64       `json:"employeeId"`
		TimeSlotID   *int64       `json:"timeSlotId"`
		ScheduleDate *domain.Date `json:"scheduleDate"`
		Status       *string      `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled"`
		Notes        *string      `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.ScheduleDate != nil && !h.settings.IsWorkDay(*req.ScheduleDate) {
		h.errorResponse(w, r, "排班日期不是工作日")
		return
	}

	entry := r.Context().Value(ScheduleCtx).(*domain.ScheduleEntry)

	if req.EmployeeID != nil {
		entry.EmployeeID = *req.EmployeeID
	}
	if req.TimeSlotID != nil {
		entry.TimeSlotID = *req.TimeSlotID
	}
	if req.ScheduleDate != nil {
		entry.ScheduleDate = *req.ScheduleDate
	}
	if req.Status != nil {
		entry.Status = domain.ScheduleStatus(*req.Status)
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	if err := h.repository.UpdateScheduleEntry(r.Context(), entry); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "schedules_active_unique_idx":
			h.badRequest(w, r, errors.New("该员工在此时间段已有排班"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新排班失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排班成功", entry)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(ScheduleCtx).(*domain.ScheduleEntry)

	if err := h.repository.DeleteScheduleEntry(r.Context(), entry.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班成功", nil)
}
