package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/lifecycle"
	"github.com/paiban-dev/shift-scheduler/backend/internal/repository"
)

func parseID(param string) (int64, error) {
	return strconv.ParseInt(param, 10, 64)
}

func (h *Handler) CreateShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		Type               string       `json:"type" validate:"required,oneof=swap transfer cancel"`
		OriginalScheduleID int64        `json:"originalScheduleId" validate:"required"`
		TargetEmployeeID   *int64       `json:"targetEmployeeId"`
		TargetTimeSlotID   *int64       `json:"targetTimeSlotId"`
		TargetDate         *domain.Date `json:"targetDate"`
		Reason             string       `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.lifecycle.Create(r.Context(), lifecycle.CreateInput{
		RequesterID:        myInfo.ID,
		Type:               domain.ShiftRequestType(req.Type),
		OriginalScheduleID: req.OriginalScheduleID,
		TargetEmployeeID:   req.TargetEmployeeID,
		TargetTimeSlotID:   req.TargetTimeSlotID,
		TargetDate:         req.TargetDate,
		Reason:             req.Reason,
	})
	if err != nil {
		h.lifecycleError(w, r, err)
		return
	}

	h.successResponse(w, r, "班次请求创建成功", request)
}

func (h *Handler) shiftRequestFilter(r *http.Request) (repository.ShiftRequestFilter, error) {
	filter := repository.ShiftRequestFilter{
		Type:   domain.ShiftRequestType(r.URL.Query().Get("type")),
		Status: domain.ShiftRequestStatus(r.URL.Query().Get("status")),
		Page:   parsePage(r),
		Size:   parseSize(r),
	}

	if param := r.URL.Query().Get("dateFrom"); param != "" {
		date, err := domain.ParseDate(param)
		if err != nil {
			return filter, errors.New("起始日期格式错误")
		}
		filter.DateFrom = &date
	}
	if param := r.URL.Query().Get("dateTo"); param != "" {
		date, err := domain.ParseDate(param)
		if err != nil {
			return filter, errors.New("结束日期格式错误")
		}
		filter.DateTo = &date
	}

	return filter, nil
}

func (h *Handler) ListShiftRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := h.shiftRequestFilter(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if param := r.URL.Query().Get("requesterId"); param != "" {
		requesterID, err := parseID(param)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}
		filter.RequesterID = &requesterID
	}

	requests, total, err := h.repository.ListShiftRequests(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次请求列表成功", PaginatedData{
		Items: requests,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	})
}

func (h *Handler) ListMyShiftRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	filter, err := h.shiftRequestFilter(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	filter.RequesterID = &myInfo.ID

	requests, total, err := h.repository.ListShiftRequests(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的班次请求成功", PaginatedData{
		Items: requests,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	})
}

// ListMySwappableSchedules 返回自己今天起的有效排班，供发起申请时选择原排班
func (h *Handler) ListMySwappableSchedules(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	now := time.Now()
	today := domain.NewDate(now.Year(), now.Month(), now.Day())

	entries, err := h.repository.ListEmployeeSwappableSchedules(r.Context(), myInfo.ID, today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的排班成功", entries)
}

func (h *Handler) GetShiftRequestStats(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	// 管理员看全局统计，普通员工只看自己的
	var requesterID *int64
	if myInfo.Role != domain.RoleAdmin {
		requesterID = &myInfo.ID
	}

	stats, err := h.repository.GetShiftRequestStats(r.Context(), requesterID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次请求统计成功", stats)
}

// ListAvailableSwaps 返回可与指定排班交换的其他员工排班
func (h *Handler) ListAvailableSwaps(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	scheduleID, err := parseID(chi.URLParam(r, "scheduleId"))
	if err != nil {
		h.errorResponse(w, r, "排班ID无效")
		return
	}

	entry, err := h.repository.GetScheduleEntry(r.Context(), scheduleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.lifecycleError(w, r, &lifecycle.Error{Kind: lifecycle.KindNotFound, Message: "排班不存在"})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if entry.EmployeeID != myInfo.ID {
		h.lifecycleError(w, r, &lifecycle.Error{Kind: lifecycle.KindForbidden, Message: "只能查询自己排班的可交换选项"})
		return
	}

	now := time.Now()
	from := domain.NewDate(now.Year(), now.Month(), now.Day())
	toTime := now.AddDate(0, 0, h.config.SwapWindow.Days)
	to := domain.NewDate(toTime.Year(), toTime.Month(), toTime.Day())

	entries, err := h.repository.ListAvailableSwaps(r.Context(), myInfo.ID, entry.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可交换排班成功", entries)
}

func (h *Handler) GetShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	requestID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "请求ID无效")
		return
	}

	request, err := h.repository.GetShiftRequestDetail(r.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.writeJSON(w, r, http.StatusNotFound, Response{Success: false, Message: "班次请求不存在"})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if myInfo.Role != domain.RoleAdmin && request.RequesterID != myInfo.ID {
		h.writeJSON(w, r, http.StatusForbidden, Response{Success: false, Message: "只能查看自己的请求"})
		return
	}

	h.successResponse(w, r, "获取班次请求成功", request)
}

func (h *Handler) UpdateShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	requestID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "请求ID无效")
		return
	}

	var req struct {
		Type             *string      `json:"type" validate:"omitempty,oneof=swap transfer cancel"`
		TargetEmployeeID *int64       `json:"targetEmployeeId"`
		TargetTimeSlotID *int64       `json:"targetTimeSlotId"`
		TargetDate       *domain.Date `json:"targetDate"`
		Reason           *string      `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	existing, err := h.repository.GetShiftRequest(r.Context(), requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.writeJSON(w, r, http.StatusNotFound, Response{Success: false, Message: "班次请求不存在"})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if existing.RequesterID != myInfo.ID {
		h.writeJSON(w, r, http.StatusForbidden, Response{Success: false, Message: "只能修改自己的请求"})
		return
	}

	input := lifecycle.UpdateInput{
		TargetEmployeeID: req.TargetEmployeeID,
		TargetTimeSlotID: req.TargetTimeSlotID,
		TargetDate:       req.TargetDate,
		Reason:           req.Reason,
	}
	if req.Type != nil {
		requestType := domain.ShiftRequestType(*req.Type)
		input.Type = &requestType
	}

	request, err := h.lifecycle.Update(r.Context(), requestID, input)
	if err != nil {
		h.lifecycleError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新班次请求成功", request)
}

func (h *Handler) ApproveShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	requestID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "请求ID无效")
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	// 审批可以不带请求体
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	request, result, err := h.lifecycle.Approve(r.Context(), requestID, myInfo.ID, req.Notes)
	if err != nil {
		h.lifecycleError(w, r, err)
		return
	}

	h.successResponse(w, r, "审批通过", struct {
		Request *domain.ShiftRequest      `json:"request"`
		Result  *lifecycle.MutationResult `json:"result"`
	}{Request: request, Result: result})
}

func (h *Handler) RejectShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	requestID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "请求ID无效")
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	// 审批可以不带请求体
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.lifecycle.Reject(r.Context(), requestID, myInfo.ID, req.Notes)
	if err != nil {
		h.lifecycleError(w, r, err)
		return
	}

	h.successResponse(w, r, "已拒绝该请求", request)
}

func (h *Handler) CancelShiftRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	requestID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "请求ID无效")
		return
	}

	request, err := h.lifecycle.Cancel(r.Context(), requestID, myInfo.ID)
	if err != nil {
		h.lifecycleError(w, r, err)
		return
	}

	h.successResponse(w, r, "已撤销该请求", request)
}

func (h *Handler) DeleteShiftRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, r, "请求ID无效")
		return
	}

	if _, err := h.lifecycle.SoftDelete(r.Context(), requestID); err != nil {
		h.lifecycleError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次请求成功", nil)
}
