package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/utils"
)

func (h *Handler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("onlyActive") == "true"

	slots, err := h.repository.GetAllTimeSlots(r.Context(), onlyActive)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取时间段列表成功", slots)
}

func (h *Handler) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name" validate:"required"`
		StartTime      string `json:"startTime" validate:"required"`
		EndTime        string `json:"endTime" validate:"required"`
		RequiredPeople int32  `json:"requiredPeople" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateTimeSlotRange(req.StartTime, req.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slot := &domain.TimeSlot{
		Name:           req.Name,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RequiredPeople: req.RequiredPeople,
		IsActive:       true,
	}

	if err := h.repository.CreateTimeSlot(r.Context(), slot); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "time_slots_name_key":
			h.badRequest(w, r, errors.New("时间段名称已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "时间段创建成功", slot)
}

func (h *Handler) GetTimeSlot(w http.ResponseWriter, r *http.Request) {
	slot := r.Context().Value(TimeSlotCtx).(*domain.TimeSlot)
	h.successResponse(w, r, "获取时间段成功", slot)
}

func (h *Handler) UpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           *string `json:"name"`
		StartTime      *string `json:"startTime"`
		EndTime        *string `json:"endTime"`
		RequiredPeople *int32  `json:"requiredPeople" validate:"omitempty,min=1"`
		IsActive       *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slot := r.Context().Value(TimeSlotCtx).(*domain.TimeSlot)

	if req.Name != nil {
		slot.Name = *req.Name
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.RequiredPeople != nil {
		slot.RequiredPeople = *req.RequiredPeople
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if err := utils.ValidateTimeSlotRange(slot.StartTime, slot.EndTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateTimeSlot(r.Context(), slot); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "time_slots_name_key":
			h.badRequest(w, r, errors.New("时间段名称已存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新时间段失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新时间段成功", slot)
}

func (h *Handler) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	slot := r.Context().Value(TimeSlotCtx).(*domain.TimeSlot)

	if err := h.repository.DeleteTimeSlot(r.Context(), slot.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "schedules_time_slot_id_fkey":
			h.badRequest(w, r, errors.New("时间段已被排班使用，无法删除"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除时间段成功", nil)
}
