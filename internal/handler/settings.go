package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

func validSettingCategory(category string) bool {
	switch domain.SettingCategory(category) {
	case domain.SettingCategoryGeneral, domain.SettingCategorySchedule, domain.SettingCategoryNotification:
		return true
	}
	return false
}

func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !validSettingCategory(category) {
		h.errorResponse(w, r, "无效的配置分类")
		return
	}

	settings, err := h.repository.ListSettings(r.Context(), domain.SettingCategory(category))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取系统配置成功", settings)
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	key := chi.URLParam(r, "key")
	if !validSettingCategory(category) {
		h.errorResponse(w, r, "无效的配置分类")
		return
	}

	setting, err := h.repository.GetSetting(r.Context(), domain.SettingCategory(category), key)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "配置项不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取配置项成功", setting)
}

func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	key := chi.URLParam(r, "key")
	if !validSettingCategory(category) {
		h.errorResponse(w, r, "无效的配置分类")
		return
	}

	var req struct {
		Value       json.RawMessage `json:"value" validate:"required"`
		Description string          `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	setting := &domain.SystemSetting{
		Category:    domain.SettingCategory(category),
		Key:         key,
		Value:       req.Value,
		Description: req.Description,
	}

	// 写入后同时清理缓存，使新值立即生效
	if err := h.settings.SetValue(r.Context(), setting); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新配置项成功", setting)
}

func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	key := chi.URLParam(r, "key")
	if !validSettingCategory(category) {
		h.errorResponse(w, r, "无效的配置分类")
		return
	}

	if err := h.repository.DeleteSetting(r.Context(), domain.SettingCategory(category), key); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "配置项不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.settings.Invalidate(r.Context(), domain.SettingCategory(category), key)

	h.successResponse(w, r, "删除配置项成功", nil)
}
