package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban-dev/shift-scheduler/backend/internal/config"
	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
	"github.com/paiban-dev/shift-scheduler/backend/internal/lifecycle"
	"github.com/paiban-dev/shift-scheduler/backend/internal/settings"
)

// emptySettingsStore 没有任何配置项，配置服务会退回默认值
type emptySettingsStore struct{}

func (emptySettingsStore) GetSetting(context.Context, domain.SettingCategory, string) (*domain.SystemSetting, error) {
	return nil, sql.ErrNoRows
}

func (emptySettingsStore) UpsertSetting(context.Context, *domain.SystemSetting) error {
	return nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.Redis.SettingsTimeout = 1

	svc := settings.NewService(cfg, emptySettingsStore{}, nil)

	h, err := NewHandler(cfg, nil, nil, svc, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h
}

func authCookie(t *testing.T, h *Handler, role domain.Role) *http.Cookie {
	t.Helper()

	claims := AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.config.JWT.Secret))
	require.NoError(t, err)

	return &http.Cookie{Name: "__shift_scheduler_token", Value: token}
}

func TestUpdateShiftRequestRouteAcceptsPutAndPatch(t *testing.T) {
	h := newTestHandler(t)

	// 不带登录态的请求应该被 auth 中间件拦下，而不是 405：
	// 说明两个方法都命中了路由
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		req := httptest.NewRequest(method, "/api/shift-requests/1", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		h.Mux.ServeHTTP(rec, req)

		assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code, method)

		var resp Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp), method)
		assert.False(t, resp.Success, method)
		assert.Equal(t, "用户未登录", resp.Message, method)
	}
}

func TestCreateScheduleRejectsNonWorkDay(t *testing.T) {
	h := newTestHandler(t)

	// 2025-03-15 是周六，默认工作日为周一至周五
	body := `{"employeeId":1,"timeSlotId":2,"scheduleDate":"2025-03-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/schedules", strings.NewReader(body))
	req.AddCookie(authCookie(t, h, domain.RoleAdmin))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "排班日期不是工作日", resp.Message)
}

func TestLifecycleErrorStatusCodes(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		kind   lifecycle.Kind
		status int
	}{
		{lifecycle.KindNotFound, http.StatusNotFound},
		{lifecycle.KindConflict, http.StatusConflict},
		{lifecycle.KindForbidden, http.StatusForbidden},
		{lifecycle.KindValidation, http.StatusBadRequest},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.lifecycleError(rec, req, &lifecycle.Error{Kind: tc.kind, Message: "出错了"})

		assert.Equal(t, tc.status, rec.Code)

		var resp Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "出错了", resp.Message)
	}

	// 未分类的错误按服务器内部错误处理
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.lifecycleError(rec, req, errors.New("数据库连接断开"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
