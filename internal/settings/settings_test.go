package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban-dev/shift-scheduler/backend/internal/config"
	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

type memStore struct {
	settings map[string]*domain.SystemSetting
}

func newMemStore() *memStore {
	return &memStore{settings: make(map[string]*domain.SystemSetting)}
}

func (s *memStore) key(category domain.SettingCategory, key string) string {
	return string(category) + "/" + key
}

func (s *memStore) GetSetting(_ context.Context, category domain.SettingCategory, key string) (*domain.SystemSetting, error) {
	setting, ok := s.settings[s.key(category, key)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return setting, nil
}

func (s *memStore) UpsertSetting(_ context.Context, setting *domain.SystemSetting) error {
	s.settings[s.key(setting.Category, setting.Key)] = setting
	return nil
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Redis.SettingsTimeout = 1
	return NewService(cfg, store, nil)
}

func TestWorkDaysDefaultsToWeekdays(t *testing.T) {
	svc := newTestService(t, newMemStore())

	assert.Equal(t, []int{1, 2, 3, 4, 5}, svc.WorkDays(context.Background()))
}

func TestWorkDaysFromSetting(t *testing.T) {
	store := newMemStore()
	err := store.UpsertSetting(context.Background(), &domain.SystemSetting{
		Category: domain.SettingCategoryGeneral,
		Key:      "system_config",
		Value:    json.RawMessage(`{"workDays":[1,2,3,4,5,6]}`),
	})
	require.NoError(t, err)

	svc := newTestService(t, store)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, svc.WorkDays(context.Background()))
}

func TestWorkDaysFallsBackOnBadValue(t *testing.T) {
	store := newMemStore()
	err := store.UpsertSetting(context.Background(), &domain.SystemSetting{
		Category: domain.SettingCategoryGeneral,
		Key:      "system_config",
		Value:    json.RawMessage(`"不是对象"`),
	})
	require.NoError(t, err)

	svc := newTestService(t, store)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, svc.WorkDays(context.Background()))
}

func TestIsWorkDay(t *testing.T) {
	store := newMemStore()
	err := store.UpsertSetting(context.Background(), &domain.SystemSetting{
		Category: domain.SettingCategoryGeneral,
		Key:      "system_config",
		Value:    json.RawMessage(`{"workDays":[1,2,3,4,5]}`),
	})
	require.NoError(t, err)

	svc := newTestService(t, store)

	// 2025-03-14 是周五，2025-03-15 是周六
	assert.True(t, svc.IsWorkDay(domain.NewDate(2025, time.March, 14)))
	assert.False(t, svc.IsWorkDay(domain.NewDate(2025, time.March, 15)))
}

func TestGetValueMissing(t *testing.T) {
	svc := newTestService(t, newMemStore())

	_, err := svc.GetValue(context.Background(), domain.SettingCategorySchedule, "不存在")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
