package domain

import (
	"encoding/json"
	"time"
)

type SettingCategory string

const (
	SettingCategoryGeneral      SettingCategory = "general"
	SettingCategorySchedule     SettingCategory = "schedule"
	SettingCategoryNotification SettingCategory = "notification"
)

// SystemSetting 是按 (category, key) 唯一的一条 JSON 配置
type SystemSetting struct {
	ID          int64           `json:"id"`
	Category    SettingCategory `json:"category"`
	Key         string          `json:"key"`
	Value       json.RawMessage `json:"value"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Version     int32           `json:"-"`
}
