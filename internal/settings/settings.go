package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paiban-dev/shift-scheduler/backend/internal/config"
	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

// Store 是配置服务需要的最小仓库能力
type Store interface {
	GetSetting(ctx context.Context, category domain.SettingCategory, key string) (*domain.SystemSetting, error)
	UpsertSetting(ctx context.Context, setting *domain.SystemSetting) error
}

// Service 提供带 redis 缓存的系统配置读取
type Service struct {
	cfg         *config.Config
	store       Store
	redisClient *redis.Client
}

func NewService(cfg *config.Config, store Store, rdb *redis.Client) *Service {
	return &Service{
		cfg:         cfg,
		store:       store,
		redisClient: rdb,
	}
}

func cacheKey(category domain.SettingCategory, key string) string {
	return fmt.Sprintf("system_settings_%s_%s", category, key)
}

// GetValue 先查 redis，未命中时回源数据库并写回缓存
func (s *Service) GetValue(ctx context.Context, category domain.SettingCategory, key string) (json.RawMessage, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey(category, key)).Result()
		if err == nil {
			return json.RawMessage(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			slog.Warn("读取配置缓存失败", "category", category, "key", key, "error", err)
		}
	}

	setting, err := s.store.GetSetting(ctx, category, key)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		ttl := time.Duration(s.cfg.Redis.SettingsCacheTTL) * time.Second
		if err := s.redisClient.Set(ctx, cacheKey(category, key), string(setting.Value), ttl).Err(); err != nil {
			slog.Warn("写入配置缓存失败", "category", category, "key", key, "error", err)
		}
	}

	return setting.Value, nil
}

// SetValue 写入配置并使缓存失效
func (s *Service) SetValue(ctx context.Context, setting *domain.SystemSetting) error {
	if err := s.store.UpsertSetting(ctx, setting); err != nil {
		return err
	}

	if s.redisClient != nil {
		if err := s.redisClient.Del(ctx, cacheKey(setting.Category, setting.Key)).Err(); err != nil {
			slog.Warn("删除配置缓存失败", "category", setting.Category, "key", setting.Key, "error", err)
		}
	}

	return nil
}

// Invalidate 清理某个配置项的缓存
func (s *Service) Invalidate(ctx context.Context, category domain.SettingCategory, key string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, cacheKey(category, key)).Err(); err != nil {
		slog.Warn("删除配置缓存失败", "category", category, "key", key, "error", err)
	}
}

// systemConfig 对应 (general, system_config) 配置项的值
type systemConfig struct {
	// workDays 使用 0-6 表示周日到周六
	WorkDays []int `json:"workDays"`
}

// defaultWorkDays 周一至周五
var defaultWorkDays = []int{1, 2, 3, 4, 5}

// WorkDays 返回配置的工作日，缺失或解析失败时退回周一至周五
func (s *Service) WorkDays(ctx context.Context) []int {
	value, err := s.GetValue(ctx, domain.SettingCategoryGeneral, "system_config")
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("读取工作日配置失败，使用默认值", "error", err)
		}
		return defaultWorkDays
	}

	var cfg systemConfig
	if err := json.Unmarshal(value, &cfg); err != nil || len(cfg.WorkDays) == 0 {
		return defaultWorkDays
	}

	return cfg.WorkDays
}

// IsWorkDay 判断某天是否为工作日
func (s *Service) IsWorkDay(date domain.Date) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Redis.SettingsTimeout)*time.Second)
	defer cancel()

	weekday := int(date.Weekday())
	for _, d := range s.WorkDays(ctx) {
		if d == weekday {
			return true
		}
	}

	return false
}
