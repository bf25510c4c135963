package repository

import (
	"context"
	"database/sql"

	"github.com/paiban-dev/shift-scheduler/backend/internal/domain"
)

const settingColumns = `id, category, setting_key, setting_value, description, is_active, created_at, updated_at, version`

func settingDst(s *domain.SystemSetting) []any {
	return []any{
		&s.ID,
		&s.Category,
		&s.Key,
		&s.Value,
		&s.Description,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.Version,
	}
}

func (r *Repository) GetSetting(ctx context.Context, category domain.SettingCategory, key string) (*domain.SystemSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM system_settings WHERE category = $1 AND setting_key = $2 AND is_active = true`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	setting := &domain.SystemSetting{}
	if err := r.dbpool.QueryRowContext(ctx, query, category, key).Scan(settingDst(setting)...); err != nil {
		return nil, err
	}

	return setting, nil
}

func (r *Repository) ListSettings(ctx context.Context, category domain.SettingCategory) ([]*domain.SystemSetting, error) {
	query := `SELECT ` + settingColumns + ` FROM system_settings WHERE is_active = true`
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += ` AND category = $1`
	}
	query += ` ORDER BY category ASC, setting_key ASC`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]*domain.SystemSetting, 0)
	for rows.Next() {
		setting := &domain.SystemSetting{}
		if err := rows.Scan(settingDst(setting)...); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}

// UpsertSetting 按 (category, setting_key) 写入配置，已存在时覆盖其值
func (r *Repository) UpsertSetting(ctx context.Context, setting *domain.SystemSetting) error {
	query := `
		INSERT INTO system_settings (category, setting_key, setting_value, description, is_active)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (category, setting_key) DO UPDATE
		SET
			setting_value = EXCLUDED.setting_value,
			description = EXCLUDED.description,
			is_active = true,
			updated_at = NOW(),
			version = system_settings.version + 1
		RETURNING id, is_active, created_at, updated_at, version
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	args := []any{setting.Category, setting.Key, setting.Value, setting.Description}
	dst := []any{&setting.ID, &setting.IsActive, &setting.CreatedAt, &setting.UpdatedAt, &setting.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSetting(ctx context.Context, category domain.SettingCategory, key string) error {
	query := `UPDATE system_settings SET is_active = false, updated_at = NOW(), version = version + 1 WHERE category = $1 AND setting_key = $2 AND is_active = true`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, category, key)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
