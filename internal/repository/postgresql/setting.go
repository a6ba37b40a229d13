package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const settingTimezone = "timezone"

// ErrSettingNotFound is returned when a system setting has never been stored.
var ErrSettingNotFound = errors.New("system setting not found")

type SettingRepository struct {
	db *database.DB
}

func NewSettingRepository(db *database.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSystemTimezone implements timezone.Source.
func (r *SettingRepository) GetSystemTimezone(ctx context.Context) (string, error) {
	return r.Get(ctx, settingTimezone)
}

// SetSystemTimezone stores the zone every date-boundary decision uses.
func (r *SettingRepository) SetSystemTimezone(ctx context.Context, name string) error {
	return r.Set(ctx, settingTimezone, name)
}

func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	q := GetQuerier(ctx, r.db)

	var value string
	err := q.QueryRow(ctx, `SELECT value FROM system_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", key, ErrSettingNotFound)
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
