package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
)

// The availability configuration is stored as a single JSONB row; the
// fixed key keeps the upsert honest.
const availabilitySettingsKey = "default"

type availabilityRepository struct {
	BaseRepository
}

func NewAvailabilityRepository(base BaseRepository) repository.AvailabilityRepository {
	return &availabilityRepository{base}
}

func (r *availabilityRepository) Get(ctx context.Context) (*model.WeeklyAvailability, error) {
	query := `
		SELECT settings
		FROM availability_settings
		WHERE key = $1
	`
	var raw []byte
	err := r.db.GetContext(ctx, &raw, query, availabilitySettingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability settings: %w", err)
	}

	var cfg model.WeeklyAvailability
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode availability settings: %w", err)
	}
	return &cfg, nil
}

func (r *availabilityRepository) Save(ctx context.Context, cfg *model.WeeklyAvailability) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode availability settings: %w", err)
	}

	query := `
		INSERT INTO availability_settings (key, settings, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, query, availabilitySettingsKey, raw, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save availability settings: %w", err)
	}
	return nil
}
