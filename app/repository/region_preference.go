package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

type RegionPreferenceRepository struct {
	db DBTX
}

func NewRegionPreferenceRepository(db DBTX) *RegionPreferenceRepository {
	return &RegionPreferenceRepository{db: db}
}

func (r *RegionPreferenceRepository) FindByUserID(ctx context.Context, userID string) (*entity.RegionPreference, error) {
	query := `
		SELECT user_id, region, language, created_at, updated_at
		FROM region_preferences
		WHERE user_id = ?
	`

	item := &entity.RegionPreference{}
	err := scanRegionPreference(r.db.QueryRowContext(ctx, query, userID), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Upsert keeps the original created_at on conflict.
func (r *RegionPreferenceRepository) Upsert(ctx context.Context, pref *entity.RegionPreference) error {
	query := `
		INSERT INTO region_preferences (user_id, region, language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			region = VALUES(region),
			language = VALUES(language),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		pref.UserID,
		string(pref.Region),
		pref.Language,
		pref.CreatedAt,
		pref.UpdatedAt,
	)
	return err
}

func scanRegionPreference(scanner rowScanner, item *entity.RegionPreference) error {
	var region string
	if err := scanner.Scan(
		&item.UserID,
		&region,
		&item.Language,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return err
	}
	item.Region = entity.Region(region)
	return nil
}
