package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vibast-solutions/ms-go-pricing/app/cache"
	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

// PricingCacheRepository stores the pricing cache entry in MySQL under a
// single namespaced key.
type PricingCacheRepository struct {
	db  DBTX
	key string
}

func NewPricingCacheRepository(db DBTX, key string) *PricingCacheRepository {
	return &PricingCacheRepository{db: db, key: key}
}

func (r *PricingCacheRepository) Get(ctx context.Context) (*entity.CacheData, error) {
	query := `
		SELECT payload
		FROM pricing_cache
		WHERE cache_key = ?
	`

	payload, err := scanCachePayload(r.db.QueryRowContext(ctx, query, r.key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cache.Decode(payload)
}

func (r *PricingCacheRepository) Set(ctx context.Context, data entity.CacheData) error {
	payload, err := cache.Encode(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pricing_cache (cache_key, payload, cached_at_ms, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			payload = VALUES(payload),
			cached_at_ms = VALUES(cached_at_ms),
			updated_at = VALUES(updated_at)
	`

	_, err = r.db.ExecContext(ctx, query, r.key, payload, data.Timestamp, time.Now().UTC())
	return err
}

func (r *PricingCacheRepository) Remove(ctx context.Context) error {
	query := `DELETE FROM pricing_cache WHERE cache_key = ?`
	_, err := r.db.ExecContext(ctx, query, r.key)
	return err
}

func scanCachePayload(scanner rowScanner) ([]byte, error) {
	var payload []byte
	if err := scanner.Scan(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
