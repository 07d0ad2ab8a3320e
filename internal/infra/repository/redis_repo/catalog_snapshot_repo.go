package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

type CatalogSnapshotRepoError error

var ErrSnapshotNotFound CatalogSnapshotRepoError = errors.New("catalog snapshot not found")

const catalogSnapshotKey = "pos:catalog:snapshot"

// CatalogSnapshotRepo 保存最後一次成功載入的商品目錄
type CatalogSnapshotRepo struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewCatalogSnapshotRepo(cache *redis.Client, ttl time.Duration) *CatalogSnapshotRepo {
	if cache == nil {
		panic("catalog snapshot repo requires redis client")
	}
	return &CatalogSnapshotRepo{cache: cache, ttl: ttl}
}

func (r *CatalogSnapshotRepo) Save(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	if err := r.cache.Set(ctx, catalogSnapshotKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save catalog snapshot: %w", err)
	}
	return nil
}

func (r *CatalogSnapshotRepo) Load(ctx context.Context) ([]model.Product, error) {
	data, err := r.cache.Get(ctx, catalogSnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog snapshot: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return products, nil
}
