package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"sistema-gth/internal/hr/store"
	"sistema-gth/internal/legacy"
)

const (
	DOSSIER_CACHE_PREFIX = "dossier:"
	CACHE_TTL_MEDIUM     = 30 * time.Minute
)

// DossierCache keeps the consultation view of an employee in redis.
// Every mutation against a DNI invalidates its entry. A nil client
// degrades to no caching.
type DossierCache struct {
	redis *redis.Client
}

func NewDossierCache(rdb *redis.Client) *DossierCache {
	return &DossierCache{redis: rdb}
}

func (dc *DossierCache) key(dni string) string {
	return DOSSIER_CACHE_PREFIX + legacy.NormalizeDNI(dni)
}

func (dc *DossierCache) Get(ctx context.Context, dni string) (*store.Dossier, bool) {
	if dc == nil || dc.redis == nil {
		return nil, false
	}
	raw, err := dc.redis.Get(ctx, dc.key(dni)).Result()
	if err != nil {
		return nil, false
	}
	var d store.Dossier
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, false
	}
	return &d, true
}

func (dc *DossierCache) Set(ctx context.Context, dni string, d *store.Dossier) {
	if dc == nil || dc.redis == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	dc.redis.Set(ctx, dc.key(dni), raw, CACHE_TTL_MEDIUM)
}

func (dc *DossierCache) Invalidate(ctx context.Context, dnis ...string) {
	if dc == nil || dc.redis == nil {
		return
	}
	for _, dni := range dnis {
		dc.redis.Del(ctx, dc.key(dni))
	}
}
