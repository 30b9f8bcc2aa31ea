package listing

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	listingKeyPrefix    = "listing:"
	searchKeyPrefix     = "listings:search"
	searchGenerationKey = "listings:search:generation"
)

// CachedRepository puts a Redis read-through cache in front of another
// repository. Cache failures are logged and the call falls through to the
// wrapped store. Every write bumps a generation counter that is part of each
// search key, so cached searches never outlive a change.
type CachedRepository struct {
	next       Repository
	client     *redis.Client
	listingTTL time.Duration
	searchTTL  time.Duration
	log        *zap.Logger
}

func NewCachedRepository(next Repository, client *redis.Client, listingTTL, searchTTL time.Duration, log *zap.Logger) *CachedRepository {
	return &CachedRepository{
		next:       next,
		client:     client,
		listingTTL: listingTTL,
		searchTTL:  searchTTL,
		log:        log.Named("listing_cache"),
	}
}

func (r *CachedRepository) List(ctx context.Context, c Criteria) ([]*Listing, error) {
	key, err := r.searchKey(ctx, c)
	if err != nil {
		r.log.Warn("search cache unavailable", zap.Error(err))
		return r.next.List(ctx, c)
	}

	var cached []*Listing
	if ok := r.get(ctx, key, &cached); ok {
		return cached, nil
	}

	listings, err := r.next.List(ctx, c)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, listings, r.searchTTL)
	return listings, nil
}

func (r *CachedRepository) ListAll(ctx context.Context) ([]*Listing, error) {
	return r.next.ListAll(ctx)
}

func (r *CachedRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	key := listingKeyPrefix + id

	var cached Listing
	if ok := r.get(ctx, key, &cached); ok {
		return &cached, nil
	}

	l, err := r.next.GetByID(ctx, id)
	if err != nil || l == nil {
		return l, err
	}
	r.set(ctx, key, l, r.listingTTL)
	return l, nil
}

func (r *CachedRepository) Create(ctx context.Context, l *Listing) error {
	if err := r.next.Create(ctx, l); err != nil {
		return err
	}
	r.invalidate(ctx, l.ID)
	return nil
}

func (r *CachedRepository) Update(ctx context.Context, l *Listing) error {
	if err := r.next.Update(ctx, l); err != nil {
		return err
	}
	r.invalidate(ctx, l.ID)
	return nil
}

func (r *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedRepository) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		r.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		r.log.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *CachedRepository) set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedRepository) invalidate(ctx context.Context, id string) {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, listingKeyPrefix+id)
	pipe.Incr(ctx, searchGenerationKey)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Error("cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
}

func (r *CachedRepository) searchKey(ctx context.Context, c Criteria) (string, error) {
	gen, err := r.client.Get(ctx, searchGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return SearchCacheKey(searchKeyPrefix+":"+strconv.FormatInt(gen, 10), c), nil
}

// SearchCacheKey hashes the active criteria into a stable cache key. Values
// are query-escaped before hashing so no two criteria share an encoding.
func SearchCacheKey(prefix string, c Criteria) string {
	params := url.Values{}
	if c.Term != "" {
		params.Set("term", c.Term)
	}
	if c.Location != "" {
		params.Set("location", c.Location)
	}
	if c.Type != "" {
		params.Set("type", c.Type)
	}
	if c.MinBedrooms != nil {
		params.Set("bedrooms", strconv.Itoa(*c.MinBedrooms))
	}
	if c.MinBathrooms != nil {
		params.Set("bathrooms", strconv.Itoa(*c.MinBathrooms))
	}
	switch c.SuitesMode {
	case SuitesNone:
		params.Set("suites", "none")
	case SuitesAtLeast:
		params.Set("suites", strconv.Itoa(c.MinSuites))
	}
	if c.GarageRequired {
		params.Set("garage", "required")
	}
	if c.PriceMin != nil {
		params.Set("price_min", c.PriceMin.String())
	}
	if c.PriceMax != nil {
		params.Set("price_max", c.PriceMax.String())
	}

	hash := md5.Sum([]byte(params.Encode()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
