// README: Finder backends for the nearby query API: in-memory scan or Redis GEO prefilter.
package proximity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"tripmap/internal/modules/dataset"
	"tripmap/internal/types"
)

// Finder answers nearby queries for one scope (a session) and kind.
// Results are always ranked by exact haversine distance.
type Finder interface {
	Index(ctx context.Context, scope string, kind dataset.Kind, entities []dataset.Entity) error
	Nearby(ctx context.Context, scope string, kind dataset.Kind, ref types.Point, candidates []dataset.Entity, p Policy) ([]Match, error)
	Drop(ctx context.Context, scope string) error
}

// MemoryFinder scans the candidates directly.
type MemoryFinder struct{}

func (MemoryFinder) Index(context.Context, string, dataset.Kind, []dataset.Entity) error { return nil }

func (MemoryFinder) Nearby(_ context.Context, _ string, _ dataset.Kind, ref types.Point, candidates []dataset.Entity, p Policy) ([]Match, error) {
	return p.Nearby(ref, candidates), nil
}

func (MemoryFinder) Drop(context.Context, string) error { return nil }

const (
	geoKeyPrefix = "tripmap:%s:%s"
	// Every query pushes the expiry out, so only keys of idle or deleted sessions lapse.
	keyTTL = 24 * time.Hour
)

// RedisStore indexes entity locations in Redis GEO sets, one per scope and kind.
// GEOSEARCH narrows the candidates; the final ranking is recomputed in memory so both
// backends agree on distances and tie order.
type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{redis: rdb}
}

func (s *RedisStore) Index(ctx context.Context, scope string, kind dataset.Kind, entities []dataset.Entity) error {
	key := geoKey(scope, kind)
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, key)
	if len(entities) > 0 {
		locs := make([]*redis.GeoLocation, len(entities))
		for i, e := range entities {
			locs[i] = &redis.GeoLocation{
				Name:      string(e.ID),
				Longitude: e.Location.Lng,
				Latitude:  e.Location.Lat,
			}
		}
		pipe.GeoAdd(ctx, key, locs...)
		pipe.Expire(ctx, key, keyTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return eris.Wrapf(err, "index %s", key)
	}
	return nil
}

// Nearby refreshes the key's TTL; a key that already expired is rebuilt from candidates
// so an idle session gets the same answer as the memory backend.
func (s *RedisStore) Nearby(ctx context.Context, scope string, kind dataset.Kind, ref types.Point, candidates []dataset.Entity, p Policy) ([]Match, error) {
	key := geoKey(scope, kind)
	alive, err := s.redis.Expire(ctx, key, keyTTL).Result()
	if err != nil {
		return nil, eris.Wrapf(err, "refresh %s", key)
	}
	if !alive && len(candidates) > 0 {
		if err := s.Index(ctx, scope, kind, candidates); err != nil {
			return nil, err
		}
	}

	ids, err := s.redis.GeoSearch(ctx, key, &redis.GeoSearchQuery{
		Longitude: ref.Lng,
		Latitude:  ref.Lat,
		// Redis uses a slightly larger Earth radius and geohash-rounded positions.
		Radius:     p.RadiusKm*1.01 + 0.01,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, eris.Wrapf(err, "geosearch %s", key)
	}

	hit := make(map[types.ID]struct{}, len(ids))
	for _, id := range ids {
		hit[types.ID(id)] = struct{}{}
	}
	narrowed := make([]dataset.Entity, 0, len(ids))
	for _, c := range candidates {
		if _, ok := hit[c.ID]; ok {
			narrowed = append(narrowed, c)
		}
	}
	return p.Nearby(ref, narrowed), nil
}

func (s *RedisStore) Drop(ctx context.Context, scope string) error {
	return s.redis.Del(ctx, geoKey(scope, dataset.KindPlace), geoKey(scope, dataset.KindRestaurant)).Err()
}

func geoKey(scope string, kind dataset.Kind) string {
	return fmt.Sprintf(geoKeyPrefix, scope, kind)
}
