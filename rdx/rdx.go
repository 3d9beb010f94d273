package rdx

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"hostelhub/models"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func RdxSet(key, value string) error {
	return Conn.Set(context.Background(), key, value, 0).Err()
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(context.Background(), hash, field, value).Err()
}

func RdxHdel(hash, field string) (int64, error) {
	return Conn.HDel(context.Background(), hash, field).Result()
}

func SetWithExpiry(key, value string, ttl time.Duration) error {
	return Conn.Set(context.Background(), key, value, ttl).Err()
}

// --- Room list read-through cache ---
//
// Room listings are the hottest read in the portal. They are cached as a
// single JSON blob and invalidated explicitly whenever an admin action or
// a booking claim mutates any Room document; the invalidation signal rides
// the hostel-events channel (see mq package), never an ambient global.

const roomCacheKey = "cache:rooms"
const roomCacheTTL = 5 * time.Minute

func CachedRooms(ctx context.Context) ([]models.Room, bool) {
	raw, err := Conn.Get(ctx, roomCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var rooms []models.Room
	if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
		log.Printf("room cache decode failed: %v", err)
		return nil, false
	}
	return rooms, true
}

func StoreRooms(ctx context.Context, rooms []models.Room) {
	data, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	if err := Conn.Set(ctx, roomCacheKey, data, roomCacheTTL).Err(); err != nil {
		log.Printf("room cache store failed: %v", err)
	}
}

func InvalidateRooms(ctx context.Context) {
	if err := Conn.Del(ctx, roomCacheKey).Err(); err != nil {
		log.Printf("room cache invalidate failed: %v", err)
	}
}
