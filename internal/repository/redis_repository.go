package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/yukikurage/video-task-dashboard/internal/models"
)

// RedisSnapshotRepository stores the snapshot document under a single Redis key
type RedisSnapshotRepository struct {
	pool *redis.Pool
	key  string
}

// NewRedisPool creates a connection pool for the given address
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(5*time.Second),
				redis.DialReadTimeout(5*time.Second),
				redis.DialWriteTimeout(5*time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// NewRedisSnapshotRepository creates a new SnapshotRepository backed by Redis
func NewRedisSnapshotRepository(pool *redis.Pool, key string) SnapshotRepository {
	return &RedisSnapshotRepository{pool: pool, key: key}
}

// Load reads the document stored under the key
func (r *RedisSnapshotRepository) Load() ([]models.Task, error) {
	conn := r.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", r.key))
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot from redis: %w", err)
	}

	return DecodeSnapshot(data)
}

// Save overwrites the document stored under the key
func (r *RedisSnapshotRepository) Save(tasks []models.Task) error {
	data, err := EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	conn := r.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("SET", r.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot to redis: %w", err)
	}
	return nil
}
