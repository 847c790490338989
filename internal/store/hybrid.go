package store

import (
	"context"
	"encoding/json"
	"fmt"

	"blogd/internal/model"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	indexKey  = "posts:index"
	importKey = "queue:import"
)

// HybridStore combines Redis (metadata, ordering, queue) and Badger
// (post bodies).
type HybridStore struct {
	rdb *redis.Client
	db  *badger.DB
}

// NewHybridStore initializes databases.
// Pass badgerPath="" to run in "Redis-Only" mode (for CLI tools).
func NewHybridStore(redisAddr string, badgerPath string) (*HybridStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var db *badger.DB
	var err error

	if badgerPath != "" {
		opts := badger.DefaultOptions(badgerPath)
		opts.Logger = nil // Silence default logger
		db, err = badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger: %w", err)
		}
	}

	return &HybridStore{rdb: rdb, db: db}, nil
}

// Close cleans up connections
func (s *HybridStore) Close() {
	if s.rdb != nil {
		s.rdb.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

func metaKey(id uuid.UUID) string {
	return fmt.Sprintf("post:%s", id)
}

// put writes metadata to Redis and the body to Badger.
func (s *HybridStore) put(ctx context.Context, post *model.Post) error {
	meta := *post
	meta.Content = ""

	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, metaKey(post.ID), data, 0).Err(); err != nil {
		return err
	}

	if post.Content != "" {
		if s.db == nil {
			return fmt.Errorf("cannot save content: badgerdb is not initialized")
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(post.ID.String()), []byte(post.Content))
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Create persists a new post and appends its ID to the ordering index,
// so List returns posts in insertion order.
func (s *HybridStore) Create(ctx context.Context, post *model.Post) error {
	if err := s.put(ctx, post); err != nil {
		return err
	}
	return s.rdb.RPush(ctx, indexKey, post.ID.String()).Err()
}

// Get combines data: metadata from Redis + body from Badger.
func (s *HybridStore) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	val, err := s.rdb.Get(ctx, metaKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var post model.Post
	if err := json.Unmarshal(val, &post); err != nil {
		return nil, err
	}

	if s.db != nil {
		err = s.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(id.String()))
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				post.Content = string(val)
				return nil
			})
		})

		if err != nil && err != badger.ErrKeyNotFound {
			return nil, err
		}
	}

	return &post, nil
}

// List fetches every post in insertion order.
func (s *HybridStore) List(ctx context.Context) ([]model.Post, error) {
	ids, err := s.rdb.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(ids))
	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		post, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		} else if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	return posts, nil
}

// Update overwrites an existing post. The caller merges fields; the
// store only refuses unknown IDs.
func (s *HybridStore) Update(ctx context.Context, post *model.Post) error {
	n, err := s.rdb.Exists(ctx, metaKey(post.ID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return s.put(ctx, post)
}

// Delete removes metadata, body and the ordering entry.
func (s *HybridStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.rdb.Del(ctx, metaKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := s.rdb.LRem(ctx, indexKey, 0, id.String()).Err(); err != nil {
		return err
	}

	if s.db != nil {
		err = s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(id.String()))
		})
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
	}

	return nil
}

// DropAll empties the whole collection. Used by `blogd seed --reset`
// and test teardown; the import queue is left alone.
func (s *HybridStore) DropAll(ctx context.Context) error {
	ids, err := s.rdb.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.rdb.Pipeline()
	for _, idStr := range ids {
		pipe.Del(ctx, fmt.Sprintf("post:%s", idStr))
	}
	pipe.Del(ctx, indexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if s.db != nil {
		if err := s.db.DropAll(); err != nil {
			return err
		}
	}

	return nil
}

// PushImport queues a URL for the import worker.
func (s *HybridStore) PushImport(ctx context.Context, url string) error {
	return s.rdb.LPush(ctx, importKey, url).Err()
}

// PopImport waits for a job in the Redis queue (Blocking)
func (s *HybridStore) PopImport(ctx context.Context) (string, error) {
	// 0 means wait forever until an item arrives
	result, err := s.rdb.BRPop(ctx, 0, importKey).Result()
	if err != nil {
		return "", err
	}
	return result[1], nil
}
