package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/example/blog-api/internal/models"
)

const (
	redisPostKeyPrefix = "post:"
	redisPostIndexKey  = "posts:index"
	redisPostSeqKey    = "posts:seq"
)

// RedisPostRepository keeps each post as a JSON value and the insertion
// order in a sorted set scored by a creation sequence number.
type RedisPostRepository struct{ client *redis.Client }

func NewRedisPostRepository(client *redis.Client) *RedisPostRepository {
	return &RedisPostRepository{client: client}
}

func redisPostKey(id string) string { return redisPostKeyPrefix + id }

func (r *RedisPostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	ids, err := r.client.ZRange(ctx, redisPostIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(ids))
	if len(ids) == 0 {
		return posts, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisPostKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var p models.Post
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *RedisPostRepository) Create(ctx context.Context, p *models.Post) error {
	ts := now()
	post := models.Post{ID: uuid.NewString(), Title: p.Title, Content: p.Content, CreatedAt: ts, UpdatedAt: ts}
	b, err := json.Marshal(post)
	if err != nil {
		return err
	}
	seq, err := r.client.Incr(ctx, redisPostSeqKey).Result()
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisPostKey(post.ID), b, 0)
		pipe.ZAdd(ctx, redisPostIndexKey, redis.Z{Score: float64(seq), Member: post.ID})
		return nil
	})
	if err != nil {
		return err
	}
	*p = post
	return nil
}

func (r *RedisPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	val, err := r.client.Get(ctx, redisPostKey(key)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var p models.Post
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update reads, merges and writes the post under WATCH. When another writer
// touches the post in between, the transaction is retried against the new
// value, so the last writer wins and no call fails for losing the race.
func (r *RedisPostRepository) Update(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	rkey := redisPostKey(key)
	var post models.Post
	txf := func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, rkey).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		post = models.Post{}
		if err := json.Unmarshal([]byte(val), &post); err != nil {
			return err
		}
		u.Apply(&post)
		post.UpdatedAt = now()
		b, err := json.Marshal(post)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rkey, b, 0)
			return nil
		})
		return err
	}
	// A failed EXEC means some other write committed, so the loop always
	// makes progress.
	for {
		err = r.client.Watch(ctx, txf, rkey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *RedisPostRepository) Delete(ctx context.Context, id string) error {
	key, err := parseUUID(id)
	if err != nil {
		return err
	}
	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisPostKey(key))
		pipe.ZRem(ctx, redisPostIndexKey, key)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}
