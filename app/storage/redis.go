package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding the fee sheet rows.
const DefaultRedisKey = "fees:rows"

// Redis keeps the sheet as a Redis list of JSON-encoded rows. List index i
// is sheet row i+2.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis returns a sheet stored under key.
func NewRedis(client *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) ReadAll(ctx context.Context) ([]Row, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, wrap("redis lrange", err)
	}

	rows := make([]Row, 0, len(items))
	for i, item := range items {
		var row Row
		if err := sonic.UnmarshalString(item, &row); err != nil {
			return nil, fmt.Errorf("%w: row %d is not valid JSON: %v", ErrStorage, RowIndex(i), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *Redis) Append(ctx context.Context, values []interface{}) error {
	encoded, err := sonic.MarshalString(toRow(values))
	if err != nil {
		return wrap("encode row", err)
	}
	return wrap("redis rpush", r.client.RPush(ctx, r.key, encoded).Err())
}

func (r *Redis) UpdateFields(ctx context.Context, rowIndex int, updates map[string]interface{}) error {
	pos, err := position(rowIndex)
	if err != nil {
		return err
	}
	for label := range updates {
		if _, err := ColumnLetter(label); err != nil {
			return err
		}
	}

	item, err := r.client.LIndex(ctx, r.key, int64(pos)).Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: row %d does not exist", ErrStorage, rowIndex)
	}
	if err != nil {
		return wrap("redis lindex", err)
	}

	var row Row
	if err := sonic.UnmarshalString(item, &row); err != nil {
		return fmt.Errorf("%w: row %d is not valid JSON: %v", ErrStorage, rowIndex, err)
	}
	for label, v := range updates {
		row[label] = cellText(v)
	}

	encoded, err := sonic.MarshalString(row)
	if err != nil {
		return wrap("encode row", err)
	}
	return wrap("redis lset", r.client.LSet(ctx, r.key, int64(pos), encoded).Err())
}
