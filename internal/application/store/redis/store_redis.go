package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"intake/internal/application"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
)

const keyPrefix = "intake:application:"

// Store keeps each session as one JSON document with a sliding TTL. Saves
// are optimistic: the stored version is checked inside a WATCH transaction.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(appID id.ApplicationID) string {
	return keyPrefix + appID.String()
}

func (s *Store) Create(ctx context.Context, app *application.Application) error {
	payload, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	ok, err := s.client.SetNX(ctx, key(app.ID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: create application: %v", sentinel.ErrUnavailable, err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Store) Get(ctx context.Context, appID id.ApplicationID) (*application.Application, error) {
	raw, err := s.client.Get(ctx, key(appID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get application: %v", sentinel.ErrUnavailable, err)
	}
	return decode(raw)
}

// Save writes app when the stored version is exactly app.Version-1. A
// concurrent write between the read and the exec aborts with ErrConflict.
func (s *Store) Save(ctx context.Context, app *application.Application) error {
	payload, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	k := key(app.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return err
		}
		var stored struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(raw, &stored); err != nil {
			return fmt.Errorf("%w: %v", sentinel.ErrInvalidState, err)
		}
		if stored.Version != app.Version-1 {
			return sentinel.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, payload, s.ttl)
			return nil
		})
		return err
	}, k)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return sentinel.ErrConflict
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrInvalidState):
		return err
	default:
		return fmt.Errorf("%w: save application: %v", sentinel.ErrUnavailable, err)
	}
}

func decode(raw []byte) (*application.Application, error) {
	var app application.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, fmt.Errorf("%w: decode application: %v", sentinel.ErrInvalidState, err)
	}
	return &app, nil
}
