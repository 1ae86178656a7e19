package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"falconsphere/internal/models"
)

var (
	// ErrGameNotFound is returned when no game document exists for a code.
	ErrGameNotFound = errors.New("game not found")
	// ErrCodeTaken is returned when creating a game under a code that is
	// already in use.
	ErrCodeTaken = errors.New("join code already in use")
	// ErrTooMuchContention is returned when an optimistic update keeps
	// losing the race against concurrent writers.
	ErrTooMuchContention = errors.New("game document update failed after retries")
)

const (
	// Live games expire a day after their last write; abandoned sessions
	// do not accumulate forever.
	gameTTL = 24 * time.Hour
	// Ended games stick around long enough to read the final leaderboard.
	endedGameTTL = time.Hour

	updateRetries = 16
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client}
}

// Ping verifies connectivity at startup.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func gameKey(code string) string {
	return "game:" + code
}

func leaderboardKey(code string) string {
	return "leaderboard:" + code
}

// CreateGame stores a new game document under its join code. Fails with
// ErrCodeTaken if the code is already live, so callers can re-mint.
func (c *RedisCache) CreateGame(ctx context.Context, game *models.GameState) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	ok, err := c.client.SetNX(ctx, gameKey(game.Code), data, gameTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeTaken
	}
	return nil
}

// GetGame reads the game document for a join code.
func (c *RedisCache) GetGame(ctx context.Context, code string) (*models.GameState, error) {
	data, err := c.client.Get(ctx, gameKey(code)).Bytes()
	if err == redis.Nil {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var game models.GameState
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GameExists reports whether a game document is live for the given code.
func (c *RedisCache) GameExists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, gameKey(code)).Result()
	return n > 0, err
}

// UpdateGame applies mutate to the game document under an optimistic
// transaction: the key is WATCHed, the document re-read, mutated, its
// version bumped, and written back only if no other writer touched the key
// in between. Lost concurrent writes, the central defect of the old
// read-modify-write flow, are impossible here; losers simply retry.
func (c *RedisCache) UpdateGame(ctx context.Context, code string, mutate func(*models.GameState) error) (*models.GameState, error) {
	key := gameKey(code)
	var updated *models.GameState

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}

		var game models.GameState
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		if err := mutate(&game); err != nil {
			return err
		}
		game.Version++

		out, err := json.Marshal(&game)
		if err != nil {
			return err
		}

		ttl := gameTTL
		if game.Status == models.GameEnded {
			ttl = endedGameTTL
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &game
		return nil
	}

	for i := 0; i < updateRetries; i++ {
		err := c.client.Watch(ctx, txn, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrTooMuchContention
}

// SetLeaderboard replaces the persisted final standings for a game. The
// entries are stored whole, already ranked; keying a structure on display
// names would silently merge namesakes.
func (c *RedisCache) SetLeaderboard(ctx context.Context, code string, entries []models.LeaderboardEntry) error {
	data, err := encodeLeaderboard(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey(code), data, endedGameTTL).Err()
}

// GetLeaderboard reads the persisted final standings in their stored order.
// Returns an empty slice when no leaderboard survives for the code.
func (c *RedisCache) GetLeaderboard(ctx context.Context, code string) ([]models.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, leaderboardKey(code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeLeaderboard(data)
}

func encodeLeaderboard(entries []models.LeaderboardEntry) ([]byte, error) {
	return json.Marshal(entries)
}

func decodeLeaderboard(data []byte) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
