// Package registry implements the pool registry backing the pricing engine:
// pool snapshots, liquidity-token supplies and the contract config record,
// stored in Redis.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

const (
	indexKey     = "pools:index"
	poolPrefix   = "pools:"
	supplyPrefix = "supply:"
	configKey    = "pools:config"
)

// Pagination bounds for ListPools. Carried on the store rather than as
// package globals so deployments can tune them.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

var idRe = regexp.MustCompile(`^[a-zA-Z0-9._/-]{1,128}$`)

// ErrPoolNotFound is returned when no pool exists for the identifier.
var ErrPoolNotFound = errors.New("pool not found")

// ErrConfigNotFound is returned before the registry has been seeded with a
// config record.
var ErrConfigNotFound = errors.New("config not found")

// Store is a Redis-backed pool registry.
type Store struct {
	client       redis.Cmdable
	defaultLimit int
	maxLimit     int
}

// NewStore builds a Store with the standard pagination bounds.
func NewStore(client redis.Cmdable) (*Store, error) {
	return NewStoreWithLimits(client, DefaultPageLimit, MaxPageLimit)
}

// NewStoreWithLimits builds a Store with explicit pagination bounds.
func NewStoreWithLimits(client redis.Cmdable, defaultLimit, maxLimit int) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if defaultLimit <= 0 || maxLimit <= 0 || defaultLimit > maxLimit {
		return nil, fmt.Errorf("invalid page limits: default %d, max %d", defaultLimit, maxLimit)
	}
	return &Store{client: client, defaultLimit: defaultLimit, maxLimit: maxLimit}, nil
}

// ValidateIdentifier rejects pool identifiers that cannot be used as Redis
// key components.
func ValidateIdentifier(id string) error {
	if !idRe.MatchString(id) {
		return fmt.Errorf("invalid pool identifier")
	}
	return nil
}

func (s *Store) UpsertPool(ctx context.Context, pool *models.Pool) error {
	if err := ValidateIdentifier(pool.ID); err != nil {
		return err
	}
	if len(pool.Assets) < 2 {
		return fmt.Errorf("pool %q must hold at least two assets", pool.ID)
	}

	b, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, poolKey(pool.ID), b, 0)
	pipe.SAdd(ctx, indexKey, pool.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert pool: %w", err)
	}
	return nil
}

func (s *Store) GetPool(ctx context.Context, id string) (*models.Pool, error) {
	if err := ValidateIdentifier(id); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, poolKey(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %q", ErrPoolNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}

	var pool models.Pool
	if err := json.Unmarshal([]byte(val), &pool); err != nil {
		return nil, fmt.Errorf("unmarshal pool: %w", err)
	}
	return &pool, nil
}

// ListPools pages through the registry in ascending lexicographic identifier
// order, starting strictly after afterID.
func (s *Store) ListPools(ctx context.Context, afterID string, limit int) ([]*models.Pool, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list pools index: %w", err)
	}
	sort.Strings(ids)

	selected := make([]string, 0, limit)
	for _, id := range ids {
		if afterID != "" && id <= afterID {
			continue
		}
		selected = append(selected, poolKey(id))
		if len(selected) == limit {
			break
		}
	}
	if len(selected) == 0 {
		return []*models.Pool{}, nil
	}

	vals, err := s.client.MGet(ctx, selected...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget pools: %w", err)
	}

	out := make([]*models.Pool, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var pool models.Pool
		if err := json.Unmarshal([]byte(raw), &pool); err != nil {
			continue
		}
		out = append(out, &pool)
	}
	return out, nil
}

func (s *Store) DeletePool(ctx context.Context, id string) error {
	if err := ValidateIdentifier(id); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, poolKey(id))
	pipe.SRem(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete pool: %w", err)
	}
	return nil
}

// SetSupply records the total supply of a liquidity-token denom.
func (s *Store) SetSupply(ctx context.Context, denom string, supply *big.Int) error {
	if denom == "" {
		return fmt.Errorf("denom is required")
	}
	if err := s.client.Set(ctx, supplyPrefix+denom, supply.String(), 0).Err(); err != nil {
		return fmt.Errorf("set supply: %w", err)
	}
	return nil
}

// TotalSupply resolves the supply of a liquidity-token denom. Unknown denoms
// report zero, matching bank-module semantics.
func (s *Store) TotalSupply(ctx context.Context, denom string) (*big.Int, error) {
	val, err := s.client.Get(ctx, supplyPrefix+denom).Result()
	if err == redis.Nil {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get supply: %w", err)
	}

	supply, ok := new(big.Int).SetString(val, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt supply value %q for denom %q", val, denom)
	}
	return supply, nil
}

func (s *Store) SetConfig(ctx context.Context, cfg *models.Config) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := s.client.Set(ctx, configKey, b, 0).Err(); err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	return nil
}

func (s *Store) GetConfig(ctx context.Context) (*models.Config, error) {
	val, err := s.client.Get(ctx, configKey).Result()
	if err == redis.Nil {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}

	var cfg models.Config
	if err := json.Unmarshal([]byte(val), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func poolKey(id string) string {
	return poolPrefix + id
}
