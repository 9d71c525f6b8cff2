package registry

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// MemoryStore is an in-process pool registry with the same contract as the
// Redis-backed Store. Used by tests and single-binary deployments.
type MemoryStore struct {
	mu           sync.RWMutex
	pools        map[string]*models.Pool
	supplies     map[string]*big.Int
	config       *models.Config
	defaultLimit int
	maxLimit     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pools:        make(map[string]*models.Pool),
		supplies:     make(map[string]*big.Int),
		defaultLimit: DefaultPageLimit,
		maxLimit:     MaxPageLimit,
	}
}

func (s *MemoryStore) UpsertPool(_ context.Context, pool *models.Pool) error {
	if err := ValidateIdentifier(pool.ID); err != nil {
		return err
	}
	if len(pool.Assets) < 2 {
		return fmt.Errorf("pool %q must hold at least two assets", pool.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool.ID] = pool
	return nil
}

func (s *MemoryStore) GetPool(_ context.Context, id string) (*models.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPoolNotFound, id)
	}
	return pool, nil
}

func (s *MemoryStore) ListPools(_ context.Context, afterID string, limit int) ([]*models.Pool, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.pools))
	for id := range s.pools {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*models.Pool, 0, limit)
	for _, id := range ids {
		if afterID != "" && id <= afterID {
			continue
		}
		out = append(out, s.pools[id])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) DeletePool(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pools, id)
	return nil
}

func (s *MemoryStore) SetSupply(_ context.Context, denom string, supply *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supplies[denom] = new(big.Int).Set(supply)
	return nil
}

func (s *MemoryStore) TotalSupply(_ context.Context, denom string) (*big.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	supply, ok := s.supplies[denom]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(supply), nil
}

func (s *MemoryStore) SetConfig(_ context.Context, cfg *models.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	return nil
}

func (s *MemoryStore) GetConfig(_ context.Context) (*models.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return nil, ErrConfigNotFound
	}
	return s.config, nil
}
