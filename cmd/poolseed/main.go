// poolseed loads pool snapshots, LP supplies and the contract config record
// from a JSON file into the Redis-backed registry the pricing API reads.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/config"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/registry"
)

// seedFile is the on-disk format consumed by poolseed.
type seedFile struct {
	Config *models.Config `json:"config,omitempty"`
	Pools  []seedPool     `json:"pools"`
}

type seedPool struct {
	models.Pool
	TotalShare string `json:"total_share"`
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	file := flag.String("file", "pools.json", "path to the pool seed file")
	flush := flag.Bool("flush", false, "delete existing pools before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.WithError(err).Fatal("failed to read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		logger.WithError(err).Fatal("failed to parse seed file")
	}
	if len(seed.Pools) == 0 {
		logger.Fatal("seed file contains no pools")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: 0})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	store, err := registry.NewStoreWithLimits(rclient, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	if err != nil {
		logger.WithError(err).Fatal("failed to create pool registry")
	}

	if *flush {
		existing, err := store.ListPools(ctx, "", cfg.MaxPageLimit)
		if err != nil {
			logger.WithError(err).Fatal("failed to list existing pools")
		}
		for _, pool := range existing {
			if err := store.DeletePool(ctx, pool.ID); err != nil {
				logger.WithError(err).WithField("pool", pool.ID).Fatal("failed to delete pool")
			}
		}
		logger.WithField("count", len(existing)).Info("flushed existing pools")
	}

	if seed.Config != nil {
		if err := store.SetConfig(ctx, seed.Config); err != nil {
			logger.WithError(err).Fatal("failed to set config")
		}
		logger.Info("config record seeded")
	}

	for _, entry := range seed.Pools {
		if err := store.UpsertPool(ctx, &entry.Pool); err != nil {
			logger.WithError(err).WithField("pool", entry.Pool.ID).Fatal("failed to upsert pool")
		}
		if entry.TotalShare != "" {
			share, err := models.ParseAmount(entry.TotalShare)
			if err != nil {
				logger.WithError(err).WithField("pool", entry.Pool.ID).Fatal("invalid total_share")
			}
			if err := store.SetSupply(ctx, entry.Pool.LPDenom, share); err != nil {
				logger.WithError(err).WithField("pool", entry.Pool.ID).Fatal("failed to set supply")
			}
		}
		logger.WithField("pool", entry.Pool.ID).Info("pool seeded")
	}

	logger.WithField("count", len(seed.Pools)).Info("seeding complete")
}
