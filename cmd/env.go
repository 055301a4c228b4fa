package cmd

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/prepdeck/internal/cache"
	"github.com/abhisek/prepdeck/internal/config"
	"github.com/abhisek/prepdeck/internal/events"
	"github.com/abhisek/prepdeck/internal/leaderboard"
	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
	"github.com/abhisek/prepdeck/internal/store/pgstore"
)

// env bundles what every command needs: config, logger, the SQLite store
// and the configured result and cache backends.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store

	results store.ResultRepo
	pools   cache.PoolCache
	memory  *cache.Memory   // set when the pool cache is in-process
	redis   *goredis.Client // set when the pool cache is redis

	closers []func()
}

// setup loads config and opens every backend. A nil log builds one from
// the configured mode.
func setup(cmd *cobra.Command, log *logger.Logger) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}
	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, log.Sync)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { st.Close() })

	if err := e.openResults(ctx); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.openCache(ctx); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) openResults(ctx context.Context) error {
	if e.cfg.Results.Backend != "postgres" {
		e.results = e.store.Results()
		return nil
	}
	pool, err := pgstore.Connect(ctx, e.cfg.Results.PostgresURL)
	if err != nil {
		return err
	}
	e.closers = append(e.closers, pool.Close)
	repo, err := pgstore.NewResultRepo(ctx, pool)
	if err != nil {
		return err
	}
	e.results = repo
	e.log.Info("results backend", "backend", "postgres")
	return nil
}

func (e *env) openCache(ctx context.Context) error {
	if e.cfg.Cache.Backend != "redis" {
		e.memory = cache.NewMemory()
		e.pools = e.memory
		return nil
	}
	rdb, err := cache.DialRedis(ctx, e.cfg.Cache.RedisAddr)
	if err != nil {
		return err
	}
	e.closers = append(e.closers, func() { rdb.Close() })
	e.redis = rdb
	e.pools = cache.NewRedis(rdb, "shared")
	e.log.Info("pool cache", "backend", "redis", "addr", e.cfg.Cache.RedisAddr)
	return nil
}

// scopeCache gives user a private pool namespace. The in-process cache
// is already private to this process.
func (e *env) scopeCache(user string) {
	if e.redis != nil {
		e.pools = cache.NewRedis(e.redis, "user:"+user)
	}
}

// Close releases backends in reverse order of opening.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

func (e *env) sampler() *sampler.Sampler {
	return sampler.New(sampler.Config{
		Bank:        e.store.Questions(),
		Assignments: e.store.Assignments(),
		Cache:       e.pools,
		Caps:        e.cfg.Caps(),
		CacheTTL:    e.cfg.Cache.TTL,
		Logger:      e.log,
	})
}

// listener logs engine events and, when events.amqp_url is set, publishes
// every event except clock ticks to the broker.
func (e *env) listener() (session.Listener, error) {
	logged := events.LogListener(e.log)
	if e.cfg.Events.AMQPURL == "" {
		return logged, nil
	}
	pub, err := events.Dial(e.cfg.Events.AMQPURL, e.cfg.Events.Exchange, e.log)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, func() { pub.Close() })
	published := events.Filter(pub,
		session.EventIntro, session.EventAdvance, session.EventExpire,
		session.EventComplete, session.EventError)
	return events.Multi(logged, published), nil
}

func (e *env) reference() ([]leaderboard.Entry, error) {
	return leaderboard.LoadReference(e.cfg.Leaderboard.ReferenceFile)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then the db_path setting, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
