package cmd

import (
	"context"
	"fmt"

	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/matheuskafuri/newsvoice/internal/logger"
	"github.com/matheuskafuri/newsvoice/internal/nlp"
	"github.com/matheuskafuri/newsvoice/internal/pipeline"
	"github.com/sirupsen/logrus"
)

// env is everything a command needs to run an analysis.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	db      *cache.Cache
	digests cache.DigestCache
}

// setup loads config, the logger, the sqlite cache and, when configured,
// the redis digest cache. tui keeps logs off the terminal.
func setup(ctx context.Context, tui bool) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	var log *logrus.Logger
	if tui {
		log, err = logger.ToFile(level, cfg.Log.File)
	} else {
		log, err = logger.New(level, cfg.Log.File)
	}
	if err != nil {
		return nil, err
	}

	db, err := cache.Open(config.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	e := &env{cfg: cfg, log: log, db: db, digests: cache.NopCache{}}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.RedisTTL())
		if err != nil {
			// Non-fatal: sqlite still serves fresh runs
			log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis unavailable, continuing without it")
		} else {
			e.digests = rc
		}
	}
	return e, nil
}

func (e *env) pipeline() (*pipeline.Pipeline, error) {
	annotator, err := nlp.FromConfig(e.cfg, e.log)
	if err != nil {
		return nil, fmt.Errorf("building annotator: %w", err)
	}
	return pipeline.New(e.cfg, annotator, e.db, e.digests, e.log), nil
}

func (e *env) Close() {
	e.digests.Close()
	e.db.Close()
}

// openCache opens only the sqlite cache, for maintenance commands.
func openCache() (*cache.Cache, string, error) {
	path := config.CachePath()
	db, err := cache.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening cache: %w", err)
	}
	return db, path, nil
}
