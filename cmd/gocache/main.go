package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gocache/internal/cache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gocache: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	capacity := flag.Int("capacity", 0, "cache capacity (overrides config)")
	hasherName := flag.String("hasher", "", "byte hasher: xor, bj, djb or xxhash (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "capacity":
			cfg.Capacity = *capacity
		case "hasher":
			cfg.Hasher = *hasherName
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Signal-aware context is the root of ownership for long-lived background work.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := cfg.CacheOptions(logger)
	if err != nil {
		return err
	}
	c, err := cache.New[string, string](cfg.Capacity, opts...)
	if err != nil {
		return err
	}

	logger.Info("gocache demo starting",
		"capacity", cfg.Capacity,
		"hasher", cfg.Hasher,
		"report_interval", cfg.ReportInterval,
	)

	lruDemo(logger, c)
	memoDemo(logger, c)

	s := cache.NewSynchronized(c, cache.SyncConfig{
		ReportInterval: cfg.ReportInterval,
		Logger:         logger,
	})
	defer func() {
		// Close is idempotent; safe to call in defer.
		if err := s.Close(); err != nil {
			logger.Error("cache close", "error", err)
		}
	}()

	// Wait long enough for at least one report tick.
	wait := time.NewTimer(3*cfg.ReportInterval + 50*time.Millisecond)
	defer wait.Stop()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		return nil
	case <-wait.C:
	}

	logger.Info("final state", "keys", s.Keys(), "stats", fmt.Sprintf("%+v", s.Stats()))
	fmt.Println("Done. Press Ctrl+C to exit immediately next time.")
	return nil
}

// lruDemo fills the cache past capacity and shows which key goes.
func lruDemo(logger *slog.Logger, c *cache.Cache[string, string]) {
	_ = c.Put("a", "A")
	_ = c.Put("b", "B")

	// Touch "a" so "b" becomes least-recently-used.
	if v, err := c.Get("a"); err == nil {
		logger.Info("GET a (touches a -> MRU)", "value", v)
	}

	// With capacity 2, inserting "c" evicts "b".
	_ = c.Put("c", "C")
	if _, err := c.Get("b"); errors.Is(err, cache.ErrNotFound) {
		logger.Info("GET b: missing (evicted as LRU)")
	}
	logger.Info("after eviction (MRU->LRU)", "cache", c.String())
}

// memoDemo computes a value once and serves it from the cache afterwards.
func memoDemo(logger *slog.Logger, c *cache.Cache[string, string]) {
	computed := 0
	square := func(n int) func() string {
		return func() string {
			computed++
			return strconv.Itoa(n * n)
		}
	}

	for i := 0; i < 2; i++ {
		v, err := c.TryGet("sq12", square(12))
		if err != nil {
			logger.Error("tryGet failed", "error", err)
			return
		}
		logger.Info("TryGet sq12", "value", v, "computed", computed)
	}
	logger.Info("after memoization (MRU->LRU)",
		"cache", c.String(),
		"collisions", c.Collisions(),
		"max_collision", c.MaxCollision(),
	)
}
