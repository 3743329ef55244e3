// Package fetch retrieves remote datasets with a single network attempt and
// falls back to the last payload persisted in the cache store.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ggonzalez94/superfluid-cli/internal/cache"
	clierr "github.com/ggonzalez94/superfluid-cli/internal/errors"
)

type Format int

const (
	// FormatJSON payloads are JSON documents.
	FormatJSON Format = iota
	// FormatModule payloads are ES modules whose exports form the document.
	FormatModule
)

func (f Format) String() string {
	if f == FormatModule {
		return "module"
	}
	return "json"
}

// DataSource identifies one remote asset family.
type DataSource struct {
	Name     string
	URL      string
	CacheKey string
	Format   Format
}

type Origin string

const (
	OriginNetwork Origin = "network"
	OriginCache   Origin = "cache"
)

type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Stage(key string, value []byte) (*cache.Staged, error)
}

// ModuleLoader turns module source into a map of export name to JSON value.
type ModuleLoader interface {
	Load(src []byte) (map[string]json.RawMessage, error)
}

type Resolver struct {
	http    Getter
	store   Store
	modules ModuleLoader
	logger  *zap.Logger
	offline bool
}

type Option func(*Resolver)

// WithOffline skips the network attempt and serves the cache only.
func WithOffline(offline bool) Option {
	return func(r *Resolver) { r.offline = offline }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(http Getter, store Store, modules ModuleLoader, opts ...Option) *Resolver {
	r := &Resolver{
		http:    http,
		store:   store,
		modules: modules,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result describes how a dataset was obtained.
type Result struct {
	Source  DataSource
	Origin  Origin
	Latency time.Duration
}

// Resolve returns the decoded dataset for src. It fails only when both the
// network attempt and the cache fallback fail; that error carries
// CodeFetchFailure.
func Resolve[T any](ctx context.Context, r *Resolver, src DataSource, decode func(doc []byte) (T, error)) (T, Result, error) {
	start := time.Now()
	var zero T

	var fetchErr error
	if r.offline {
		fetchErr = errors.New("offline mode")
	} else {
		value, err := fresh(ctx, r, src, decode)
		if err == nil {
			return value, Result{Source: src, Origin: OriginNetwork, Latency: time.Since(start)}, nil
		}
		fetchErr = err
		r.logger.Debug("network fetch failed", zap.String("source", src.Name), zap.String("url", src.URL), zap.Error(err))
	}

	value, cacheErr := cached(r, src, decode)
	if cacheErr == nil {
		if !r.offline {
			r.logger.Warn("network fetch failed, serving cached copy",
				zap.String("source", src.Name), zap.String("cache_key", src.CacheKey), zap.Error(fetchErr))
		}
		return value, Result{Source: src, Origin: OriginCache, Latency: time.Since(start)}, nil
	}
	r.logger.Debug("cache fallback failed", zap.String("source", src.Name), zap.Error(cacheErr))

	return zero, Result{Source: src}, clierr.Wrap(
		clierr.CodeFetchFailure,
		fmt.Sprintf("could not fetch %s from CDN and no local cache found", src.Name),
		fetchErr,
	).WithHints(
		"CDN URL: "+src.URL,
		"Fetch error: "+fetchErr.Error(),
	)
}

func fresh[T any](ctx context.Context, r *Resolver, src DataSource, decode func([]byte) (T, error)) (T, error) {
	var zero T
	payload, err := r.http.Get(ctx, src.URL)
	if err != nil {
		return zero, unwrapCause(err)
	}

	if src.Format == FormatModule {
		return freshModule(r, src, payload, decode)
	}

	value, err := parse(r, src, payload, decode)
	if err != nil {
		return zero, err
	}
	if r.store != nil {
		if err := r.store.Write(src.CacheKey, payload); err != nil {
			r.logger.Warn("cache write failed", zap.String("cache_key", src.CacheKey), zap.Error(err))
		}
	}
	return value, nil
}

// freshModule persists the module to a staged local file, loads it from that
// file, and only then promotes it to the cache entry.
func freshModule[T any](r *Resolver, src DataSource, payload []byte, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if r.store == nil {
		return zero, errors.New("module sources require a cache directory")
	}
	staged, err := r.store.Stage(src.CacheKey, payload)
	if err != nil {
		return zero, fmt.Errorf("persist module: %w", err)
	}
	defer staged.Discard()

	body, err := os.ReadFile(staged.Path())
	if err != nil {
		return zero, fmt.Errorf("read staged module: %w", err)
	}
	value, err := parse(r, src, body, decode)
	if err != nil {
		return zero, err
	}
	if err := staged.Commit(); err != nil {
		r.logger.Warn("cache write failed", zap.String("cache_key", src.CacheKey), zap.Error(err))
	}
	return value, nil
}

func cached[T any](r *Resolver, src DataSource, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if r.store == nil {
		return zero, cache.ErrNotFound
	}
	payload, err := r.store.Read(src.CacheKey)
	if err != nil {
		return zero, err
	}
	return parse(r, src, payload, decode)
}

func parse[T any](r *Resolver, src DataSource, payload []byte, decode func([]byte) (T, error)) (T, error) {
	var zero T
	doc := payload
	switch src.Format {
	case FormatModule:
		if r.modules == nil {
			return zero, errors.New("no module loader configured")
		}
		exports, err := r.modules.Load(payload)
		if err != nil {
			return zero, fmt.Errorf("load module: %w", err)
		}
		doc, err = json.Marshal(exports)
		if err != nil {
			return zero, fmt.Errorf("encode module exports: %w", err)
		}
	default:
		if !json.Valid(payload) {
			return zero, errors.New("response is not valid JSON")
		}
	}
	value, err := decode(doc)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", src.Name, err)
	}
	return value, nil
}

// unwrapCause strips the transport wrapper so diagnostics read "HTTP 404"
// rather than "unexpected response status: HTTP 404".
func unwrapCause(err error) error {
	if cErr, ok := clierr.As(err); ok && cErr.Cause != nil {
		return cErr.Cause
	}
	return err
}

// JSON returns a decoder that unmarshals the document into T.
func JSON[T any]() func([]byte) (T, error) {
	return func(doc []byte) (T, error) {
		var out T
		err := json.Unmarshal(doc, &out)
		return out, err
	}
}
