package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/centerbox/pkg/box"
	"github.com/matzehuels/centerbox/pkg/cache"
	"github.com/matzehuels/centerbox/pkg/errors"
	pkgio "github.com/matzehuels/centerbox/pkg/io"
	"github.com/matzehuels/centerbox/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long search results stay cached.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLBoxes,
	}
}

// Execute splits text into words, finds the valid boxes and, when
// opts.Best is set, keeps only the best ranked ones. Finding no box is not
// an error: the result has Found == 0.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := errors.ValidateText(text); err != nil {
		return nil, err
	}

	result := &Result{
		ID:       uuid.NewString(),
		Text:     text,
		Words:    box.SplitWords(text),
		Width:    opts.Width,
		MaxLines: opts.MaxLines,
	}

	searchStart := time.Now()
	boxes, hit, err := r.SearchWithCacheInfo(ctx, result.Words, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Stats.SearchTime = time.Since(searchStart)
	result.Found = len(boxes)
	result.CacheHit = hit

	opts.Logger.Debug("searched boxes",
		"words", len(result.Words),
		"found", result.Found,
		"cached", hit,
		"duration", result.Stats.SearchTime)

	if opts.Best && len(boxes) > 0 {
		rankStart := time.Now()
		metric, err := box.MetricByName(opts.Metric)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMetric, err, "rank")
		}
		boxes = box.Rank(boxes, metric)
		result.Metric = opts.Metric
		result.Stats.RankTime = time.Since(rankStart)

		opts.Logger.Debug("ranked boxes",
			"metric", opts.Metric,
			"kept", len(boxes),
			"duration", result.Stats.RankTime)
	}
	result.Boxes = boxes

	return result, nil
}

// SearchWithCacheInfo finds the valid boxes for words with caching and
// returns cache hit info. With opts.Refresh the cached entry is ignored and
// overwritten.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, words []string, opts Options) ([]box.Box, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.BoxKey(words, opts.BoxKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		} else if hit {
			boxes, err := pkgio.UnmarshalBoxes(data, opts.Width, opts.MaxLines)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "boxes")
				return boxes, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
			opts.Logger.Debug("discarding cache entry", "key", cacheKey, "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "boxes")

	boxes, err := Search(ctx, words, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := pkgio.MarshalBoxes(opts.Width, opts.MaxLines, boxes); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "boxes", len(data))
		}
	}

	return boxes, false, nil // Cache miss
}

// Search runs the box search without caching, reporting progress to the
// registered search hooks. Cancellation of ctx maps to an ErrCodeCanceled
// or ErrCodeTimeout error.
func Search(ctx context.Context, words []string, opts Options) ([]box.Box, error) {
	opts.SetDefaults()

	hooks := observability.Search()
	hooks.OnSearchStart(ctx, len(words), opts.Width, opts.MaxLines)
	start := time.Now()

	s := opts.Searcher()
	s.Hooks = levelHooks{ctx: ctx, hooks: hooks, logger: opts.Logger}
	boxes, err := s.FindContext(ctx, words)

	hooks.OnSearchComplete(ctx, len(boxes), time.Since(start), err)
	if err != nil {
		return nil, contextError(err)
	}
	return boxes, nil
}

// levelHooks forwards search progress to the observability hooks.
type levelHooks struct {
	ctx    context.Context
	hooks  observability.SearchHooks
	logger *log.Logger
}

func (h levelHooks) OnLevel(depth, frontier, completed int) {
	h.logger.Debug("search level", "depth", depth, "frontier", frontier, "completed", completed)
	h.hooks.OnSearchLevel(h.ctx, depth, frontier, completed)
}

func contextError(err error) error {
	switch err {
	case context.Canceled:
		return errors.Wrap(errors.ErrCodeCanceled, err, "search canceled")
	case context.DeadlineExceeded:
		return errors.Wrap(errors.ErrCodeTimeout, err, "search timed out")
	}
	return err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
