package pipeline

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/ocds"
)

// DefaultMemoSize bounds the number of fetch tuples kept in memory. Each
// entry holds a whole batch, so server mode must not grow without limit.
const DefaultMemoSize = 64

// Batch sources reported by LoadResult.Source.
const (
	SourceMemo   = "memo"
	SourceCache  = "cache"
	SourceRemote = "remote"
)

// Fetcher retrieves the raw batch for a fetch tuple.
type Fetcher interface {
	Fetch(ctx context.Context, key model.Key) ([]model.Record, error)
}

// BatchCache persists fetched batches across runs.
type BatchCache interface {
	Get(key model.Key, maxAge time.Duration) ([]model.Record, time.Time, bool, error)
	Put(key model.Key, records []model.Record) error
}

// RemoteFetcher fetches page 1 of the search endpoint. The process type is
// not sent; it is applied after fetching.
type RemoteFetcher struct {
	Client *ocds.Client
}

// Fetch implements Fetcher.
func (f RemoteFetcher) Fetch(ctx context.Context, key model.Key) ([]model.Record, error) {
	return f.Client.Search(ctx, ocds.Query{Year: key.Year, Search: key.Region, Page: 1})
}

// LoadResult holds the outcome of loading one fetch tuple. Err is set when
// the fetch failed; Records is then empty and the caller sees no data.
type LoadResult struct {
	Key       model.Key
	Records   []model.Record
	Source    string
	FetchedAt time.Time
	Err       error
}

type memoEntry struct {
	records   []model.Record
	fetchedAt time.Time
}

// Loader resolves fetch tuples through the in-process memo, the optional
// persistent cache and finally the fetcher. It is safe for concurrent use;
// identical in-flight loads share one fetch. The memo keeps the most
// recently used tuples up to its size.
type Loader struct {
	fetcher  Fetcher
	cache    BatchCache
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
	memoSize int

	memo  *lru.Cache[model.Key, memoEntry]
	group singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache enables the persistent cache with entries valid for ttl.
// A ttl of zero never expires entries.
func WithCache(c BatchCache, ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.cache = c
		l.ttl = ttl
	}
}

// WithLogger sets the logger used for cache and fetch diagnostics.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMemoSize sets how many fetch tuples the memo keeps. Values below one
// fall back to DefaultMemoSize.
func WithMemoSize(n int) LoaderOption {
	return func(l *Loader) {
		l.memoSize = n
	}
}

// NewLoader creates a loader backed by f.
func NewLoader(f Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:  f,
		log:      zap.NewNop(),
		now:      time.Now,
		memoSize: DefaultMemoSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.memoSize < 1 {
		l.memoSize = DefaultMemoSize
	}
	// lru.New only fails on a non-positive size.
	l.memo, _ = lru.New[model.Key, memoEntry](l.memoSize)
	return l
}

// Load returns the batch for key, fetching it at most once per process.
func (l *Loader) Load(ctx context.Context, key model.Key) *LoadResult {
	if res, ok := l.fromMemo(key); ok {
		return res
	}
	return l.do(ctx, key, true)
}

// Refresh bypasses the memo and the persistent cache and fetches key again.
// A successful result replaces the memoized one.
func (l *Loader) Refresh(ctx context.Context, key model.Key) *LoadResult {
	return l.do(ctx, key, false)
}

// Report loads the batch for f and builds its report. The returned
// LoadResult is non-nil even when err is ErrNoData.
func (l *Loader) Report(ctx context.Context, f model.Filter) (*model.Report, *model.Table, *LoadResult, error) {
	return reportFrom(l.Load(ctx, f.Key()), f)
}

// RefreshReport is Report on a freshly fetched batch.
func (l *Loader) RefreshReport(ctx context.Context, f model.Filter) (*model.Report, *model.Table, *LoadResult, error) {
	return reportFrom(l.Refresh(ctx, f.Key()), f)
}

func reportFrom(res *LoadResult, f model.Filter) (*model.Report, *model.Table, *LoadResult, error) {
	report, table, err := Build(res.Records, f)
	if err != nil {
		return nil, nil, res, err
	}
	report.FetchedAt = res.FetchedAt
	return report, table, res, nil
}

func (l *Loader) fromMemo(key model.Key) (*LoadResult, bool) {
	e, ok := l.memo.Get(key)
	if !ok {
		return nil, false
	}
	return &LoadResult{Key: key, Records: e.records, Source: SourceMemo, FetchedAt: e.fetchedAt}, true
}

func (l *Loader) remember(key model.Key, records []model.Record, at time.Time) {
	if l.memo.Add(key, memoEntry{records: records, fetchedAt: at}) {
		l.log.Debug("memo full, evicted least recently used batch", zap.Int("size", l.memoSize))
	}
}

func (l *Loader) do(ctx context.Context, key model.Key, useCache bool) *LoadResult {
	flight := key.String()
	if !useCache {
		flight = "refresh:" + flight
	}
	v, _, _ := l.group.Do(flight, func() (any, error) {
		return l.load(ctx, key, useCache), nil
	})
	return v.(*LoadResult)
}

func (l *Loader) load(ctx context.Context, key model.Key, useCache bool) *LoadResult {
	log := l.log.With(zap.Stringer("key", key))

	// A flight that finished between the caller's memo check and Do has
	// already stored its result.
	if useCache {
		if res, ok := l.fromMemo(key); ok {
			return res
		}
	}

	if useCache && l.cache != nil {
		records, at, ok, err := l.cache.Get(key, l.ttl)
		switch {
		case err != nil:
			log.Warn("cache read failed", zap.Error(err))
		case ok:
			log.Debug("cache hit", zap.Int("records", len(records)))
			l.remember(key, records, at)
			return &LoadResult{Key: key, Records: records, Source: SourceCache, FetchedAt: at}
		}
	}

	start := l.now()
	records, err := l.fetcher.Fetch(ctx, key)
	if err != nil {
		log.Warn("fetch failed", zap.Error(err))
		return &LoadResult{Key: key, Source: SourceRemote, Err: err}
	}
	log.Info("fetched",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", l.now().Sub(start)))

	l.remember(key, records, start)

	// Empty batches are memoized but not persisted so a later run asks again.
	if l.cache != nil && len(records) > 0 {
		if err := l.cache.Put(key, records); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}
	return &LoadResult{Key: key, Records: records, Source: SourceRemote, FetchedAt: start}
}
