package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// MsgNoAPIKeys is the banner shown when no usable API key is configured.
const MsgNoAPIKeys = "No API keys have been set. Please configure your API keys in the settings to use the application."

// KeyCache holds the API key records fetched for the current session.
type KeyCache interface {
	// Keys returns the cached records and whether a fetch has completed.
	Keys() ([]spurs.APIKey, bool)
	// Store replaces the cached records.
	Store(keys []spurs.APIKey)
}

// MemoryKeyCache is a KeyCache kept in memory.
type MemoryKeyCache struct {
	mu     sync.Mutex
	keys   []spurs.APIKey
	stored bool
}

// Keys implements KeyCache.
func (c *MemoryKeyCache) Keys() ([]spurs.APIKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]spurs.APIKey, len(c.keys))
	copy(out, c.keys)
	return out, c.stored
}

// Store implements KeyCache.
func (c *MemoryKeyCache) Store(keys []spurs.APIKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = make([]spurs.APIKey, len(keys))
	copy(c.keys, keys)
	c.stored = true
}

// KeyStatus summarizes the configured API keys.
type KeyStatus struct {
	Keys    []spurs.APIKey
	Loaded  bool
	Loading bool
}

// Missing reports whether the no-keys banner should be shown: the fetch has
// completed and no key carries a value.
func (s KeyStatus) Missing() bool {
	if !s.Loaded || s.Loading {
		return false
	}
	for _, k := range s.Keys {
		if k.Set() {
			return false
		}
	}
	return true
}

// APIKeys fetches API key records into a KeyCache.
type APIKeys struct {
	svc   Service
	cache KeyCache
	log   *zap.Logger
	life  lifetime

	mu      sync.Mutex
	loading bool
}

// NewAPIKeys returns an APIKeys controller backed by cache. A nil cache gets
// a fresh MemoryKeyCache.
func NewAPIKeys(svc Service, cache KeyCache, opts Options) *APIKeys {
	opts = opts.withDefaults()
	if cache == nil {
		cache = &MemoryKeyCache{}
	}
	return &APIKeys{
		svc:   svc,
		cache: cache,
		log:   opts.Logger.Named("apikeys"),
		life:  newLifetime(),
	}
}

// Load lists the key names and fetches each record in turn. A failure
// leaves the cache untouched and is only logged.
func (a *APIKeys) Load(ctx context.Context) error {
	ctx, release, err := a.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	a.mu.Lock()
	a.loading = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.loading = false
		a.mu.Unlock()
	}()

	keys, err := a.fetch(ctx)
	if err := a.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		a.log.Error("failed to fetch API keys", zap.Error(err))
		return deckerrors.Wrap(err, "load api keys")
	}

	a.cache.Store(keys)
	return nil
}

// Status returns the cached keys and loading state.
func (a *APIKeys) Status() KeyStatus {
	a.mu.Lock()
	loading := a.loading
	a.mu.Unlock()

	keys, loaded := a.cache.Keys()
	return KeyStatus{Keys: keys, Loaded: loaded, Loading: loading}
}

// Close cancels in-flight operations.
func (a *APIKeys) Close() {
	a.life.close()
}

func (a *APIKeys) fetch(ctx context.Context) ([]spurs.APIKey, error) {
	names, err := a.svc.ListAPIKeyNames(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]spurs.APIKey, 0, len(names))
	for _, name := range names {
		key, err := a.svc.GetAPIKey(ctx, name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, spurs.APIKey{Name: name, Value: key.Value})
	}
	return keys, nil
}
