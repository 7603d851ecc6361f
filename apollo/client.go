package apollo

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/apolloconfig/agollo/v4"
	agolloconfig "github.com/apolloconfig/agollo/v4/config"
	"github.com/ethereum/go-ethereum/log"
	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

const (
	cacheTTL        = 60 * time.Second
	cacheCleanup    = 2 * time.Minute
	refreshInterval = 30 * time.Second

	// maxCacheEntries bounds the number of distinct keys held at once.
	// patrickmn/go-cache has no built-in capacity limit, so it is enforced
	// here: a new key (one not already present) is only admitted once an
	// existing entry is evicted to make room.
	maxCacheEntries = 1000

	// contentKey is the well-known Apollo property name under which a
	// non-properties-format namespace (yaml, yml, json, txt) stores its
	// entire document body.
	contentKey = "content"
)

// configSource abstracts the underlying control-plane SDK so the polling
// and caching logic can be exercised without a live Apollo meta-server.
type configSource interface {
	fetchNamespace(fullNamespace string) (string, error)
	close()
}

// agolloSource is the real configSource backed by the Apollo Go SDK.
type agolloSource struct {
	client agollo.Client
}

func newAgolloSource(cfg Config) (*agolloSource, error) {
	appConfig := &agolloconfig.AppConfig{
		AppID:         cfg.AppID,
		Cluster:       cfg.ClusterName,
		IP:            strings.Join(cfg.MetaServers, ","),
		NamespaceName: strings.Join(cfg.Namespaces, ","),
		Secret:        cfg.Secret,
		IsBackupConfig: false,
	}
	client, err := agollo.StartWithConfig(func() (*agolloconfig.AppConfig, error) {
		return appConfig, nil
	})
	if err != nil {
		return nil, fmt.Errorf("apollo: start agollo client: %w", err)
	}
	return &agolloSource{client: client}, nil
}

func (s *agolloSource) fetchNamespace(fullNamespace string) (string, error) {
	c := s.client.GetConfigCache(fullNamespace)
	if c == nil {
		return "", fmt.Errorf("apollo: namespace %q not found in cache", fullNamespace)
	}
	raw, err := c.Get(contentKey)
	if err != nil {
		return "", fmt.Errorf("apollo: read namespace %q: %w", fullNamespace, err)
	}
	doc, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("apollo: namespace %q content is not a string", fullNamespace)
	}
	return doc, nil
}

func (s *agolloSource) close() {}

// Client is the process-wide dynamic-config service: it fetches a YAML
// document per configured namespace on a 30-second tick, parses it, and
// updates a 60-second-TTL, capacity-bounded cache that consumers read
// through Get/typed accessors. Refreshes happen only on that tick; the
// SDK's own change notifications are not subscribed to.
type Client struct {
	nsMap  map[string]string // prefix -> fully-qualified namespace
	cache  *gocache.Cache
	source configSource

	shutdown chan struct{}
	done     chan struct{}
}

var (
	singletonOnce     sync.Once
	singletonInstance *Client
	singletonErr      error
)

// Initialize returns the process singleton, constructing it on the first
// call. Every subsequent call returns the already-initialized instance and
// silently ignores the config argument — this is an intentional idempotent
// singleton, not a bug: a background refresh loop plus a live SDK
// connection cannot be safely torn down and rebuilt mid-process.
func Initialize(cfg Config) (*Client, error) {
	singletonOnce.Do(func() {
		singletonInstance, singletonErr = newClient(cfg)
	})
	return singletonInstance, singletonErr
}

func newClient(cfg Config) (*Client, error) {
	nsMap, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	source, err := newAgolloSource(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{
		nsMap:    nsMap,
		cache:    gocache.New(cacheTTL, cacheCleanup),
		source:   source,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	c.refreshAll()
	go c.loop()
	return c, nil
}

// newClientWithSource is the test seam: it skips the real SDK dial and lets
// unit tests supply a fake configSource.
func newClientWithSource(cfg Config, source configSource) (*Client, error) {
	nsMap, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	c := &Client{
		nsMap:    nsMap,
		cache:    gocache.New(cacheTTL, cacheCleanup),
		source:   source,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	return c, nil
}

// Shutdown signals the refresh loop to stop and waits for it to exit. The
// loop selects on the signal alongside its ticker, so it exits at once when
// idle, or as soon as an in-progress refresh finishes.
func (c *Client) Shutdown() {
	select {
	case <-c.shutdown:
		// already closed
	default:
		close(c.shutdown)
	}
	<-c.done
	c.source.close()
}

func (c *Client) loop() {
	defer close(c.done)
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.shutdown:
			return
		case <-ticker.C:
			c.refreshAll()
		}
	}
}

func (c *Client) refreshAll() {
	for prefix, full := range c.nsMap {
		c.refreshNamespace(prefix, full)
	}
}

func (c *Client) refreshNamespace(prefix, full string) {
	doc, err := c.source.fetchNamespace(full)
	if err != nil {
		log.Warn("apollo: refresh namespace failed", "namespace", full, "err", err)
		return
	}
	var decoded map[string]any
	if err := yaml.Unmarshal([]byte(doc), &decoded); err != nil {
		log.Error("apollo: decode namespace document failed", "namespace", full, "err", err)
		return
	}
	for key, raw := range decoded {
		c.setCacheEntry(cacheKey(prefix, key), FromJSON(normalizeYAML(raw)))
	}
}

// setCacheEntry writes key, first evicting an arbitrary existing entry if
// key is new and the cache is already at maxCacheEntries. Refreshing a key
// that is already cached never evicts, since it does not grow the entry
// count.
func (c *Client) setCacheEntry(key string, val Value) {
	if _, found := c.cache.Get(key); !found {
		for evictKey := range c.cache.Items() {
			if c.cache.ItemCount() < maxCacheEntries {
				break
			}
			c.cache.Delete(evictKey)
			log.Debug("apollo: cache at capacity, evicted entry", "evicted", evictKey, "cap", maxCacheEntries)
		}
	}
	c.cache.SetDefault(key, val)
}

// normalizeYAML recursively converts yaml.v3's native decode types
// ([]interface{}, map[string]interface{}, int, float64, ...) into the
// subset FromJSON understands.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAML(e)
		}
		return out
	case map[string]any:
		// Config values are scalar/array leaves; a nested map has no
		// direct Value representation and is flattened to its string form.
		return fmt.Sprintf("%v", t)
	default:
		return t
	}
}

// cacheKey builds the normative "{namespace_prefix}:{key}" cache key. This
// is the only place a cache key is constructed, so the bare-"key" form
// (Open Question (b)) never enters the cache.
func cacheKey(prefix, key string) string {
	return prefix + ":" + key
}

// Get looks up a cached value by namespace prefix and key. A bare key
// lookup (no prefix) always misses: the cache only ever stores entries
// keyed "prefix:key".
func (c *Client) Get(namespacePrefix, key string) (Value, bool) {
	v, found := c.cache.Get(cacheKey(namespacePrefix, key))
	if !found {
		log.Debug("apollo: config key miss", "namespace", namespacePrefix, "key", key)
		return Value{}, false
	}
	val, ok := v.(Value)
	return val, ok
}

// GetOr is the typed-lookup-with-default helper consumers are expected to
// wrap every config read in: it substitutes def on a cache miss, a stored
// value of the wrong shape, or a coercion failure, logging a debug line for
// the miss case.
func GetOr[T any](c *Client, namespacePrefix, key string, accessor func(Value) (T, bool), def T) T {
	v, found := c.Get(namespacePrefix, key)
	if !found {
		return def
	}
	t, ok := accessor(v)
	if !ok {
		return def
	}
	return t
}

// ConfigContext merges flags (typically CLI defaults) with the current
// cached config for namespacePrefix: every cached key overrides the
// corresponding flag, with ConfigValue::Array entries joined by commas so a
// scalar-expecting flag consumer still gets a usable string. Ported from
// the original client's get_config_context, which the distilled spec
// omitted.
func (c *Client) ConfigContext(namespacePrefix string, flags map[string]string) map[string]string {
	merged := make(map[string]string, len(flags))
	for k, v := range flags {
		merged[k] = v
	}
	prefix := namespacePrefix + ":"
	for k := range c.cache.Items() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		flagName := strings.TrimPrefix(k, prefix)
		v, found := c.cache.Get(k)
		if !found {
			continue
		}
		val, ok := v.(Value)
		if !ok {
			continue
		}
		merged[flagName] = scalarize(val)
	}
	return merged
}

func scalarize(v Value) string {
	if arr, ok := v.AsArray(); ok {
		parts := make([]string, 0, len(arr))
		for _, e := range arr {
			parts = append(parts, scalarize(e))
		}
		return strings.Join(parts, ",")
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	if u, ok := v.AsU64(); ok {
		return strconv.FormatUint(u, 10)
	}
	if i, ok := v.AsI64(); ok {
		return strconv.FormatInt(i, 10)
	}
	if f, ok := v.AsF64(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if b, ok := v.AsBool(); ok {
		return strconv.FormatBool(b)
	}
	return ""
}
