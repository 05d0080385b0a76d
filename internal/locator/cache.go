package locator

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/hyperjump/tensaku/internal/models"
)

// spanCache is an LRU cache of located spans. Plugins frequently report the
// same snippet more than once within a run; caching avoids rescanning the
// haystack. Only hits are cached: a miss may later succeed with different
// options or an available LLM fallback.
type spanCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type spanEntry struct {
	key  string
	span *models.LocatedSpan
}

func newSpanCache(capacity int) *spanCache {
	if capacity <= 0 {
		return nil
	}
	return &spanCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// cacheKey derives a key from the target, the haystack, and the option flags
// that change matching behavior. The haystack is hashed, not stored.
func cacheKey(target, haystack string, opts Options) string {
	h := sha256.Sum256([]byte(haystack))
	return fmt.Sprintf("%s|%t|%t|%t|%s",
		hex.EncodeToString(h[:16]), opts.NormalizeQuotes, opts.PartialMatch, opts.UseLLMFallback, target)
}

func (c *spanCache) Get(key string) (*models.LocatedSpan, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		span := *elem.Value.(*spanEntry).span
		return &span, true
	}
	return nil, false
}

func (c *spanCache) Set(key string, span *models.LocatedSpan) {
	if c == nil || span == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *span
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*spanEntry).span = &copied
		return
	}
	elem := c.lru.PushFront(&spanEntry{key: key, span: &copied})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*spanEntry).key)
		}
	}
}
