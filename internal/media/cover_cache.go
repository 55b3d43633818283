package media

import (
	"container/list"
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/spatail/vbdplayer/pkg/types"
)

type cachedCover struct {
	image      *types.Image // nil when the album has no cover
	lastAccess time.Time
}

type lruCache struct {
	capacity int
	cache    map[string]*list.Element
	list     *list.List
	mu       sync.Mutex
}

type lruItem struct {
	key   string
	value *cachedCover
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		list:     list.New(),
	}
}

func (lru *lruCache) Get(key string) (*cachedCover, bool) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if elem, ok := lru.cache[key]; ok {
		lru.list.MoveToFront(elem)
		item := elem.Value.(*lruItem)
		item.value.lastAccess = time.Now()
		return item.value, true
	}
	return nil, false
}

func (lru *lruCache) Put(key string, value *cachedCover) {
	lru.mu.Lock()
	defer lru.mu.Unlock()

	if elem, ok := lru.cache[key]; ok {
		lru.list.MoveToFront(elem)
		elem.Value.(*lruItem).value = value
		return
	}

	if lru.list.Len() >= lru.capacity {
		if oldest := lru.list.Back(); oldest != nil {
			lru.list.Remove(oldest)
			delete(lru.cache, oldest.Value.(*lruItem).key)
		}
	}

	lru.cache[key] = lru.list.PushFront(&lruItem{key: key, value: value})
}

func (lru *lruCache) Len() int {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	return lru.list.Len()
}

func (lru *lruCache) Clear() {
	lru.mu.Lock()
	defer lru.mu.Unlock()
	lru.cache = make(map[string]*list.Element)
	lru.list = list.New()
}

// CoverCache decorates a PageFetcher so that covers, and the absence of a
// cover, are remembered per album URL. Concurrent requests for the same album
// share one download. All other methods pass through.
type CoverCache struct {
	types.PageFetcher

	lru   *lruCache
	debug bool

	mu       sync.Mutex
	inflight map[string]*coverCall
}

type coverCall struct {
	done chan struct{}
	img  *types.Image
	err  error
}

func NewCoverCache(fetcher types.PageFetcher, entries int, debug bool) *CoverCache {
	return &CoverCache{
		PageFetcher: fetcher,
		lru:         newLRUCache(entries),
		debug:       debug,
		inflight:    make(map[string]*coverCall),
	}
}

// Cover returns the album's cover, sharing a download already in flight for
// the same album. A shared download that was cancelled by its own caller is
// retried with ctx.
func (c *CoverCache) Cover(ctx context.Context, albumURL string) (*types.Image, error) {
	for {
		if img, ok, err := c.cached(albumURL); ok {
			return img, err
		}

		c.mu.Lock()
		if img, ok, err := c.cached(albumURL); ok {
			c.mu.Unlock()
			return img, err
		}
		if call, ok := c.inflight[albumURL]; ok {
			c.mu.Unlock()
			select {
			case <-call.done:
				if aborted(call.err) && ctx.Err() == nil {
					if c.debug {
						log.Printf("[COVER] Shared download of %s was cancelled, retrying", albumURL)
					}
					continue
				}
				return call.img, call.err
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		call := &coverCall{done: make(chan struct{})}
		c.inflight[albumURL] = call
		c.mu.Unlock()

		return c.download(ctx, albumURL, call)
	}
}

func (c *CoverCache) download(ctx context.Context, albumURL string, call *coverCall) (*types.Image, error) {
	call.img, call.err = c.PageFetcher.Cover(ctx, albumURL)
	switch {
	case call.err == nil:
		c.lru.Put(albumURL, &cachedCover{image: call.img, lastAccess: time.Now()})
	case errors.Is(call.err, types.ErrNoCover):
		c.lru.Put(albumURL, &cachedCover{lastAccess: time.Now()})
	}

	c.mu.Lock()
	delete(c.inflight, albumURL)
	c.mu.Unlock()
	close(call.done)

	return call.img, call.err
}

func aborted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *CoverCache) cached(albumURL string) (*types.Image, bool, error) {
	entry, ok := c.lru.Get(albumURL)
	if !ok {
		return nil, false, nil
	}
	if c.debug {
		log.Printf("[COVER] Cache hit for %s", albumURL)
	}
	if entry.image == nil {
		return nil, true, types.ErrNoCover
	}
	return entry.image, true, nil
}

func (c *CoverCache) Len() int {
	return c.lru.Len()
}

func (c *CoverCache) Clear() {
	c.lru.Clear()
}

// Resource converts a downloaded cover into a fyne resource. A nil image
// yields the placeholder icon.
func Resource(img *types.Image) fyne.Resource {
	if img == nil || len(img.Data) == 0 {
		return Placeholder()
	}
	return fyne.NewStaticResource(img.Name, img.Data)
}

func Placeholder() fyne.Resource {
	return theme.MediaMusicIcon()
}
