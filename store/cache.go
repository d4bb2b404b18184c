package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"notemind/models"
)

// DefaultCacheTTL is how long cached records stay fresh.
const DefaultCacheTTL = 5 * time.Minute

// CacheKind names one of the cached record families.
type CacheKind string

const (
	CacheSubjects CacheKind = "subjects"
	CachePages    CacheKind = "pages"
	CacheCards    CacheKind = "cards"
)

type bypassKey struct{}

// WithCacheBypass marks ctx so reads through a CachedRepository skip the cache.
func WithCacheBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

func bypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}

type entry[T any] struct {
	value  T
	stored time.Time
}

// CachedRepository is a read-through TTL cache in front of a Repository.
// Writes refresh single records and invalidate the listings they affect.
// A read that overlaps a write does not store its result. A zero ttl
// disables caching.
type CachedRepository struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time

	mu        sync.RWMutex
	gen       uint64 // bumped by every write and invalidation
	subjects  *entry[[]models.Subject]
	pages     map[string]entry[models.Page]
	pageLists map[string]entry[[]models.Page] // keyed by subject id, "" for all pages
	cards     map[string]entry[[]models.FlashCard]
}

var _ Repository = (*CachedRepository)(nil)

func NewCachedRepository(repo Repository, ttl time.Duration) *CachedRepository {
	c := &CachedRepository{repo: repo, ttl: ttl, now: time.Now}
	c.Clear()
	return c
}

func (c *CachedRepository) fresh(stored time.Time) bool {
	return c.ttl > 0 && c.now().Sub(stored) < c.ttl
}

func (c *CachedRepository) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// storeIf runs fill under the write lock unless a write happened since gen.
func (c *CachedRepository) storeIf(gen uint64, fill func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		fill()
	}
}

// Clear drops every cached entry.
func (c *CachedRepository) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.subjects = nil
	c.pages = make(map[string]entry[models.Page])
	c.pageLists = make(map[string]entry[[]models.Page])
	c.cards = make(map[string]entry[[]models.FlashCard])
}

// Invalidate drops one record of kind, or the whole family when id is empty.
// For CacheCards the id is a page id.
func (c *CachedRepository) Invalidate(kind CacheKind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	switch kind {
	case CacheSubjects:
		c.subjects = nil
	case CachePages:
		if id == "" {
			c.pages = make(map[string]entry[models.Page])
		} else {
			delete(c.pages, id)
		}
		c.pageLists = make(map[string]entry[[]models.Page])
	case CacheCards:
		if id == "" {
			c.cards = make(map[string]entry[[]models.FlashCard])
		} else {
			delete(c.cards, id)
		}
	}
}

func (c *CachedRepository) CreateSubject(ctx context.Context, subject models.Subject) error {
	if err := c.repo.CreateSubject(ctx, subject); err != nil {
		return err
	}
	c.Invalidate(CacheSubjects, "")
	return nil
}

func (c *CachedRepository) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	return c.repo.GetSubject(ctx, id)
}

func (c *CachedRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	if !bypassed(ctx) {
		c.mu.RLock()
		cached := c.subjects
		c.mu.RUnlock()
		if cached != nil && c.fresh(cached.stored) {
			return slices.Clone(cached.value), nil
		}
	}

	gen := c.generation()
	subjects, err := c.repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	c.storeIf(gen, func() {
		c.subjects = &entry[[]models.Subject]{value: slices.Clone(subjects), stored: c.now()}
	})
	return subjects, nil
}

func (c *CachedRepository) DeleteSubject(ctx context.Context, id string) ([]string, error) {
	pageIDs, err := c.repo.DeleteSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.gen++
	c.subjects = nil
	for _, pageID := range pageIDs {
		delete(c.pages, pageID)
		delete(c.cards, pageID)
	}
	c.pageLists = make(map[string]entry[[]models.Page])
	c.mu.Unlock()

	return pageIDs, nil
}

func (c *CachedRepository) CreatePage(ctx context.Context, page models.Page) error {
	if err := c.repo.CreatePage(ctx, page); err != nil {
		return err
	}
	c.mu.Lock()
	c.gen++
	c.pages[page.ID] = entry[models.Page]{value: page, stored: c.now()}
	c.pageLists = make(map[string]entry[[]models.Page])
	c.mu.Unlock()
	return nil
}

func (c *CachedRepository) GetPage(ctx context.Context, id string) (*models.Page, error) {
	if !bypassed(ctx) {
		c.mu.RLock()
		cached, ok := c.pages[id]
		c.mu.RUnlock()
		if ok && c.fresh(cached.stored) {
			page := cached.value
			return &page, nil
		}
	}

	gen := c.generation()
	page, err := c.repo.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	c.storeIf(gen, func() {
		c.pages[id] = entry[models.Page]{value: *page, stored: c.now()}
	})
	return page, nil
}

func (c *CachedRepository) ListPages(ctx context.Context, subjectID string) ([]models.Page, error) {
	if !bypassed(ctx) {
		c.mu.RLock()
		cached, ok := c.pageLists[subjectID]
		c.mu.RUnlock()
		if ok && c.fresh(cached.stored) {
			return slices.Clone(cached.value), nil
		}
	}

	gen := c.generation()
	pages, err := c.repo.ListPages(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	c.storeIf(gen, func() {
		now := c.now()
		c.pageLists[subjectID] = entry[[]models.Page]{value: slices.Clone(pages), stored: now}
		for _, page := range pages {
			c.pages[page.ID] = entry[models.Page]{value: page, stored: now}
		}
	})
	return pages, nil
}

func (c *CachedRepository) DeletePage(ctx context.Context, id string) error {
	if err := c.repo.DeletePage(ctx, id); err != nil {
		return err
	}
	c.Invalidate(CachePages, id)
	c.Invalidate(CacheCards, id)
	return nil
}

func (c *CachedRepository) CreateFlashCards(ctx context.Context, cards []models.FlashCard) error {
	if err := c.repo.CreateFlashCards(ctx, cards); err != nil {
		return err
	}
	for _, card := range cards {
		c.Invalidate(CacheCards, card.PageID)
	}
	return nil
}

func (c *CachedRepository) ListFlashCards(ctx context.Context, pageID string) ([]models.FlashCard, error) {
	if !bypassed(ctx) {
		c.mu.RLock()
		cached, ok := c.cards[pageID]
		c.mu.RUnlock()
		if ok && c.fresh(cached.stored) {
			return slices.Clone(cached.value), nil
		}
	}

	gen := c.generation()
	cards, err := c.repo.ListFlashCards(ctx, pageID)
	if err != nil {
		return nil, err
	}
	c.storeIf(gen, func() {
		c.cards[pageID] = entry[[]models.FlashCard]{value: slices.Clone(cards), stored: c.now()}
	})
	return cards, nil
}
