package store

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"notemind/models"
)

var (
	_ Repository   = (*MemoryStore)(nil)
	_ SectionIndex = (*MemoryStore)(nil)
)

type memoryDoc struct {
	hit       SectionHit
	embedding []float32
}

// MemoryStore is a process-local Repository and SectionIndex. It is used when
// no Redis server is available and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	subjects map[string]models.Subject
	pages    map[string]models.Page
	cards    map[string][]models.FlashCard
	docs     map[string]memoryDoc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subjects: make(map[string]models.Subject),
		pages:    make(map[string]models.Page),
		cards:    make(map[string][]models.FlashCard),
		docs:     make(map[string]memoryDoc),
	}
}

func (m *MemoryStore) CreateSubject(_ context.Context, subject models.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects[subject.ID] = subject
	return nil
}

func (m *MemoryStore) GetSubject(_ context.Context, id string) (*models.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subject, ok := m.subjects[id]
	if !ok {
		return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	return &subject, nil
}

func (m *MemoryStore) ListSubjects(_ context.Context) ([]models.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subjects := make([]models.Subject, 0, len(m.subjects))
	for _, subject := range m.subjects {
		subjects = append(subjects, subject)
	}
	sortSubjects(subjects)
	return subjects, nil
}

func (m *MemoryStore) DeleteSubject(_ context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pageIDs []string
	for pageID, page := range m.pages {
		if page.SubjectID == id {
			pageIDs = append(pageIDs, pageID)
			m.deletePageLocked(pageID)
		}
	}
	delete(m.subjects, id)
	slices.Sort(pageIDs)
	return pageIDs, nil
}

func (m *MemoryStore) CreatePage(_ context.Context, page models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.ID] = page
	return nil
}

func (m *MemoryStore) GetPage(_ context.Context, id string) (*models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	return &page, nil
}

func (m *MemoryStore) ListPages(_ context.Context, subjectID string) ([]models.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pages []models.Page
	for _, page := range m.pages {
		if subjectID == "" || page.SubjectID == subjectID {
			pages = append(pages, page)
		}
	}
	slices.SortStableFunc(pages, func(a, b models.Page) int {
		return cmp.Or(cmp.Compare(b.CreatedAt, a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return pages, nil
}

func (m *MemoryStore) DeletePage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[id]; !ok {
		return fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	m.deletePageLocked(id)
	return nil
}

func (m *MemoryStore) deletePageLocked(id string) {
	delete(m.pages, id)
	delete(m.cards, id)
	for docID, doc := range m.docs {
		if doc.hit.PageID == id {
			delete(m.docs, docID)
		}
	}
}

func (m *MemoryStore) CreateFlashCards(_ context.Context, cards []models.FlashCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, card := range cards {
		m.cards[card.PageID] = append(m.cards[card.PageID], card)
	}
	return nil
}

func (m *MemoryStore) ListFlashCards(_ context.Context, pageID string) ([]models.FlashCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cards := slices.Clone(m.cards[pageID])
	slices.SortStableFunc(cards, func(a, b models.FlashCard) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return cards, nil
}

func (m *MemoryStore) IndexSection(_ context.Context, pageID, section, content string, embedding []float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docID := docPrefix + uuid.New().String()
	m.docs[docID] = memoryDoc{
		hit: SectionHit{
			ID:        docID,
			PageID:    pageID,
			Section:   section,
			Content:   content,
			CreatedAt: time.Now().Unix(),
		},
		embedding: slices.Clone(embedding),
	}
	return docID, nil
}

// SearchSections ranks every stored section by squared L2 distance, the
// metric the Redis index reports.
func (m *MemoryStore) SearchSections(_ context.Context, queryVector []float32, maxCount int) ([]SectionHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hits := make([]SectionHit, 0, len(m.docs))
	for _, doc := range m.docs {
		hit := doc.hit
		hit.Distance = squaredL2(queryVector, doc.embedding)
		hits = append(hits, hit)
	}
	slices.SortFunc(hits, func(a, b SectionHit) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.ID, b.ID))
	})
	if maxCount > 0 && len(hits) > maxCount {
		hits = hits[:maxCount]
	}
	return hits, nil
}

func (m *MemoryStore) DeletePageSections(_ context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for docID, doc := range m.docs {
		if doc.hit.PageID == pageID {
			delete(m.docs, docID)
		}
	}
	return nil
}

func squaredL2(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
