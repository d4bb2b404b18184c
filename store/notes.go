package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"notemind/models"
)

// ErrNotFound is returned when a subject, page or card does not exist.
var ErrNotFound = errors.New("not found")

const (
	docPrefix     = "doc:"
	subjectPrefix = "subject:"
	pagePrefix    = "page:"
	cardPrefix    = "card:"

	subjectsKey = "subjects"
	pagesKey    = "pages"
)

func subjectKey(id string) string      { return subjectPrefix + id }
func subjectPagesKey(id string) string { return subjectPrefix + id + ":pages" }
func pageKey(id string) string         { return pagePrefix + id }
func pageCardsKey(id string) string    { return pagePrefix + id + ":cards" }
func pageDocsKey(id string) string     { return pagePrefix + id + ":docs" }
func cardKey(id string) string         { return cardPrefix + id }

// Repository persists subjects, pages and flash cards.
type Repository interface {
	CreateSubject(ctx context.Context, subject models.Subject) error
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	// DeleteSubject removes the subject and its pages, returning the removed page ids.
	DeleteSubject(ctx context.Context, id string) ([]string, error)

	CreatePage(ctx context.Context, page models.Page) error
	GetPage(ctx context.Context, id string) (*models.Page, error)
	// ListPages returns pages newest first; an empty subjectID lists every page.
	ListPages(ctx context.Context, subjectID string) ([]models.Page, error)
	DeletePage(ctx context.Context, id string) error

	CreateFlashCards(ctx context.Context, cards []models.FlashCard) error
	// ListFlashCards returns the cards of a page newest first.
	ListFlashCards(ctx context.Context, pageID string) ([]models.FlashCard, error)
}

// SectionHit is a section chunk matched by a similarity search.
type SectionHit struct {
	ID        string
	PageID    string
	Section   string
	Content   string
	Distance  float64
	CreatedAt int64
}

// SectionIndex stores and searches section embeddings.
type SectionIndex interface {
	IndexSection(ctx context.Context, pageID, section, content string, embedding []float32) (string, error)
	SearchSections(ctx context.Context, queryVector []float32, maxCount int) ([]SectionHit, error)
	DeletePageSections(ctx context.Context, pageID string) error
}

var (
	_ Repository   = (*RedisStore)(nil)
	_ SectionIndex = (*RedisStore)(nil)
)

// RedisStore keeps notes as Redis hashes indexed by sorted sets, and section
// embeddings as "doc:" hashes covered by the search index.
type RedisStore struct {
	client    *redis.Client
	indexName string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, indexName string) *RedisStore {
	return &RedisStore{client: client, indexName: indexName}
}

// CreateSubject stores a subject.
func (s *RedisStore) CreateSubject(ctx context.Context, subject models.Subject) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, subjectKey(subject.ID), map[string]any{
			"id":         subject.ID,
			"name":       subject.Name,
			"created_at": subject.CreatedAt,
		})
		pipe.ZAdd(ctx, subjectsKey, redis.Z{Score: float64(subject.CreatedAt), Member: subject.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store subject %s: %w", subject.ID, err)
	}
	return nil
}

// GetSubject loads a subject by id.
func (s *RedisStore) GetSubject(ctx context.Context, id string) (*models.Subject, error) {
	fields, err := s.client.HGetAll(ctx, subjectKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load subject %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
	}
	subject := subjectFromHash(fields)
	return &subject, nil
}

// ListSubjects returns every subject ordered by name, then id.
func (s *RedisStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	hashes, err := s.loadHashes(ctx, subjectsKey, false, subjectKey)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	subjects := make([]models.Subject, 0, len(hashes))
	for _, fields := range hashes {
		subjects = append(subjects, subjectFromHash(fields))
	}
	sortSubjects(subjects)
	return subjects, nil
}

// DeleteSubject removes a subject together with its pages, their cards and
// their section embeddings.
func (s *RedisStore) DeleteSubject(ctx context.Context, id string) ([]string, error) {
	pageIDs, err := s.client.ZRange(ctx, subjectPagesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list pages of subject %s: %w", id, err)
	}
	for _, pageID := range pageIDs {
		if err := s.DeletePage(ctx, pageID); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, subjectKey(id), subjectPagesKey(id))
		pipe.ZRem(ctx, subjectsKey, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete subject %s: %w", id, err)
	}
	return pageIDs, nil
}

// CreatePage stores a page and indexes it under its subject.
func (s *RedisStore) CreatePage(ctx context.Context, page models.Page) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, pageKey(page.ID), map[string]any{
			"id":         page.ID,
			"title":      page.Title,
			"content":    page.Content,
			"subject_id": page.SubjectID,
			"created_at": page.CreatedAt,
		})
		member := redis.Z{Score: float64(page.CreatedAt), Member: page.ID}
		pipe.ZAdd(ctx, pagesKey, member)
		pipe.ZAdd(ctx, subjectPagesKey(page.SubjectID), member)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store page %s: %w", page.ID, err)
	}
	return nil
}

// GetPage loads a page by id.
func (s *RedisStore) GetPage(ctx context.Context, id string) (*models.Page, error) {
	fields, err := s.client.HGetAll(ctx, pageKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	page := pageFromHash(fields)
	return &page, nil
}

// ListPages returns pages newest first, optionally restricted to a subject.
func (s *RedisStore) ListPages(ctx context.Context, subjectID string) ([]models.Page, error) {
	key := pagesKey
	if subjectID != "" {
		key = subjectPagesKey(subjectID)
	}
	hashes, err := s.loadHashes(ctx, key, true, pageKey)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	pages := make([]models.Page, 0, len(hashes))
	for _, fields := range hashes {
		pages = append(pages, pageFromHash(fields))
	}
	return pages, nil
}

// DeletePage removes a page, its flash cards and its section embeddings.
func (s *RedisStore) DeletePage(ctx context.Context, id string) error {
	page, err := s.GetPage(ctx, id)
	if err != nil {
		return err
	}

	cardIDs, err := s.client.ZRange(ctx, pageCardsKey(id), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("list cards of page %s: %w", id, err)
	}
	if err := s.DeletePageSections(ctx, id); err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		keys := []string{pageKey(id), pageCardsKey(id)}
		for _, cardID := range cardIDs {
			keys = append(keys, cardKey(cardID))
		}
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, pagesKey, id)
		pipe.ZRem(ctx, subjectPagesKey(page.SubjectID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete page %s: %w", id, err)
	}
	return nil
}

// CreateFlashCards stores cards and indexes them under their page.
func (s *RedisStore) CreateFlashCards(ctx context.Context, cards []models.FlashCard) error {
	if len(cards) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, card := range cards {
			pipe.HSet(ctx, cardKey(card.ID), map[string]any{
				"id":         card.ID,
				"page_id":    card.PageID,
				"question":   card.Question,
				"answer":     card.Answer,
				"created_at": card.CreatedAt,
			})
			pipe.ZAdd(ctx, pageCardsKey(card.PageID), redis.Z{Score: float64(card.CreatedAt), Member: card.ID})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store flash cards: %w", err)
	}
	return nil
}

// ListFlashCards returns the cards of a page, newest first.
func (s *RedisStore) ListFlashCards(ctx context.Context, pageID string) ([]models.FlashCard, error) {
	hashes, err := s.loadHashes(ctx, pageCardsKey(pageID), true, cardKey)
	if err != nil {
		return nil, fmt.Errorf("list flash cards of page %s: %w", pageID, err)
	}
	cards := make([]models.FlashCard, 0, len(hashes))
	for _, fields := range hashes {
		cards = append(cards, models.FlashCard{
			ID:        fields["id"],
			PageID:    fields["page_id"],
			Question:  fields["question"],
			Answer:    fields["answer"],
			CreatedAt: parseInt(fields["created_at"]),
		})
	}
	return cards, nil
}

// IndexSection stores one embedded section chunk of a page.
func (s *RedisStore) IndexSection(ctx context.Context, pageID, section, content string, embedding []float32) (string, error) {
	docID := docPrefix + uuid.New().String()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := StoreEmbedding(ctx, pipe, docID, content, embedding, pageID, section); err != nil {
			return err
		}
		pipe.SAdd(ctx, pageDocsKey(pageID), docID)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store section embedding of page %s: %w", pageID, err)
	}
	return docID, nil
}

// SearchSections runs a KNN query over section embeddings.
func (s *RedisStore) SearchSections(ctx context.Context, queryVector []float32, maxCount int) ([]SectionHit, error) {
	docs, err := SimilaritySearch(ctx, s.client, s.indexName, queryVector, maxCount)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	hits := make([]SectionHit, 0, len(docs))
	for _, doc := range docs {
		distance, err := strconv.ParseFloat(doc.Fields["vector_distance"], 64)
		if err != nil {
			distance = math.MaxFloat64
		}
		hits = append(hits, SectionHit{
			ID:        doc.ID,
			PageID:    doc.Fields["label"],
			Section:   doc.Fields["metadata"],
			Content:   doc.Fields["content"],
			Distance:  distance,
			CreatedAt: parseInt(doc.Fields["created_at"]),
		})
	}
	return hits, nil
}

// DeletePageSections removes every section embedding of a page.
func (s *RedisStore) DeletePageSections(ctx context.Context, pageID string) error {
	docIDs, err := s.client.SMembers(ctx, pageDocsKey(pageID)).Result()
	if err != nil {
		return fmt.Errorf("list section embeddings of page %s: %w", pageID, err)
	}
	keys := append(docIDs, pageDocsKey(pageID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete section embeddings of page %s: %w", pageID, err)
	}
	return nil
}

// loadHashes reads the ids of a sorted set and fetches the matching hashes in
// one pipeline. Ids whose hash has vanished are skipped.
func (s *RedisStore) loadHashes(ctx context.Context, setKey string, newestFirst bool, keyFor func(string) string) ([]map[string]string, error) {
	var (
		ids []string
		err error
	)
	if newestFirst {
		ids, err = s.client.ZRevRange(ctx, setKey, 0, -1).Result()
	} else {
		ids, err = s.client.ZRange(ctx, setKey, 0, -1).Result()
	}
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, keyFor(id))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hashes := make([]map[string]string, 0, len(ids))
	for _, cmd := range cmds {
		if fields := cmd.Val(); len(fields) > 0 {
			hashes = append(hashes, fields)
		}
	}
	return hashes, nil
}

// sortSubjects orders subjects by case-insensitive name, breaking ties by id.
func sortSubjects(subjects []models.Subject) {
	slices.SortStableFunc(subjects, func(a, b models.Subject) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

func subjectFromHash(fields map[string]string) models.Subject {
	return models.Subject{
		ID:        fields["id"],
		Name:      fields["name"],
		CreatedAt: parseInt(fields["created_at"]),
	}
}

func pageFromHash(fields map[string]string) models.Page {
	return models.Page{
		ID:        fields["id"],
		Title:     fields["title"],
		Content:   fields["content"],
		SubjectID: fields["subject_id"],
		CreatedAt: parseInt(fields["created_at"]),
	}
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
