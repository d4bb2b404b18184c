package notes

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notemind/flashcards"
	"notemind/helpers"
	"notemind/markdown"
	"notemind/models"
	"notemind/render"
	"notemind/store"
)

var (
	// ErrInvalidInput is returned for missing or malformed arguments.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a subject or page does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrUnavailable is returned when an operation needs a collaborator that
	// is not configured.
	ErrUnavailable = errors.New("not configured")
)

const (
	defaultSearchCount = 5
	previewLines       = 3
)

// Options wires the collaborators of a Service. Index, Embedder and Generator
// are optional; the operations that need them report ErrUnavailable.
type Options struct {
	Repository store.Repository
	Index      store.SectionIndex
	Embedder   store.Embedder
	Generator  flashcards.Generator
	Logger     *logrus.Logger

	// ChunkSize bounds the text embedded per section chunk, in bytes.
	ChunkSize     int
	RetryAttempts int
	RetryDelay    time.Duration
}

// Service implements note-taking on top of the store, the markdown engine
// and the AI backends.
type Service struct {
	repo      store.Repository
	index     store.SectionIndex
	embedder  store.Embedder
	generator flashcards.Generator
	logger    *logrus.Entry

	chunkSize     int
	retryAttempts int
	retryDelay    time.Duration

	now   func() time.Time
	newID func() string
}

func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Service{
		repo:          opts.Repository,
		index:         opts.Index,
		embedder:      opts.Embedder,
		generator:     opts.Generator,
		logger:        logger.WithField("component", "notes"),
		chunkSize:     opts.ChunkSize,
		retryAttempts: max(cmp.Or(opts.RetryAttempts, 3), 1),
		retryDelay:    cmp.Or(opts.RetryDelay, 500*time.Millisecond),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
	return s
}

func (s *Service) log(operation string) *logrus.Entry {
	return s.logger.WithField("operation", operation)
}

// CreateSubject stores a new subject named name.
func (s *Service) CreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", ErrInvalidInput)
	}
	subject := models.Subject{ID: s.newID(), Name: name, CreatedAt: s.now().UnixMilli()}
	if err := s.repo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	s.log("create_subject").WithField("subject_id", subject.ID).Info("subject created")
	return &subject, nil
}

func (s *Service) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

// DeleteSubject removes a subject with all of its pages.
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	if _, err := s.repo.GetSubject(ctx, id); err != nil {
		return err
	}
	pageIDs, err := s.repo.DeleteSubject(ctx, id)
	if err != nil {
		return err
	}
	s.log("delete_subject").WithFields(logrus.Fields{
		"subject_id": id,
		"pages":      len(pageIDs),
	}).Info("subject deleted")
	return nil
}

// CreatePage extracts markdown from raw, stores the page under subjectID and
// indexes its sections for search. Indexing problems are logged and leave the
// page stored without search entries.
func (s *Service) CreatePage(ctx context.Context, title, raw, subjectID string) (*models.Page, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case strings.TrimSpace(raw) == "":
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	case subjectID == "":
		return nil, fmt.Errorf("%w: subject_id is required", ErrInvalidInput)
	}
	if _, err := s.repo.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	content := markdown.Extract(raw)
	if strings.TrimSpace(content) == "" {
		content = raw
	}

	page := models.Page{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		SubjectID: subjectID,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.repo.CreatePage(ctx, page); err != nil {
		return nil, err
	}

	logger := s.log("create_page").WithField("page_id", page.ID)
	if indexed, err := s.indexPage(ctx, page); err != nil {
		logger.WithError(err).Warn("page stored without search index entries")
	} else {
		logger.WithField("chunks", indexed).Info("page created")
	}
	return &page, nil
}

// indexPage embeds every section of page as "# title\n\ncontent", chunked at
// the configured size. On failure the page's partial entries are removed.
func (s *Service) indexPage(ctx context.Context, page models.Page) (int, error) {
	if s.index == nil || s.embedder == nil {
		return 0, nil
	}

	indexed := 0
	for _, section := range markdown.Sectionize(page.Content) {
		header := "# " + section.Title
		for _, chunk := range markdown.ChunkSection(header, header+"\n\n"+section.Content, s.chunkSize) {
			embedding, err := s.embed(ctx, chunk)
			if err == nil {
				_, err = s.index.IndexSection(ctx, page.ID, section.Title, chunk, embedding)
			}
			if err != nil {
				if cleanupErr := s.index.DeletePageSections(ctx, page.ID); cleanupErr != nil {
					s.log("index_page").WithError(cleanupErr).Warn("failed to remove partial index entries")
				}
				return 0, fmt.Errorf("index section %q: %w", section.Title, err)
			}
			indexed++
		}
	}
	return indexed, nil
}

func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	var embedding []float32
	err := helpers.Retry(ctx, s.log("embed"), s.retryAttempts, s.retryDelay, func() error {
		var err error
		embedding, err = s.embedder.Embed(ctx, text)
		return err
	})
	return embedding, err
}

func (s *Service) GetPage(ctx context.Context, id string) (*models.Page, error) {
	return s.repo.GetPage(ctx, id)
}

// ListPages returns page summaries newest first, optionally for one subject.
func (s *Service) ListPages(ctx context.Context, subjectID string) ([]models.PageSummary, error) {
	pages, err := s.repo.ListPages(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.PageSummary, 0, len(pages))
	for _, page := range pages {
		summaries = append(summaries, models.PageSummary{
			ID:        page.ID,
			Title:     page.Title,
			SubjectID: page.SubjectID,
			Preview:   markdown.Preview(page.Content, previewLines),
			CreatedAt: page.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *Service) DeletePage(ctx context.Context, id string) error {
	if err := s.repo.DeletePage(ctx, id); err != nil {
		return err
	}
	s.log("delete_page").WithField("page_id", id).Info("page deleted")
	return nil
}

// PageSections renders the sections of a stored page.
func (s *Service) PageSections(ctx context.Context, id string) ([]models.SectionView, error) {
	page, err := s.repo.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}
	return render.Sections(page.Content)
}

// GenerateFlashCards asks the generator for cards covering the whole page and
// stores them.
func (s *Service) GenerateFlashCards(ctx context.Context, pageID string) ([]models.FlashCard, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("flash card generation: %w", ErrUnavailable)
	}
	page, err := s.repo.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	var generated []flashcards.Card
	err = helpers.Retry(ctx, s.log("generate_flash_cards"), s.retryAttempts, s.retryDelay, func() error {
		var err error
		generated, err = s.generator.Generate(ctx, page.Title, page.Content)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("generate flash cards for page %s: %w", pageID, err)
	}

	createdAt := s.now().UnixMilli()
	cards := make([]models.FlashCard, 0, len(generated))
	for _, card := range generated {
		cards = append(cards, models.FlashCard{
			ID:        s.newID(),
			PageID:    page.ID,
			Question:  card.Question,
			Answer:    card.Answer,
			CreatedAt: createdAt,
		})
	}
	if err := s.repo.CreateFlashCards(ctx, cards); err != nil {
		return nil, err
	}

	s.log("generate_flash_cards").WithFields(logrus.Fields{
		"page_id": page.ID,
		"cards":   len(cards),
	}).Info("flash cards generated")
	return cards, nil
}

func (s *Service) ListFlashCards(ctx context.Context, pageID string) ([]models.FlashCard, error) {
	if _, err := s.repo.GetPage(ctx, pageID); err != nil {
		return nil, err
	}
	cards, err := s.repo.ListFlashCards(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []models.FlashCard{}
	}
	return cards, nil
}

// Search returns the sections closest to text, nearest first. A nil
// threshold keeps every hit; otherwise hits farther than it are dropped.
func (s *Service) Search(ctx context.Context, text string, maxCount int, threshold *float64) ([]models.SimilaritySearchResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if s.index == nil || s.embedder == nil {
		return nil, fmt.Errorf("search: %w", ErrUnavailable)
	}
	if maxCount <= 0 {
		maxCount = defaultSearchCount
	}

	queryEmbedding, err := s.embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.index.SearchSections(ctx, queryEmbedding, maxCount)
	if err != nil {
		return nil, err
	}

	results := make([]models.SimilaritySearchResult, 0, len(hits))
	for _, hit := range hits {
		if threshold != nil && hit.Distance > *threshold {
			continue
		}
		results = append(results, models.SimilaritySearchResult{
			ID:        hit.ID,
			PageID:    hit.PageID,
			Section:   hit.Section,
			Content:   hit.Content,
			Distance:  hit.Distance,
			CreatedAt: time.Unix(hit.CreatedAt, 0).Format(time.RFC3339),
		})
	}
	slices.SortStableFunc(results, func(a, b models.SimilaritySearchResult) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return results, nil
}
