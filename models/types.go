package models

import "time"

// Subject groups pages
type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Page is a stored note; Content holds the extracted markdown
type Page struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	SubjectID string `json:"subject_id"`
	CreatedAt int64  `json:"created_at"`
}

// PageSummary is the listing form of a page
type PageSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SubjectID string `json:"subject_id"`
	Preview   string `json:"preview"`
	CreatedAt int64  `json:"created_at"`
}

// FlashCard is a question/answer pair generated from a page
type FlashCard struct {
	ID        string `json:"id"`
	PageID    string `json:"page_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	CreatedAt int64  `json:"created_at"`
}

// SectionView is a section prepared for a tabbed view
type SectionView struct {
	Title   string `json:"title"`
	Label   string `json:"label"`
	Level   int    `json:"level"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// ExtractRequest represents the request to extract markdown from pasted text
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse represents the extraction result
type ExtractResponse struct {
	Markdown string `json:"markdown"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// SectionsRequest represents the request to split markdown into sections
type SectionsRequest struct {
	Markdown string `json:"markdown"`
}

// SectionsResponse represents a list of rendered sections
type SectionsResponse struct {
	Sections []SectionView `json:"sections"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
}

// CreateSubjectRequest represents the request to create a subject
type CreateSubjectRequest struct {
	Name string `json:"name"`
}

// SubjectResponse wraps a single subject
type SubjectResponse struct {
	Subject *Subject `json:"subject,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// SubjectsResponse wraps a subject listing
type SubjectsResponse struct {
	Subjects []Subject `json:"subjects"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
}

// CreatePageRequest represents the request to create a page from raw text
type CreatePageRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	SubjectID string `json:"subject_id"`
}

// PageResponse wraps a single page
type PageResponse struct {
	Page    *Page  `json:"page,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PagesResponse wraps a page listing
type PagesResponse struct {
	Pages   []PageSummary `json:"pages"`
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
}

// FlashCardsResponse wraps the flash cards of a page
type FlashCardsResponse struct {
	FlashCards []FlashCard `json:"flash_cards"`
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
}

// DeleteResponse acknowledges a deletion
type DeleteResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SimilaritySearchRequest represents the request for similarity search
type SimilaritySearchRequest struct {
	Text              string   `json:"text"`
	MaxCount          int      `json:"max_count"`
	DistanceThreshold *float64 `json:"distance_threshold,omitempty"`
}

// SimilaritySearchResult represents a single search result
type SimilaritySearchResult struct {
	ID        string  `json:"id"`
	PageID    string  `json:"page_id"`
	Section   string  `json:"section"`
	Content   string  `json:"content"`
	Distance  float64 `json:"distance"`
	CreatedAt string  `json:"created_at"`
}

// SimilaritySearchResponse represents the response for similarity search
type SimilaritySearchResponse struct {
	Results []SimilaritySearchResult `json:"results"`
	Success bool                     `json:"success"`
	Error   string                   `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string    `json:"status"`
	Server string    `json:"server"`
	Time   time.Time `json:"time"`
}
