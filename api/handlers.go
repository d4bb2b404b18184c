package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"notemind/markdown"
	"notemind/models"
	"notemind/notes"
	"notemind/render"
)

const serverName = "notemind-server"

// Handler serves the REST API on top of a notes.Service.
type Handler struct {
	svc    *notes.Service
	logger *logrus.Entry
}

func NewHandler(svc *notes.Service, logger *logrus.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.WithField("component", "api")}
}

// Routes returns the REST API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", HealthCheckHandler)
	mux.HandleFunc("/extract", ExtractHandler)
	mux.HandleFunc("/sections", SectionsHandler)

	mux.HandleFunc("/subjects", h.SubjectsHandler)
	mux.HandleFunc("/subjects/{id}", h.SubjectHandler)

	mux.HandleFunc("/pages", h.PagesHandler)
	mux.HandleFunc("/pages/{id}", h.PageHandler)
	mux.HandleFunc("/pages/{id}/sections", h.PageSectionsHandler)
	mux.HandleFunc("/pages/{id}/flashcards", h.FlashCardsHandler)

	mux.HandleFunc("/search", h.SimilaritySearchHandler)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"success": false,
		"error":   "Method not allowed. Use " + strings.Join(allowed, " or "),
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, notes.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, notes.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, notes.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error envelope and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
		}).WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   fmt.Sprintf("Invalid request body: %v", err),
	})
}

// HealthCheckHandler handles health check requests
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status: "healthy",
		Server: serverName,
		Time:   time.Now().UTC(),
	})
}

// ExtractHandler pulls the markdown out of pasted text
func ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ExtractResponse{
		Markdown: markdown.Extract(req.Text),
		Success:  true,
	})
}

// SectionsHandler splits markdown into rendered sections
func SectionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req models.SectionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}

	views, err := render.Sections(req.Markdown)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.SectionsResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.SectionsResponse{
		Sections: views,
		Success:  true,
	})
}

// SubjectsHandler lists (GET) or creates (POST) subjects
func (h *Handler) SubjectsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		subjects, err := h.svc.ListSubjects(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.SubjectsResponse{Subjects: subjects, Success: true})

	case http.MethodPost:
		var req models.CreateSubjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, err)
			return
		}
		subject, err := h.svc.CreateSubject(r.Context(), req.Name)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, models.SubjectResponse{Subject: subject, Success: true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// SubjectHandler deletes a subject together with its pages
func (h *Handler) SubjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, http.MethodDelete)
		return
	}

	id := r.PathValue("id")
	if err := h.svc.DeleteSubject(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.DeleteResponse{ID: id, Success: true})
}

// PagesHandler lists (GET, optional ?subject_id=) or creates (POST) pages
func (h *Handler) PagesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		pages, err := h.svc.ListPages(r.Context(), r.URL.Query().Get("subject_id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.PagesResponse{Pages: pages, Success: true})

	case http.MethodPost:
		var req models.CreatePageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, err)
			return
		}
		page, err := h.svc.CreatePage(r.Context(), req.Title, req.Content, req.SubjectID)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, models.PageResponse{Page: page, Success: true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// PageHandler returns (GET) or deletes (DELETE) a page
func (h *Handler) PageHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		page, err := h.svc.GetPage(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.PageResponse{Page: page, Success: true})

	case http.MethodDelete:
		if err := h.svc.DeletePage(r.Context(), id); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.DeleteResponse{ID: id, Success: true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

// PageSectionsHandler returns the rendered sections of a page
func (h *Handler) PageSectionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	views, err := h.svc.PageSections(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SectionsResponse{Sections: views, Success: true})
}

// FlashCardsHandler lists (GET) or generates (POST) the flash cards of a page
func (h *Handler) FlashCardsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		cards  []models.FlashCard
		err    error
		status = http.StatusOK
	)
	switch r.Method {
	case http.MethodGet:
		cards, err = h.svc.ListFlashCards(r.Context(), id)
	case http.MethodPost:
		cards, err = h.svc.GenerateFlashCards(r.Context(), id)
		status = http.StatusCreated
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, status, models.FlashCardsResponse{FlashCards: cards, Success: true})
}

// SimilaritySearchHandler handles similarity search requests
func (h *Handler) SimilaritySearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req models.SimilaritySearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}

	results, err := h.svc.Search(r.Context(), req.Text, req.MaxCount, req.DistanceThreshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SimilaritySearchResponse{Results: results, Success: true})
}
