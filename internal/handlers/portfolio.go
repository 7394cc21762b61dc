package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/dheeraj-kumar123/portfolio/internal/services"
	"github.com/dheeraj-kumar123/portfolio/internal/storage"
	"github.com/dheeraj-kumar123/portfolio/internal/store"
	"github.com/dheeraj-kumar123/portfolio/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxImageBytes  = 8 << 20
	formFieldImage = "image"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// PortfolioHandler provides HTTP handlers for portfolio documents and
// uploaded portfolio images.
type PortfolioHandler struct {
	portfolioService *services.PortfolioService
	storage          *storage.Storage
}

// NewPortfolioHandler constructs a handler with the provided dependencies.
func NewPortfolioHandler(portfolioService *services.PortfolioService, st *storage.Storage) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		storage:          st,
	}
}

// PortfolioRouter registers portfolio routes on the given router. The
// owner-scoped routes require auth; the public handle lookup and image
// fetch do not.
func PortfolioRouter(
	r chi.Router,
	portfolioService *services.PortfolioService,
	st *storage.Storage,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewPortfolioHandler(portfolioService, st)

	r.With(authMiddleware).Get("/", handler.GetMyPortfolio)
	r.With(authMiddleware).Post("/", handler.SavePortfolio)
	r.With(authMiddleware).Delete("/", handler.DeletePortfolio)
	r.With(authMiddleware).Post("/upload", handler.UploadImage)
	r.Get("/public/{handle}", handler.GetPublicPortfolio)
	r.Get("/images/*", handler.GetImage)
}

// SavePortfolio upserts the caller's whole document. Sending
// published=true is how publishing happens; there is no separate
// transition endpoint.
func (h *PortfolioHandler) SavePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var doc PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	saved, err := h.portfolioService.Save(r.Context(), userID, doc.Portfolio())
	if err != nil {
		if errors.Is(err, services.ErrInvalidHandle) {
			writeError(w, http.StatusBadRequest, "invalid handle")
			return
		}
		if errors.Is(err, store.ErrHandleTaken) {
			writeError(w, http.StatusConflict, "handle already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save portfolio")
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// GetMyPortfolio returns the caller's own document, published or not.
func (h *PortfolioHandler) GetMyPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := h.portfolioService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch portfolio")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// DeletePortfolio removes the caller's document. Deleting nothing still
// succeeds.
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.portfolioService.Delete(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete portfolio")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPublicPortfolio returns the published document for a handle. The
// owner is never identified in the response.
func (h *PortfolioHandler) GetPublicPortfolio(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	doc, err := h.portfolioService.GetPublic(r.Context(), handle)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "portfolio not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch portfolio")
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// UploadImage stores a portfolio image in object storage and returns
// the URL the editor should embed in the document.
func (h *PortfolioHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "image storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		writeError(w, http.StatusBadRequest, "image too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	key := fmt.Sprintf("images/%d/%s%s", userID, uuid.NewString(), ext)
	if err := h.storage.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	writeJSON(w, http.StatusCreated, ImageUploadResponse{
		Key: key,
		URL: "/api/portfolio/" + key,
	})
}

// GetImage streams a previously uploaded image back from object storage.
func (h *PortfolioHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	key := path.Clean("images/" + chi.URLParam(r, "*"))
	if !strings.HasPrefix(key, "images/") {
		writeError(w, http.StatusBadRequest, "invalid image key")
		return
	}

	obj, err := h.storage.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	defer obj.Close()

	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	// Object storage reads are lazy; a missing key may only surface on
	// the first Read. Probe before writing the status line so a miss
	// still answers 404.
	buf := make([]byte, 32<<10)
	n, readErr := obj.Read(buf)
	if n == 0 && readErr != nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf[:n]); err != nil {
		return
	}
	if readErr == nil {
		_, _ = io.Copy(w, obj)
	}
}

// PortfolioRequest is the save payload: the full document, minus the
// server-assigned fields.
type PortfolioRequest struct {
	Handle       string             `json:"handle"`
	PersonalInfo types.PersonalInfo `json:"personalInfo"`
	Skills       []types.Skill      `json:"skills"`
	Projects     []types.Project    `json:"projects"`
	Education    []types.Education  `json:"education"`
	Experience   []types.Experience `json:"experience"`
	Contact      types.Contact      `json:"contact"`
	Theme        types.Theme        `json:"theme"`
	Published    bool               `json:"published"`
}

// Portfolio converts the request payload into the domain document.
func (r PortfolioRequest) Portfolio() types.Portfolio {
	return types.Portfolio{
		Handle:       r.Handle,
		PersonalInfo: r.PersonalInfo,
		Skills:       r.Skills,
		Projects:     r.Projects,
		Education:    r.Education,
		Experience:   r.Experience,
		Contact:      r.Contact,
		Theme:        r.Theme,
		Published:    r.Published,
	}
}

// ImageUploadResponse is the upload result payload.
type ImageUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
