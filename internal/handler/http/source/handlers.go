// Package source provides HTTP handlers for the source read endpoints.
package source

import (
	"errors"
	"net/http"
	"time"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/handler/http/pathutil"
	"ultra-news/internal/handler/http/respond"
	srcUC "ultra-news/internal/usecase/source"
)

// DTO represents the JSON structure for source data transfer.
type DTO struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"The Verge"`
	URL       string    `json:"url" example:"https://www.theverge.com/rss/index.xml"`
	Kind      string    `json:"kind" example:"rss"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(s *entity.Source) DTO {
	return DTO{
		ID:        s.ID,
		Name:      s.Name,
		URL:       s.URL,
		Kind:      s.Kind,
		CreatedAt: s.CreatedAt,
	}
}

// ListHandler serves GET /sources.
type ListHandler struct{ Svc *srcUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sources, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(sources))
	for _, s := range sources {
		dtos = append(dtos, toDTO(s))
	}
	respond.JSON(w, http.StatusOK, dtos)
}

// GetHandler serves GET /sources/{id}.
type GetHandler struct{ Svc *srcUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	src, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, srcUC.ErrInvalidSourceID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, srcUC.ErrSourceNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(src))
}

// Register registers the source read routes with the given mux.
func Register(mux *http.ServeMux, svc *srcUC.Service) {
	mux.Handle("GET /sources", ListHandler{Svc: svc})
	mux.Handle("GET /sources/{id}", GetHandler{Svc: svc})
}
