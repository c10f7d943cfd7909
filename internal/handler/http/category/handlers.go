// Package category provides HTTP handlers for the category read endpoints.
package category

import (
	"net/http"

	"ultra-news/internal/domain/entity"
	"ultra-news/internal/handler/http/respond"
	catUC "ultra-news/internal/usecase/category"
)

// DTO represents the JSON structure for category data transfer.
type DTO struct {
	ID   int64  `json:"id" example:"1"`
	Name string `json:"name" example:"Tech"`
	Slug string `json:"slug" example:"tech"`
}

func toDTO(c *entity.Category) DTO {
	return DTO{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// ListHandler serves GET /categories.
type ListHandler struct{ Svc *catUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toDTO(c))
	}
	respond.JSON(w, http.StatusOK, dtos)
}

// Register registers the category read routes with the given mux.
func Register(mux *http.ServeMux, svc *catUC.Service) {
	mux.Handle("GET /categories", ListHandler{Svc: svc})
}
