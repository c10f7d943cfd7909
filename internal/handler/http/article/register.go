package article

import (
	"log/slog"
	"net/http"

	"ultra-news/internal/common/pagination"
	artUC "ultra-news/internal/usecase/article"
)

// Register registers the article read routes with the given mux.
func Register(mux *http.ServeMux, svc *artUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /articles", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /articles/{slug}", GetHandler{Svc: svc})
}
