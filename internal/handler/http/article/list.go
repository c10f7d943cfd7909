package article

import (
	"log/slog"
	"net/http"
	"time"

	"ultra-news/internal/common/pagination"
	"ultra-news/internal/handler/http/respond"
	"ultra-news/internal/observability/logging"
	artUC "ultra-news/internal/usecase/article"
)

// ListHandler serves GET /articles with pagination, optional full-text
// search (q) and category filtering (category).
type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", "error", err.Error())
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	in := artUC.ListInput{
		Params:       params,
		Query:        r.URL.Query().Get("q"),
		CategorySlug: r.URL.Query().Get("category"),
	}

	result, err := h.Svc.List(ctx, in)
	if err != nil {
		logger.Error("failed to list articles",
			"error", err.Error(),
			"page", params.Page,
			"limit", params.Limit,
			"query", in.Query,
			"category", in.CategorySlug)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, toDTO(item, false))
	}

	logger.Info("article list served",
		"page", params.Page,
		"limit", params.Limit,
		"query", in.Query,
		"category", in.CategorySlug,
		"returned_count", len(dtos),
		"total", result.Pagination.Total,
		"duration_ms", time.Since(startTime).Milliseconds())

	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
