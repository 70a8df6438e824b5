package api

import (
	"net/http"
	"strconv"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("%s must be a positive integer", name)
	}
	return id, nil
}

// parsePage reads the from/size query parameters into an offset window.
func parsePage(r *http.Request) (models.Page, error) {
	page := models.Page{Offset: 0, Limit: models.DefaultPageSize}

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil {
			return models.Page{}, domain.ErrBadPage
		}
		page.Offset = from
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return models.Page{}, domain.ErrBadPage
		}
		page.Limit = size
	}

	if !page.Valid() || page.Limit > models.MaxPageSize {
		return models.Page{}, domain.ErrBadPage
	}
	return page, nil
}
