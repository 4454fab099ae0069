package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"evdash/internal/models"
)

// pageRequest reads the shared listing query parameters. Date bounds are
// whole days in server time: dateTo is widened to the start of the next day
// so the filter is inclusive of it.
func pageRequest(r *http.Request, defaultLimit int) models.PageRequest {
	q := r.URL.Query()
	var pr models.PageRequest
	pr.Page, _ = strconv.Atoi(q.Get("page"))
	pr.Limit, _ = strconv.Atoi(q.Get("limit"))
	pr.Search = q.Get("search")
	pr.SortKey = q.Get("sortBy")
	pr.SortDesc = q.Get("sortDir") == "desc"

	if from, err := time.ParseInLocation("2006-01-02", q.Get("dateFrom"), time.Local); err == nil {
		pr.DateFrom = &from
	}
	if to, err := time.ParseInLocation("2006-01-02", q.Get("dateTo"), time.Local); err == nil {
		next := to.AddDate(0, 0, 1)
		pr.DateTo = &next
	}

	pr.Clamp(defaultLimit)
	return pr
}

func intParam(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return v, err == nil
}

func limitQuery(r *http.Request, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
